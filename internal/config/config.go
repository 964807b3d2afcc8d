package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for settings that are not in the environment.
const (
	DefaultProvider   = "gemini"
	DefaultAPIAddr    = ":8080"
	DefaultSaveDir    = ".saves"
	DefaultLogFile    = "read-the-room.log"
	DefaultSessionTTL = 60 * time.Minute
)

// Config holds the application configuration.
type Config struct {
	Provider     string
	Model        string
	GeminiAPIKey string
	OpenAIAPIKey string

	// StoreDSN selects the session store; empty keeps sessions in memory.
	StoreDSN   string
	SessionTTL time.Duration
	APIAddr    string

	SupabaseURL string
	SupabaseKey string

	SaveDir string
	LogFile string
	// Seed fixes the scoring noise when set.
	Seed    uint64
	HasSeed bool
}

// LoadConfig loads a .env file if there is one, then reads the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{
		Provider:     getenv("RTR_PROVIDER", DefaultProvider),
		Model:        os.Getenv("RTR_MODEL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		StoreDSN:     os.Getenv("RTR_STORE_DSN"),
		SessionTTL:   DefaultSessionTTL,
		APIAddr:      getenv("RTR_API_ADDR", DefaultAPIAddr),
		SupabaseURL:  os.Getenv("SUPABASE_URL"),
		SupabaseKey:  os.Getenv("SUPABASE_KEY"),
		SaveDir:      getenv("RTR_SAVE_DIR", DefaultSaveDir),
		LogFile:      getenv("RTR_LOG_FILE", DefaultLogFile),
	}

	if v := os.Getenv("RTR_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RTR_SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = ttl
	}
	if v := os.Getenv("RTR_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RTR_SEED %q: %w", v, err)
		}
		cfg.Seed, cfg.HasSeed = seed, true
	}

	slog.Debug("configuration loaded",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"store_dsn_set", cfg.StoreDSN != "",
		"session_ttl", cfg.SessionTTL,
		"api_addr", cfg.APIAddr,
		"leaderboard", cfg.LeaderboardEnabled(),
		"save_dir", cfg.SaveDir)
	return cfg, nil
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() string {
	if c.Provider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// LeaderboardEnabled reports whether Supabase is configured.
func (c *Config) LeaderboardEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// Validate checks that the selected provider can be reached.
func (c *Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session TTL must not be negative")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
