package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/tatianab/read-the-room/internal/app"
	"github.com/tatianab/read-the-room/internal/config"
	"github.com/tatianab/read-the-room/internal/engine"
	"github.com/tatianab/read-the-room/internal/models"
	"github.com/tatianab/read-the-room/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Provider, "provider", cfg.Provider, "model provider: gemini or openai (overrides $RTR_PROVIDER)")
	flag.StringVar(&cfg.Model, "model", cfg.Model, "model name (overrides $RTR_MODEL)")
	flag.StringVar(&cfg.StoreDSN, "store", cfg.StoreDSN, "session store DSN (overrides $RTR_STORE_DSN)")
	flag.StringVar(&cfg.SaveDir, "save-dir", cfg.SaveDir, "directory for saved transcripts (overrides $RTR_SAVE_DIR)")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file (overrides $RTR_LOG_FILE)")
	list := flag.Bool("list", false, "list saved dates and exit")
	replay := flag.String("replay", "", "print the breakdown of a saved date and exit")
	flag.Parse()

	models.SaveDir = cfg.SaveDir
	if *list || *replay != "" {
		if err := browseSaves(*list, *replay); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logFile, err := initializeLogger(cfg.LogFile)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Printf("Error creating engine: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := tui.Run(a.Engine); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// browseSaves lists saved dates or prints the breakdown of one.
func browseSaves(list bool, name string) error {
	if list {
		names, err := models.ListSessions()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No saved dates in", models.SaveDir)
		}
		for _, n := range names {
			fmt.Println(n)
		}
	}
	if name == "" {
		return nil
	}
	state, err := models.LoadSession(name)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	if !state.GameOver {
		fmt.Printf("Date %s is still in progress (turn %d).\n", name, state.Turn)
		return nil
	}
	out, err := glamour.Render(engine.BuildBreakdown(state), "dark")
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// initializeLogger sends logs to a file so they stay off the alt screen.
func initializeLogger(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f, nil
}
