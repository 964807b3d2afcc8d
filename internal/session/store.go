// Package session keeps game states keyed by session id.
//
// A Store persists whole states. The Manager owns the lifecycle on top of a
// Store: it serializes writers per session, commits updates atomically and
// expires idle sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tatianab/read-the-room/internal/models"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Store persists game states. Implementations must return ErrNotFound from
// Get for missing ids and must not retain the pointers they are given.
type Store interface {
	Get(ctx context.Context, id string) (*models.GameState, error)
	Put(ctx context.Context, state *models.GameState) error
	Delete(ctx context.Context, id string) error
	// Expire removes sessions last updated before cutoff and returns their ids.
	Expire(ctx context.Context, cutoff time.Time) ([]string, error)
	Close() error
}

// DSN types.
const (
	DSNMemory   = "memory"
	DSNFile     = "file"
	DSNSQLite   = "sqlite"
	DSNPostgres = "postgres"
	DSNRedis    = "redis"
)

// DefaultTTL is how long an untouched session lives.
const DefaultTTL = 60 * time.Minute

// Opts holds store configuration.
type Opts struct {
	DSN string        // empty for in-memory
	TTL time.Duration // idle lifetime, used natively by Redis
}

// Option defines a configuration option for a store.
type Option func(*Opts)

// WithDSN sets the store connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// WithTTL sets the idle session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(o *Opts) {
		o.TTL = ttl
	}
}

// DetectDSNType picks a backend from the shape of a DSN.
func DetectDSNType(dsn string) string {
	switch {
	case dsn == "":
		return DSNMemory
	case strings.HasPrefix(dsn, "file://"):
		return DSNFile
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return DSNRedis
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return DSNPostgres
	default:
		return DSNSQLite
	}
}

// Open creates the store selected by the DSN.
func Open(opts ...Option) (Store, error) {
	cfg := Opts{TTL: DefaultTTL}
	for _, opt := range opts {
		opt(&cfg)
	}

	kind := DetectDSNType(cfg.DSN)
	slog.Debug("session.Open: opening store", "type", kind)
	switch kind {
	case DSNMemory:
		return NewMemoryStore(), nil
	case DSNFile:
		return NewFileStore(strings.TrimPrefix(cfg.DSN, "file://"))
	case DSNRedis:
		return NewRedisStore(opts...)
	case DSNPostgres:
		return NewPostgresStore(opts...)
	case DSNSQLite:
		return NewSQLiteStore(opts...)
	}
	return nil, fmt.Errorf("unsupported store DSN type %q", kind)
}
