package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/read-the-room/internal/models"
)

// Manager serializes access to sessions held in a Store. Updates to one
// session run one at a time; different sessions never block each other.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is a per-session mutex that lives only while someone holds
// or waits on it.
type sessionLock struct {
	sync.Mutex
	refs int
}

// NewManager wraps store. A zero ttl disables expiry.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		now:   time.Now,
		locks: make(map[string]*sessionLock),
	}
}

// SetClock replaces the manager's time source.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.now()
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// acquire locks the session id and returns the matching unlock. The map
// entry is dropped by the last holder, so unknown ids leave nothing behind.
func (m *Manager) acquire(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) expired(st *models.GameState) bool {
	return m.ttl > 0 && m.now().Sub(st.UpdatedAt) > m.ttl
}

// Create stores a new session.
func (m *Manager) Create(ctx context.Context, state *models.GameState) error {
	if state.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	defer m.acquire(state.ID)()

	now := m.now()
	state.CreatedAt, state.UpdatedAt = now, now
	if err := m.store.Put(ctx, state); err != nil {
		return err
	}
	slog.Debug("session created", "id", state.ID)
	return nil
}

// Get returns a copy of a session.
func (m *Manager) Get(ctx context.Context, id string) (*models.GameState, error) {
	st, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.expired(st) {
		return nil, ErrNotFound
	}
	return st, nil
}

// Update runs fn against a copy of the session and stores the copy only if
// fn succeeds, so a failed update leaves the session untouched. It returns
// the committed state.
func (m *Manager) Update(ctx context.Context, id string, fn func(*models.GameState) error) (*models.GameState, error) {
	defer m.acquire(id)()

	current, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = m.now()
	if err := m.store.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to commit session %s: %w", id, err)
	}
	return next.Clone(), nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	defer m.acquire(id)()
	return m.store.Delete(ctx, id)
}

// Sweep removes sessions idle for longer than the TTL.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	if m.ttl <= 0 {
		return 0, nil
	}
	// Lock entries need no cleanup here; they vanish with their last holder.
	ids, err := m.store.Expire(ctx, m.now().Add(-m.ttl))
	if len(ids) > 0 {
		slog.Info("expired idle sessions", "count", len(ids))
	}
	return len(ids), err
}

// Run sweeps on every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				slog.Warn("session sweep failed", "error", err)
			}
		}
	}
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
