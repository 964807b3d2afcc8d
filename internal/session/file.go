package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tatianab/read-the-room/internal/models"
)

// FileStore keeps each session as a directory of YAML files, the same
// layout the terminal client uses for saved transcripts.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = models.SaveDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// validID rejects ids that would escape the store directory.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func (s *FileStore) Get(_ context.Context, id string) (*models.GameState, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	st, err := models.LoadSessionFrom(s.dir, id)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return st, err
}

func (s *FileStore) Put(_ context.Context, state *models.GameState) error {
	if !validID(state.ID) {
		return fmt.Errorf("invalid session id %q", state.ID)
	}
	return state.SaveIn(s.dir, state.ID)
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	return models.DeleteSessionIn(s.dir, id)
}

func (s *FileStore) Expire(_ context.Context, cutoff time.Time) ([]string, error) {
	ids, err := models.ListSessionsIn(s.dir)
	if err != nil {
		return nil, err
	}
	var expired []string
	for _, id := range ids {
		st, err := models.LoadSessionFrom(s.dir, id)
		if err != nil {
			slog.Warn("FileStore.Expire: skipping unreadable session", "id", id, "error", err)
			continue
		}
		if !st.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := models.DeleteSessionIn(s.dir, id); err != nil {
			return expired, err
		}
		expired = append(expired, id)
	}
	return expired, nil
}

func (s *FileStore) Close() error { return nil }
