package models

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveDir is where transcripts are written when no directory is given.
var SaveDir = ".saves"

// GameHistory is the on-disk form of a session's turn log.
type GameHistory struct {
	Entries []Turn `yaml:"entries"`
}

// Save writes the session under SaveDir/name.
func (s *GameState) Save(name string) error {
	return s.SaveIn(SaveDir, name)
}

// SaveIn writes state.yaml and history.yaml under base/name. Each file is
// written to a temp file first and renamed into place.
func (s *GameState) SaveIn(base, name string) error {
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Save history.yaml
	historyData, err := yaml.Marshal(GameHistory{Entries: s.History})
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(dir, "history.yaml"), historyData); err != nil {
		return err
	}

	// Save state.yaml last; its presence marks a complete session.
	state := *s
	state.History = nil
	stateData, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, "state.yaml"), stateData)
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSession reads a session saved under SaveDir/name.
func LoadSession(name string) (*GameState, error) {
	return LoadSessionFrom(SaveDir, name)
}

// LoadSessionFrom reads a session saved under base/name.
func LoadSessionFrom(base, name string) (*GameState, error) {
	dir := filepath.Join(base, name)

	// Load state
	stateData, err := os.ReadFile(filepath.Join(dir, "state.yaml"))
	if err != nil {
		return nil, err
	}
	var state GameState
	if err := yaml.Unmarshal(stateData, &state); err != nil {
		return nil, err
	}

	// Load history
	historyData, err := os.ReadFile(filepath.Join(dir, "history.yaml"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	var history GameHistory
	if err := yaml.Unmarshal(historyData, &history); err != nil {
		return nil, err
	}
	state.History = history.Entries

	return &state, nil
}

// ListSessions returns the names of sessions saved under SaveDir.
func ListSessions() ([]string, error) {
	return ListSessionsIn(SaveDir)
}

// ListSessionsIn returns the names of sessions saved under base.
func ListSessionsIn(base string) ([]string, error) {
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() {
			// state.yaml marks a complete session
			statePath := filepath.Join(base, entry.Name(), "state.yaml")
			if _, err := os.Stat(statePath); err == nil {
				sessions = append(sessions, entry.Name())
			}
		}
	}
	return sessions, nil
}

// DeleteSessionIn removes a saved session. Missing sessions are not an error.
func DeleteSessionIn(base, name string) error {
	return os.RemoveAll(filepath.Join(base, name))
}
