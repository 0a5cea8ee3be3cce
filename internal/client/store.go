package client

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Store persists session state between CLI invocations.
type Store interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// FileStore keeps the session as a JSON file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultSessionPath is ~/.config/dealership/session.json or its OS equivalent.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve config dir")
	}

	return filepath.Join(dir, "dealership", "session.json"), nil
}

// Load returns an empty state when no session was saved.
func (s *FileStore) Load() (State, error) {
	var state State

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return state, errors.Wrap(err, "failed to read session file")
	}

	if err := json.Unmarshal(raw, &state); err != nil {
		return state, errors.Wrap(err, "failed to decode session file")
	}

	return state, nil
}

func (s *FileStore) Save(state State) error {
	if state.AccessToken == "" && state.RefreshToken == "" {
		return s.Clear()
	}

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create session dir")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}

	return errors.Wrap(os.Rename(tmp, s.path), "failed to replace session file")
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "failed to remove session file")
	}

	return nil
}
