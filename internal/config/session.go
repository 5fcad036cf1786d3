package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoSession is returned when no session file has been written yet.
var ErrNoSession = errors.New("config: no stored session")

// StoredSession is the on-disk form of a CLI login. The password is never stored.
type StoredSession struct {
	Username  string    `yaml:"username"`
	Token     string    `yaml:"token"`
	ExpiresAt time.Time `yaml:"expiresAt"`
}

// SaveSession writes session to path with 0600 permissions.
func SaveSession(path string, session StoredSession) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Chmod(path, 0o600)
}

// LoadSession reads the session stored at path.
func LoadSession(path string) (StoredSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StoredSession{}, ErrNoSession
		}
		return StoredSession{}, fmt.Errorf("failed to read session file: %w", err)
	}
	var session StoredSession
	if err := yaml.Unmarshal(data, &session); err != nil {
		return StoredSession{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	if session.Token == "" || session.Username == "" {
		return StoredSession{}, ErrNoSession
	}
	return session, nil
}

// ClearSession removes the session file. A missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
