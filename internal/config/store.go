package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fgeck/better-restic/internal/models"
)

// ErrWriteConfig is returned when a validated configuration cannot be persisted.
var ErrWriteConfig = errors.New("writing configuration file")

// Store owns the runtime configuration of the web service.
// Readers share the lock; Update holds it exclusively across the file write and the swap.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  models.Config
}

// NewStore creates a store backed by the file at path, seeded with cfg.
func NewStore(path string, cfg models.Config) *Store {
	return &Store{path: path, cfg: cfg.Clone()}
}

// Path returns the backing configuration file path.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() models.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// View calls fn with the current configuration while holding the read lock.
// An Update issued meanwhile waits until fn returns.
func (s *Store) View(fn func(cfg models.Config)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.cfg.Clone())
}

// ReadRaw returns the configuration file exactly as stored on disk.
func (s *Store) ReadRaw() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", s.path, err)
	}
	return string(data), nil
}

// Update validates raw, writes it to the backing file and then swaps the in-memory value.
// Invalid input leaves both the file and memory untouched.
func (s *Store) Update(raw string) (models.Config, error) {
	cfg, err := NewParser().LoadReader(raw)
	if err != nil {
		return models.Config{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path, []byte(raw)); err != nil {
		return models.Config{}, fmt.Errorf("%w: %w", ErrWriteConfig, err)
	}
	s.cfg = cfg.Clone()

	return cfg.Clone(), nil
}

// writeFileAtomic writes data to a temp file next to path and renames it over path,
// so a crash leaves either the old or the new file, never a partial one.
// The mode of an existing file is kept.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	// No-op once the rename has succeeded.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
