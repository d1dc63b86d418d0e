// Package filestore provides a file-based implementation of TaskRepository.
// The whole tree lives in one TOML, YAML or JSON document.
package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
	"github.com/runoshun/della/internal/domain"
)

// Ensure Store implements domain.TaskRepository.
var _ domain.TaskRepository = (*Store)(nil)

// Store implements domain.TaskRepository on a single file.
type Store struct {
	codec *Codec
	lock  *flock.Flock
	path  string
}

// New creates a Store for path. The extension selects the format.
// The file does not need to exist; it will be created on first write.
func New(path string) (*Store, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	codec, err := NewCodec(format)
	if err != nil {
		return nil, err
	}
	return &Store{
		codec: codec,
		lock:  flock.New(domain.LockPath(path)),
		path:  path,
	}, nil
}

// Path returns the task file location.
func (s *Store) Path() string {
	return s.path
}

// Codec returns the codec matching the file format.
func (s *Store) Codec() domain.TaskCodec {
	return s.codec
}

// Load reads and decodes the task file.
func (s *Store) Load() (*domain.Tree, domain.Meta, error) {
	data, err := s.ReadRaw()
	if err != nil {
		return nil, domain.Meta{}, err
	}
	if data == nil {
		return domain.NewTree(), domain.Meta{}, nil
	}
	tree, meta, err := s.codec.Decode(data)
	if err != nil {
		return nil, domain.Meta{}, fmt.Errorf("load %s: %w", s.path, err)
	}
	return tree, meta, nil
}

// Save encodes tree and replaces the task file atomically.
func (s *Store) Save(tree *domain.Tree, meta domain.Meta) error {
	data, err := s.codec.Encode(tree, meta)
	if err != nil {
		return err
	}
	return s.WriteRaw(data)
}

// ReadRaw returns the file bytes, or nil if the file does not exist.
func (s *Store) ReadRaw() ([]byte, error) {
	var data []byte
	err := s.withLock(func() error {
		content, err := os.ReadFile(s.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read task file: %w", err)
		}
		data = content
		return nil
	})
	return data, err
}

// WriteRaw replaces the file bytes atomically.
func (s *Store) WriteRaw(data []byte) error {
	return s.withLockWrite(func() error {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("write task file: %w", err)
		}
		// atomic.WriteFile keeps temp-file permissions for new files
		if err := os.Chmod(s.path, 0o600); err != nil {
			return fmt.Errorf("chmod task file: %w", err)
		}
		return nil
	})
}

// Lock takes the exclusive session lock without blocking.
func (s *Store) Lock() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return domain.ErrLocked
	}
	return nil
}

// Unlock releases the session lock.
func (s *Store) Unlock() error {
	return s.lock.Unlock()
}

// withLock executes fn with a shared (read) lock unless the session lock is held.
func (s *Store) withLock(fn func() error) error {
	if s.lock.Locked() || s.lock.RLocked() {
		return fn()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

// withLockWrite executes fn with an exclusive (write) lock unless the session lock is held.
func (s *Store) withLockWrite(fn func() error) error {
	if s.lock.Locked() {
		return fn()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}
