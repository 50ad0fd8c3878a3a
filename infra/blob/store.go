// Package blob persists run state as JSON documents on disk. Loads
// distinguish a file that is absent (expected on first run) from one that is
// present but unreadable, so callers can keep the non-fatal fallback policy
// without swallowing permission problems silently.
package blob

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrAbsent means the document does not exist yet.
	ErrAbsent = errors.New("blob: absent")
	// ErrDenied means the document exists but could not be read or written.
	ErrDenied = errors.New("blob: access denied")
)

// Store reads and writes named JSON documents under one directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the on-disk location of a named document.
func (s *Store) Path(name string) string { return filepath.Join(s.dir, name) }

// Load reads the named document. It returns ErrAbsent when the file does not
// exist and ErrDenied when it cannot be read; any other content problem is
// left to the caller's decoder.
func (s *Store) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrAbsent, name)
	}
	if errors.Is(err, os.ErrPermission) {
		return nil, fmt.Errorf("%w: %s", ErrDenied, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Save marshals v and atomically replaces the named document: the payload is
// written to a temp file in the same directory and renamed over the target.
func (s *Store) Save(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrDenied, name)
		}
		return fmt.Errorf("temp for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
