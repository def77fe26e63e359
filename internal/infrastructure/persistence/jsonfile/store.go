// Package jsonfile keeps the roster in a single JSON document on disk.
// This is the default backend.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// Compile-time check.
var _ student.Store = (*Store)(nil)

// Store reads and writes the whole roster as a JSON array.
type Store struct {
	path string
	log  *logger.Logger
}

// New returns a store for path. Nothing touches the disk until Load or Save.
func New(path string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		path: path,
		log:  log.With(logger.Backend("file"), logger.Path(path)),
	}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Load reads every stored snapshot.
// A missing file is created holding "[]". A top-level value that is not
// an array loads as an empty roster; invalid JSON is an ErrStorage error.
func (s *Store) Load(ctx context.Context) ([]student.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("data file missing, creating empty roster")
		if err := s.write([]byte("[]\n")); err != nil {
			return nil, shared.WrapError("storage", "Load", shared.ErrStorage, "create data file", err)
		}
		return []student.Snapshot{}, nil
	}
	if err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrStorage, "read data file", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrStorage, "data file is not valid JSON", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s.log.Warn("data file does not hold an array, treating as empty")
		return []student.Snapshot{}, nil
	}

	var snapshots []student.Snapshot
	if err := json.Unmarshal(trimmed, &snapshots); err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrStorage, "decode students", err)
	}
	if snapshots == nil {
		snapshots = []student.Snapshot{}
	}

	s.log.Debug("roster read", logger.Count("students", len(snapshots)))
	return snapshots, nil
}

// Save replaces the document with snapshots, 2-space indented.
func (s *Store) Save(ctx context.Context, snapshots []student.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshots == nil {
		snapshots = []student.Snapshot{}
	}

	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorage, "encode students", err)
	}
	data = append(data, '\n')

	if err := s.write(data); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorage, "write data file", err)
	}

	s.log.Debug("roster written", logger.Count("students", len(snapshots)))
	return nil
}

// Close is a no-op; the file is never held open.
func (s *Store) Close() error {
	return nil
}

// write goes through a temp file in the same directory and renames it over
// the target, so a crash never leaves a half-written document.
func (s *Store) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}

	return os.Rename(tmpName, s.path)
}
