// Package state persists the per-project record under the hidden state
// directory. The record survives every operation; it is only created by
// `synu init` and never deleted by the engine.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/svalle/synu/internal/models"
)

// Store reads and writes the ProjectState record for one project root.
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore returns a store for the project rooted at root.
func NewStore(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root}
}

// Root returns the project root this store operates on.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) dir() string {
	return filepath.Join(s.root, models.StateDir)
}

func (s *Store) recordPath() string {
	return filepath.Join(s.dir(), models.StateFile)
}

// Initialized reports whether the state directory exists.
func (s *Store) Initialized() bool {
	info, err := s.fs.Stat(s.dir())
	return err == nil && info.IsDir()
}

// Initialize creates the state directory and a fresh record with no
// destination configured. The project name is derived from the root
// directory's base name and is stable for the project's lifetime.
func (s *Store) Initialize() (*models.ProjectState, error) {
	if s.Initialized() {
		return nil, fmt.Errorf("%w: %s", models.ErrAlreadyInitialized, s.root)
	}

	if err := s.fs.MkdirAll(s.dir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	st := &models.ProjectState{
		ProjectName: filepath.Base(s.root),
		Identifier:  uuid.NewString(),
	}
	if err := s.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Reinitialize discards any existing record and creates a fresh one. The
// project gets a new identifier and loses its remembered destination.
func (s *Store) Reinitialize() (*models.ProjectState, error) {
	if err := s.fs.RemoveAll(s.dir()); err != nil {
		return nil, fmt.Errorf("failed to remove state directory: %w", err)
	}
	return s.Initialize()
}

// Load reads the persisted record.
func (s *Store) Load() (*models.ProjectState, error) {
	data, err := afero.ReadFile(s.fs, s.recordPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run `synu init`)", models.ErrNotInitialized, s.root)
		}
		return nil, fmt.Errorf("failed to read state record: %w", err)
	}

	var st models.ProjectState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state record %s: %w", s.recordPath(), err)
	}
	return &st, nil
}

// Save persists the full record atomically: the JSON is written to a
// temporary file in the state directory and renamed over the record, so a
// crash mid-write never corrupts the previous valid record.
func (s *Store) Save(st *models.ProjectState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state record: %w", err)
	}

	tmp := s.recordPath() + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state record: %w", err)
	}
	if err := s.fs.Rename(tmp, s.recordPath()); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace state record: %w", err)
	}
	return nil
}

// ResolveDestination returns the destination directory for an operation.
// A provided path overrides the persisted one and is persisted back; with
// no path the persisted value is used. Neither being available is an error:
// the first backup must supply a path.
func (s *Store) ResolveDestination(st *models.ProjectState, providedPath string) (string, error) {
	if providedPath != "" {
		abs, err := filepath.Abs(providedPath)
		if err != nil {
			return "", fmt.Errorf("invalid destination path %q: %w", providedPath, err)
		}
		st.DestinationPath = abs
		if err := s.Save(st); err != nil {
			return "", err
		}
		return abs, nil
	}

	if st.DestinationPath == "" {
		return "", fmt.Errorf("%w: pass one with -p the first time", models.ErrMissingDestination)
	}
	return st.DestinationPath, nil
}
