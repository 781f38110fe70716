// Package engine implements the backup and restore operations on top of the
// state store, the snapshot selector and the archive codec. One CLI
// invocation runs one operation to completion; nothing here retries or
// terminates the process.
package engine

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/svalle/synu/internal/state"
)

// Engine runs operations against one project root.
type Engine struct {
	fs    afero.Fs
	root  string
	store *state.Store

	// Now is the clock used for snapshot names. Tests override it.
	Now func() time.Time
}

// New returns an engine for the project rooted at root.
func New(fs afero.Fs, root string) *Engine {
	return &Engine{
		fs:    fs,
		root:  root,
		store: state.NewStore(fs, root),
		Now:   time.Now,
	}
}

// Store exposes the engine's state store.
func (e *Engine) Store() *state.Store {
	return e.store
}

// within reports whether path is inside (or equal to) dir.
func within(dir, path string) (rel string, ok bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
