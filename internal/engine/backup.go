package engine

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/svalle/synu/internal/archive"
	"github.com/svalle/synu/internal/config"
	"github.com/svalle/synu/internal/models"
	"github.com/svalle/synu/internal/snapshot"
)

// Backup packs the project tree into a new snapshot at the destination.
// The archive is written under a temporary name and renamed into place on
// success only, so a failed pack never leaves a file the selector would
// treat as a valid snapshot. Returned warnings are non-fatal conditions the
// caller should surface.
func (e *Engine) Backup(providedPath, message string) (models.Snapshot, []string, error) {
	var warnings []string

	st, err := e.store.Load()
	if err != nil {
		return models.Snapshot{}, nil, err
	}

	dest, err := e.store.ResolveDestination(st, providedPath)
	if err != nil {
		return models.Snapshot{}, nil, err
	}
	if err := snapshot.CheckAvailable(e.fs, dest); err != nil {
		return models.Snapshot{}, nil, err
	}

	now := e.Now()
	name := models.Name(st.ProjectName, now)
	target := filepath.Join(dest, name)

	// Never silently overwrite: one backup per project per second.
	if exists, _ := afero.Exists(e.fs, target); exists {
		return models.Snapshot{}, nil, fmt.Errorf("%w: %s", models.ErrDuplicateTimestamp, name)
	}

	tmpName := "." + name + ".tmp"
	tmp := filepath.Join(dest, tmpName)
	if err := archive.Pack(e.fs, e.root, tmp, e.excludeFunc(dest, tmpName)); err != nil {
		e.fs.Remove(tmp)
		return models.Snapshot{}, nil, fmt.Errorf("%w: %v", models.ErrPackingFailed, err)
	}
	if err := e.fs.Rename(tmp, target); err != nil {
		e.fs.Remove(tmp)
		return models.Snapshot{}, nil, fmt.Errorf("%w: could not finalize %s: %v", models.ErrPackingFailed, target, err)
	}

	snap := models.Snapshot{
		Name:        name,
		ProjectName: st.ProjectName,
		Timestamp:   now,
		ArchivePath: target,
		Message:     message,
	}
	if info, err := e.fs.Stat(target); err == nil {
		snap.Size = info.Size()
	}

	if config.GetHistoryEnabled() {
		entry := models.HistoryEntry{
			Snapshot:  name,
			Message:   message,
			Timestamp: now.Format(models.TimestampLayout),
		}
		if err := snapshot.AppendHistory(e.fs, dest, entry); err != nil {
			// The archive already landed; a broken index must not fail it.
			warnings = append(warnings, fmt.Sprintf("could not update history index: %v", err))
		}
	}

	return snap, warnings, nil
}

// excludeFunc keeps the state directory, the destination (when it is nested
// inside the project root), the in-progress temp archive and any configured
// glob patterns out of the archive.
func (e *Engine) excludeFunc(dest, tmpName string) archive.ExcludeFunc {
	destRel, destNested := within(e.root, dest)
	patterns := config.GetExcludePatterns()

	return func(rel string, isDir bool) bool {
		if rel == models.StateDir {
			return true
		}
		if destNested && destRel != "." && rel == destRel {
			return true
		}
		if filepath.Base(rel) == tmpName {
			return true
		}
		for _, pattern := range patterns {
			if ok, err := filepath.Match(pattern, rel); err == nil && ok {
				return true
			}
		}
		return false
	}
}
