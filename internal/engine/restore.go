package engine

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/svalle/synu/internal/archive"
	"github.com/svalle/synu/internal/models"
	"github.com/svalle/synu/internal/snapshot"
)

// Restore replaces the project tree with the contents of a snapshot. An
// empty targetName selects the latest snapshot; otherwise the exact archive
// name is resolved (downgrade). Full-overwrite semantics: files present in
// the tree but absent from the snapshot are removed. The state directory is
// never touched.
//
// The archive is unpacked into a staging directory first, so a corrupt or
// unreadable archive is detected before the tree is modified. A failure
// after staging, during the swap, is reported with the tree explicitly
// flagged as inconsistent.
func (e *Engine) Restore(providedPath, targetName string) (models.Snapshot, []string, error) {
	var warnings []string

	st, err := e.store.Load()
	if err != nil {
		return models.Snapshot{}, nil, err
	}

	dest, err := e.store.ResolveDestination(st, providedPath)
	if err != nil {
		return models.Snapshot{}, nil, err
	}

	var snap models.Snapshot
	if targetName == "" {
		var skipped []string
		snap, skipped, err = snapshot.Latest(e.fs, dest, st.ProjectName)
		for _, name := range skipped {
			warnings = append(warnings, fmt.Sprintf("ignoring malformed snapshot name %s", name))
		}
		if err != nil {
			return models.Snapshot{}, warnings, err
		}
	} else {
		snap, err = snapshot.FindByName(e.fs, dest, targetName)
		if err != nil {
			return models.Snapshot{}, warnings, err
		}
	}

	staging, err := afero.TempDir(e.fs, "", "synu-restore-")
	if err != nil {
		return models.Snapshot{}, warnings, fmt.Errorf("%w: cannot create staging directory: %v", models.ErrUnpackFailed, err)
	}
	defer e.fs.RemoveAll(staging)

	if err := archive.Unpack(e.fs, snap.ArchivePath, staging); err != nil {
		return models.Snapshot{}, warnings, fmt.Errorf("%w: %v (project tree untouched)", models.ErrUnpackFailed, err)
	}

	if err := e.clearTree(dest); err != nil {
		return models.Snapshot{}, warnings, fmt.Errorf("%w: clearing old tree: %v (tree may be inconsistent)", models.ErrUnpackFailed, err)
	}
	if err := copyTree(e.fs, staging, e.root); err != nil {
		return models.Snapshot{}, warnings, fmt.Errorf("%w: placing restored tree: %v (tree may be inconsistent)", models.ErrUnpackFailed, err)
	}

	return snap, warnings, nil
}

// clearTree removes everything under the project root except the state
// directory and the destination when it happens to live inside the root.
func (e *Engine) clearTree(dest string) error {
	entries, err := afero.ReadDir(e.fs, e.root)
	if err != nil {
		return err
	}
	destRel, destNested := within(e.root, dest)

	for _, entry := range entries {
		name := entry.Name()
		if name == models.StateDir {
			continue
		}
		if destNested && isParentOf(name, destRel) {
			// The destination lives inside this entry; leave it alone.
			continue
		}
		if err := e.fs.RemoveAll(filepath.Join(e.root, name)); err != nil {
			return err
		}
	}
	return nil
}

// isParentOf reports whether rel (a "/"-separated relative path) starts
// with the top-level entry name.
func isParentOf(name, rel string) bool {
	return rel == name || len(rel) > len(name) && rel[:len(name)] == name && rel[len(name)] == '/'
}

func copyTree(afs afero.Fs, srcDir, dstDir string) error {
	return afero.Walk(afs, srcDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dstDir, rel)

		if info.IsDir() {
			return afs.MkdirAll(target, 0o755)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		src, err := afs.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		if err := afs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		dst, err := afs.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			return err
		}
		return dst.Close()
	})
}
