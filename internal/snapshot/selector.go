// Package snapshot scans a destination directory for a project's snapshot
// archives and resolves "latest" and "by name" lookups. The destination is
// shared, possibly removable media: unrelated files are ignored, and the
// engine never assumes exclusive access.
package snapshot

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/svalle/synu/internal/models"
)

// List returns the project's snapshots at dest, ascending by timestamp.
// Files that carry the project prefix but have a malformed name are not
// fatal; they are returned in skipped so the caller can warn about them.
func List(fs afero.Fs, dest, projectName string) (snaps []models.Snapshot, skipped []string, err error) {
	if err := CheckAvailable(fs, dest); err != nil {
		return nil, nil, err
	}

	entries, err := afero.ReadDir(fs, dest)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cannot read %s: %v", models.ErrDestinationUnavailable, dest, err)
	}

	prefix := projectName + "_"
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, models.Suffix) {
			continue
		}

		parsedProject, ts, perr := models.ParseName(name)
		if perr != nil {
			skipped = append(skipped, name)
			continue
		}
		if parsedProject != projectName {
			// Valid snapshot of another project whose name shares our prefix.
			continue
		}

		snaps = append(snaps, models.Snapshot{
			Name:        name,
			ProjectName: projectName,
			Timestamp:   ts,
			ArchivePath: filepath.Join(dest, name),
			Size:        entry.Size(),
		})
	}

	// Fixed-width timestamps make name order equal time order, but sort on
	// the parsed timestamp anyway so the contract does not hinge on it.
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].Timestamp.Before(snaps[j].Timestamp)
	})
	return snaps, skipped, nil
}

// Latest returns the most recent snapshot for the project.
func Latest(fs afero.Fs, dest, projectName string) (models.Snapshot, []string, error) {
	snaps, skipped, err := List(fs, dest, projectName)
	if err != nil {
		return models.Snapshot{}, skipped, err
	}
	if len(snaps) == 0 {
		return models.Snapshot{}, skipped, fmt.Errorf("%w for project %q at %s", models.ErrNoSnapshots, projectName, dest)
	}
	return snaps[len(snaps)-1], skipped, nil
}

// FindByName resolves an exact snapshot file name at dest. A file that
// exists but does not parse as a snapshot name is reported as malformed
// rather than missing.
func FindByName(fs afero.Fs, dest, exactName string) (models.Snapshot, error) {
	if err := CheckAvailable(fs, dest); err != nil {
		return models.Snapshot{}, err
	}

	projectName, ts, perr := models.ParseName(exactName)

	path := filepath.Join(dest, exactName)
	info, err := fs.Stat(path)
	if err != nil || info.IsDir() {
		if perr != nil {
			return models.Snapshot{}, fmt.Errorf("%w: %v", models.ErrSnapshotNotFound, perr)
		}
		return models.Snapshot{}, fmt.Errorf("%w: %s at %s", models.ErrSnapshotNotFound, exactName, dest)
	}
	if perr != nil {
		return models.Snapshot{}, fmt.Errorf("%s exists but is not a valid snapshot: %v", exactName, perr)
	}

	return models.Snapshot{
		Name:        exactName,
		ProjectName: projectName,
		Timestamp:   ts,
		ArchivePath: path,
		Size:        info.Size(),
	}, nil
}

// CheckAvailable fails fast when the destination is missing or not a
// directory, e.g. unmounted removable media.
func CheckAvailable(fs afero.Fs, dest string) error {
	info, err := fs.Stat(dest)
	if err != nil {
		return fmt.Errorf("%w: %s (is the drive mounted?)", models.ErrDestinationUnavailable, dest)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", models.ErrDestinationUnavailable, dest)
	}
	return nil
}

