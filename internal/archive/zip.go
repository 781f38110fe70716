// Package archive is the snapshot codec: pack a directory tree into a zip
// file and unpack a zip file into a directory. Empty files and empty
// directories are preserved so a restore reproduces the tree exactly.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ExcludeFunc decides whether a path (relative to the packed root, "/"
// separated) is left out of the archive. Returning true for a directory
// skips its whole subtree.
type ExcludeFunc func(rel string, isDir bool) bool

// Pack writes the tree rooted at srcDir into a zip archive at outPath.
func Pack(afs afero.Fs, srcDir, outPath string, exclude ExcludeFunc) error {
	out, err := afs.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", outPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	err = afero.Walk(afs, srcDir, func(path string, info fs.FileInfo, err error) error {
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
		rel = filepath.ToSlash(rel)

		if exclude != nil && exclude(rel, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			// Directory entry, so empty directories survive the round trip.
			if _, err := zw.Create(rel + "/"); err != nil {
				return err
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		f, err := afs.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("failed to pack %s: %w", srcDir, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive %s: %w", outPath, err)
	}
	return nil
}

// Unpack extracts the archive into destDir, creating it if needed. Entries
// are extracted in name order so a partial failure is diagnosable. Entry
// paths that would escape destDir fail the extraction.
func Unpack(afs afero.Fs, archivePath, destDir string) error {
	f, err := afs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive %s: %w", archivePath, err)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("archive %s is not a readable zip: %w", archivePath, err)
	}

	entries := make([]*zip.File, len(zr.File))
	copy(entries, zr.File)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	if err := afs.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	for _, entry := range entries {
		if err := extractEntry(afs, entry, destDir); err != nil {
			return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
		}
	}
	return nil
}

func extractEntry(afs afero.Fs, entry *zip.File, destDir string) error {
	name := filepath.ToSlash(entry.Name)
	if strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return fmt.Errorf("entry path %q escapes the target directory", entry.Name)
	}
	target := filepath.Join(destDir, filepath.FromSlash(name))

	if strings.HasSuffix(name, "/") {
		return afs.MkdirAll(target, 0o755)
	}

	if err := afs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := afs.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
