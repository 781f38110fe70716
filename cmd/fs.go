package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// appFs is the filesystem every command operates on. Tests swap in a
// MemMapFs.
var appFs afero.Fs = afero.NewOsFs()

// projectRoot resolves the --current flag to an absolute project root.
func projectRoot(current string) (string, error) {
	abs, err := filepath.Abs(current)
	if err != nil {
		return "", fmt.Errorf("invalid project path %q: %w", current, err)
	}
	return abs, nil
}
