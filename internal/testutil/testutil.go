package testutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/svalle/synu/internal/state"
)

// TempProject is an in-memory project directory for testing, with an
// optional destination directory standing in for the removable drive.
type TempProject struct {
	Fs   afero.Fs
	Path string
	Dest string
	T    *testing.T
}

// NewTempProject creates a project directory and a destination directory on
// a fresh in-memory filesystem.
func NewTempProject(t *testing.T, name string) *TempProject {
	t.Helper()

	fs := afero.NewMemMapFs()
	path := "/projects/" + name
	dest := "/media/usb"
	require.NoError(t, fs.MkdirAll(path, 0o755))
	require.NoError(t, fs.MkdirAll(dest, 0o755))

	return &TempProject{Fs: fs, Path: path, Dest: dest, T: t}
}

// Init initializes the project state, failing the test on error.
func (p *TempProject) Init() {
	p.T.Helper()
	_, err := state.NewStore(p.Fs, p.Path).Initialize()
	require.NoError(p.T, err)
}

// CreateFile writes a file under the project root.
func (p *TempProject) CreateFile(name, content string) {
	p.T.Helper()
	require.NoError(p.T, afero.WriteFile(p.Fs, p.Path+"/"+name, []byte(content), 0o644))
}

// ReadFile returns a project file's content, failing the test if absent.
func (p *TempProject) ReadFile(name string) string {
	p.T.Helper()
	data, err := afero.ReadFile(p.Fs, p.Path+"/"+name)
	require.NoError(p.T, err)
	return string(data)
}

// FileExists reports whether a path exists under the project root.
func (p *TempProject) FileExists(name string) bool {
	p.T.Helper()
	ok, err := afero.Exists(p.Fs, p.Path+"/"+name)
	require.NoError(p.T, err)
	return ok
}

// DestFiles lists the file names currently present on the destination.
func (p *TempProject) DestFiles() []string {
	p.T.Helper()
	entries, err := afero.ReadDir(p.Fs, p.Dest)
	require.NoError(p.T, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
