package engine

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svalle/synu/internal/archive"
	"github.com/svalle/synu/internal/models"
	"github.com/svalle/synu/internal/snapshot"
)

const (
	root = "/projects/gatitos"
	usb  = "/media/usb"
)

// newEngine returns an initialized engine on an in-memory filesystem with a
// fixed, advanceable clock.
func newEngine(t *testing.T) (*Engine, afero.Fs, *time.Time) {
	t.Helper()
	viper.Reset()
	viper.Set("history.enabled", true)

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(root, 0o755))
	require.NoError(t, fs.MkdirAll(usb, 0o755))

	e := New(fs, root)
	_, err := e.Store().Initialize()
	require.NoError(t, err)

	now := time.Date(2025, 6, 8, 15, 30, 0, 0, time.Local)
	clock := &now
	e.Now = func() time.Time { return *clock }
	return e, fs, clock
}

func advance(clock *time.Time, d time.Duration) {
	*clock = clock.Add(d)
}

func TestBackupConcreteScenario(t *testing.T) {
	e, fs, _ := newEngine(t)
	require.NoError(t, afero.WriteFile(fs, root+"/fotos.txt", []byte("miau"), 0o644))

	snap, warnings, err := e.Backup(usb, "Inicio")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "gatitos_20250608_153000.zip", snap.Name)
	assert.Equal(t, usb+"/gatitos_20250608_153000.zip", snap.ArchivePath)

	exists, err := afero.Exists(fs, usb+"/gatitos_20250608_153000.zip")
	require.NoError(t, err)
	assert.True(t, exists)

	entries, err := snapshot.LoadHistory(fs, usb)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Inicio", entries[0].Message)
}

func TestBackupReusesPersistedDestination(t *testing.T) {
	e, _, clock := newEngine(t)

	_, _, err := e.Backup(usb, "first")
	require.NoError(t, err)

	advance(clock, time.Second)

	// No path this time: the persisted one is used.
	snap, _, err := e.Backup("", "second")
	require.NoError(t, err)
	assert.Equal(t, usb+"/"+snap.Name, snap.ArchivePath)
}

func TestBackupWithoutDestinationFails(t *testing.T) {
	e, fs, _ := newEngine(t)
	require.NoError(t, afero.WriteFile(fs, root+"/a.txt", []byte("a"), 0o644))

	_, _, err := e.Backup("", "oops")
	assert.ErrorIs(t, err, models.ErrMissingDestination)

	// Nothing was written to the destination.
	entries, err := afero.ReadDir(fs, usb)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBackupUnavailableDestination(t *testing.T) {
	e, _, _ := newEngine(t)

	_, _, err := e.Backup("/media/unplugged", "oops")
	assert.ErrorIs(t, err, models.ErrDestinationUnavailable)
}

func TestBackupDuplicateTimestamp(t *testing.T) {
	e, _, _ := newEngine(t)

	_, _, err := e.Backup(usb, "first")
	require.NoError(t, err)

	// Same clock reading: the name would collide with an existing archive.
	_, _, err = e.Backup("", "second")
	assert.ErrorIs(t, err, models.ErrDuplicateTimestamp)
}

func TestBackupExcludesStateDir(t *testing.T) {
	e, fs, _ := newEngine(t)
	require.NoError(t, afero.WriteFile(fs, root+"/code.go", []byte("code"), 0o644))

	snap, _, err := e.Backup(usb, "m")
	require.NoError(t, err)

	staging := "/tmp/check"
	unpackTo(t, fs, snap.ArchivePath, staging)

	exists, _ := afero.Exists(fs, staging+"/code.go")
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, staging+"/"+models.StateDir)
	assert.False(t, exists)
}

func TestBackupExcludesNestedDestination(t *testing.T) {
	e, fs, _ := newEngine(t)
	nested := root + "/usb"
	require.NoError(t, fs.MkdirAll(nested, 0o755))
	require.NoError(t, afero.WriteFile(fs, root+"/a.txt", []byte("a"), 0o644))

	snap, _, err := e.Backup(nested, "m")
	require.NoError(t, err)

	staging := "/tmp/check"
	unpackTo(t, fs, snap.ArchivePath, staging)

	exists, _ := afero.Exists(fs, staging+"/a.txt")
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, staging+"/usb")
	assert.False(t, exists)
}

func TestRestoreLatestRoundTrip(t *testing.T) {
	e, fs, _ := newEngine(t)
	require.NoError(t, afero.WriteFile(fs, root+"/a.txt", []byte("contenido"), 0o644))
	require.NoError(t, afero.WriteFile(fs, root+"/sub/b.txt", []byte("b"), 0o644))

	_, _, err := e.Backup(usb, "m")
	require.NoError(t, err)

	stateBefore, err := afero.ReadFile(fs, root+"/"+models.StateDir+"/"+models.StateFile)
	require.NoError(t, err)

	snap, _, err := e.Restore("", "")
	require.NoError(t, err)
	assert.Equal(t, "gatitos_20250608_153000.zip", snap.Name)

	content, err := afero.ReadFile(fs, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(content))

	content, err = afero.ReadFile(fs, root+"/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(content))

	// The state directory is untouched.
	stateAfter, err := afero.ReadFile(fs, root+"/"+models.StateDir+"/"+models.StateFile)
	require.NoError(t, err)
	assert.Equal(t, stateBefore, stateAfter)
}

func TestRestoreIsFullOverwrite(t *testing.T) {
	e, fs, clock := newEngine(t)
	require.NoError(t, afero.WriteFile(fs, root+"/keep.txt", []byte("v1"), 0o644))

	_, _, err := e.Backup(usb, "m")
	require.NoError(t, err)

	// Mutate the tree after the backup.
	require.NoError(t, afero.WriteFile(fs, root+"/keep.txt", []byte("v2"), 0o644))
	require.NoError(t, afero.WriteFile(fs, root+"/extra.txt", []byte("extra"), 0o644))
	advance(clock, time.Minute)

	_, _, err = e.Restore("", "")
	require.NoError(t, err)

	content, err := afero.ReadFile(fs, root+"/keep.txt")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content))

	// Files absent from the snapshot are gone, not merged.
	exists, _ := afero.Exists(fs, root+"/extra.txt")
	assert.False(t, exists)
}

func TestDowngradeRoundTrip(t *testing.T) {
	e, fs, clock := newEngine(t)
	require.NoError(t, afero.WriteFile(fs, root+"/v.txt", []byte("uno"), 0o644))

	snapA, _, err := e.Backup(usb, "m1")
	require.NoError(t, err)

	advance(clock, time.Hour)
	require.NoError(t, afero.WriteFile(fs, root+"/v.txt", []byte("dos"), 0o644))
	_, _, err = e.Backup("", "m2")
	require.NoError(t, err)

	// Downgrade to A restores the tree as of A, not B.
	snap, _, err := e.Restore("", snapA.Name)
	require.NoError(t, err)
	assert.Equal(t, snapA.Name, snap.Name)

	content, err := afero.ReadFile(fs, root+"/v.txt")
	require.NoError(t, err)
	assert.Equal(t, "uno", string(content))
}

func TestRestoreWithZeroSnapshots(t *testing.T) {
	e, fs, _ := newEngine(t)
	require.NoError(t, afero.WriteFile(fs, root+"/a.txt", []byte("a"), 0o644))

	st, err := e.Store().Load()
	require.NoError(t, err)
	_, err = e.Store().ResolveDestination(st, usb)
	require.NoError(t, err)

	_, _, err = e.Restore("", "")
	assert.ErrorIs(t, err, models.ErrNoSnapshots)

	// The tree is unmodified.
	content, err := afero.ReadFile(fs, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(content))
}

func TestDowngradeUnknownName(t *testing.T) {
	e, _, _ := newEngine(t)

	_, _, err := e.Backup(usb, "m")
	require.NoError(t, err)

	_, _, err = e.Restore("", "gatitos_19990101_000000.zip")
	assert.ErrorIs(t, err, models.ErrSnapshotNotFound)
}

func TestRestoreCorruptArchiveLeavesTreeUntouched(t *testing.T) {
	e, fs, _ := newEngine(t)
	require.NoError(t, afero.WriteFile(fs, root+"/a.txt", []byte("a"), 0o644))

	st, err := e.Store().Load()
	require.NoError(t, err)
	_, err = e.Store().ResolveDestination(st, usb)
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, usb+"/gatitos_20250101_000000.zip", []byte("garbage"), 0o644))

	_, _, err = e.Restore("", "")
	assert.ErrorIs(t, err, models.ErrUnpackFailed)

	content, err := afero.ReadFile(fs, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(content))
}

func TestRestoreWarnsOnMalformedSiblings(t *testing.T) {
	e, fs, _ := newEngine(t)
	require.NoError(t, afero.WriteFile(fs, root+"/a.txt", []byte("a"), 0o644))

	_, _, err := e.Backup(usb, "m")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, usb+"/gatitos_pending_000000.zip", []byte("junk"), 0o644))

	_, warnings, err := e.Restore("", "")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "gatitos_pending_000000.zip")
}

func unpackTo(t *testing.T, fs afero.Fs, archivePath, dir string) {
	t.Helper()
	require.NoError(t, archive.Unpack(fs, archivePath, dir))
}
