package filesystem

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/spf13/afero"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/common"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/options"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockInteractor collects terminal output for assertions
type mockInteractor struct {
	lines []string
}

func (m *mockInteractor) Output(message string)           { m.lines = append(m.lines, message) }
func (m *mockInteractor) Warning(message string)          { m.lines = append(m.lines, message) }
func (m *mockInteractor) Error(message string, err error) { m.lines = append(m.lines, message+": "+err.Error()) }

// lockedDirFs refuses to list one directory, by base name
type lockedDirFs struct {
	afero.Fs
	locked string
}

func (l *lockedDirFs) Open(name string) (afero.File, error) {
	if filepath.Base(name) == l.locked {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.EACCES}
	}
	return l.Fs.Open(name)
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestOrganize(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Папка", "Вложенная"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Папка", "Отчёт.docx"), []byte("doc"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Папка", "Вложенная", "song 1.mp3"), []byte("mp3"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data.xyz"), []byte("?"), 0o644))
	writeZip(t, filepath.Join(root, "archive.zip"), map[string]string{"a.txt": "alpha"})

	terminal := &mockInteractor{}
	dfs := New(afero.NewOsFs(), terminal)

	report, err := dfs.Organize(context.Background(), root, options.DefaultOrganizeOptions())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.FileExists(t, filepath.Join(root, "documents", "Otchyot.docx"))
	assert.FileExists(t, filepath.Join(root, "audio", "song_1.mp3"))
	assert.FileExists(t, filepath.Join(root, "archives", "archive", "a.txt"))
	assert.NoFileExists(t, filepath.Join(root, "archive.zip"))
	assert.FileExists(t, filepath.Join(root, "data.xyz"))
	assert.NoDirExists(t, filepath.Join(root, "Papka"), "emptied folders are removed")
	for _, name := range []string{"images", "videos", "documents", "audio", "archives"} {
		assert.DirExists(t, filepath.Join(root, name), "category folders survive even when empty")
	}

	assert.NotEqual(t, "", report.RunID.String())
	assert.Equal(t, root, report.Root)
	assert.Equal(t, 4, report.Rename.Renamed)
	assert.False(t, report.Rename.Aborted)
	assert.Equal(t, 3, report.Inventory.Registry.Total())
	assert.True(t, report.Inventory.Unknown.Contains("xyz"))
	assert.Equal(t, 1, report.Sort.Extracted)
	assert.Len(t, report.Cleanup.Removed, 2)
	assert.False(t, report.EndTime.Before(report.StartTime))

	output := strings.Join(terminal.lines, "\n")
	assert.Contains(t, output, "documents: 1 files")
	assert.Contains(t, output, filepath.Join(root, "Papka", "Otchyot.docx"))
	assert.Contains(t, output, "Unknown extensions found:\nxyz")

	var kinds []types.EventType
	for _, e := range report.Events {
		kinds = append(kinds, e.Type)
	}
	assert.Contains(t, kinds, types.EventRenamed)
	assert.Contains(t, kinds, types.EventMoved)
	assert.Contains(t, kinds, types.EventExtracted)
	assert.Contains(t, kinds, types.EventDirDeleted)
}

func TestOrganizeIsRepeatable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "фото.png"), []byte("png"), 0o644))

	dfs := New(afero.NewOsFs(), &mockInteractor{})
	_, err := dfs.Organize(context.Background(), root, options.OrganizeOptions{})
	require.NoError(t, err)

	second, err := dfs.Organize(context.Background(), root, options.OrganizeOptions{})
	require.NoError(t, err)

	assert.Zero(t, second.Rename.Renamed)
	assert.Equal(t, []string{filepath.Join(root, "images", "foto.png")}, second.Inventory.Registry.Files("images"))
	assert.FileExists(t, filepath.Join(root, "images", "foto.png"))
	assert.Empty(t, second.Cleanup.Removed)
}

func TestOrganizeInvalidTarget(t *testing.T) {
	dfs := New(afero.NewOsFs(), &mockInteractor{})
	ctx := context.Background()

	_, err := dfs.Organize(ctx, filepath.Join(t.TempDir(), "missing"), options.OrganizeOptions{})
	assert.ErrorIs(t, err, common.ErrInvalidTarget)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = dfs.Organize(ctx, file, options.OrganizeOptions{})
	assert.ErrorIs(t, err, common.ErrInvalidTarget)
	assert.ErrorIs(t, err, common.ErrNotDirectory)

	_, err = dfs.Organize(ctx, "", options.OrganizeOptions{})
	assert.ErrorIs(t, err, common.ErrInvalidTarget)
	assert.ErrorIs(t, err, common.ErrPathEmpty)
}

func TestOrganizeBrokenArchive(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.zip"), []byte("not a zip"), 0o644))

	dfs := New(afero.NewOsFs(), &mockInteractor{})
	report, err := dfs.Organize(context.Background(), root, options.OrganizeOptions{})

	assert.ErrorIs(t, err, common.ErrExtractionFailure)
	require.NotNil(t, report, "the partial report is returned")
	assert.NotNil(t, report.Inventory)
	assert.FileExists(t, filepath.Join(root, "bad.zip"))
}

func TestOrganizeCanceled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a b.txt"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dfs := New(afero.NewOsFs(), &mockInteractor{})
	_, err := dfs.Organize(ctx, root, options.OrganizeOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, filepath.Join(root, "a b.txt"))
}

func TestRegisterEventHandler(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "clip.mp4"), []byte("mp4"), 0o644))

	dfs := New(afero.NewOsFs(), &mockInteractor{})
	var moved []string
	unregister := dfs.RegisterEventHandler(func(e types.Event) {
		if e.Type == types.EventMoved {
			moved = append(moved, e.Target)
		}
	})

	_, err := dfs.Organize(context.Background(), root, options.OrganizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "videos", "clip.mp4")}, moved)

	unregister()
	require.NoError(t, os.WriteFile(filepath.Join(root, "other.mp4"), []byte("mp4"), 0o644))
	_, err = dfs.Organize(context.Background(), root, options.OrganizeOptions{})
	require.NoError(t, err)
	assert.Len(t, moved, 1)
}

func TestValidatePath(t *testing.T) {
	dfs := New(afero.NewOsFs(), &mockInteractor{})

	assert.ErrorIs(t, dfs.ValidatePath(""), common.ErrPathEmpty)
	assert.NoError(t, dfs.ValidatePath("/tmp"))
	assert.NotNil(t, dfs.GetFileOperations())
}

func TestOrganizeSkipsUnreadableFolder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "private"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "private", "doc.txt"), []byte("doc"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "photo.png"), []byte("png"), 0o644))

	dfs := New(&lockedDirFs{Fs: afero.NewOsFs(), locked: "private"}, &mockInteractor{})
	report, err := dfs.Organize(context.Background(), root, options.OrganizeOptions{})
	require.NoError(t, err)

	assert.False(t, report.Rename.Aborted)
	assert.FileExists(t, filepath.Join(root, "images", "photo.png"))
	assert.FileExists(t, filepath.Join(root, "private", "doc.txt"), "unreadable folders are left as they are")
	assert.Empty(t, report.Cleanup.Failed)
}

func TestOrganizeDirectorySymlink(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "somedir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "somedir", "inner.xyz"), []byte("?"), 0o644))
	if err := os.Symlink(filepath.Join(root, "somedir"), filepath.Join(root, "backup.zip")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	dfs := New(afero.NewOsFs(), &mockInteractor{})
	report, err := dfs.Organize(context.Background(), root, options.OrganizeOptions{})
	require.NoError(t, err)

	assert.Empty(t, report.Inventory.Registry.Files("archives"))
	assert.Zero(t, report.Sort.Extracted)
	assert.NoDirExists(t, filepath.Join(root, "archives", "backup"))

	info, err := os.Lstat(filepath.Join(root, "backup.zip"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}
