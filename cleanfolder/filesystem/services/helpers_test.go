package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/common"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/fileops"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
)

// recordingInteractor keeps everything shown to the user
type recordingInteractor struct {
	outputs  []string
	warnings []string
	errors   []string
}

func (r *recordingInteractor) Output(message string)  { r.outputs = append(r.outputs, message) }
func (r *recordingInteractor) Warning(message string) { r.warnings = append(r.warnings, message) }
func (r *recordingInteractor) Error(message string, err error) {
	r.errors = append(r.errors, message+": "+err.Error())
}

// faultyOps fails renames and directory removals for selected base names
type faultyOps struct {
	*fileops.FileOps
	renameErr map[string]error
	removeErr map[string]error
}

func (f *faultyOps) Rename(ctx context.Context, oldPath, newPath string) error {
	if err, ok := f.renameErr[filepath.Base(oldPath)]; ok {
		return common.IOError("rename", oldPath, &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: err})
	}
	return f.FileOps.Rename(ctx, oldPath, newPath)
}

func (f *faultyOps) RemoveDirectory(ctx context.Context, dir string) error {
	if err, ok := f.removeErr[filepath.Base(dir)]; ok {
		return common.NewOpError(common.ErrCleanupFailure, "remove directory", dir, &os.PathError{Op: "remove", Path: dir, Err: err})
	}
	return f.FileOps.RemoveDirectory(ctx, dir)
}

// newTree writes files (and directories for names ending in "/") below a
// fresh temp root
func newTree(t *testing.T, entries map[string]string) (string, *fileops.FileOps) {
	t.Helper()

	root := t.TempDir()
	for name, content := range entries {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root, fileops.NewFileOps(afero.NewOsFs())
}

func eventRecorder(events *[]types.Event) types.EventHandler {
	return func(e types.Event) {
		*events = append(*events, e)
	}
}
