package fileops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/common"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/options"
)

// FileOps provides low-level file system operations on top of an afero.Fs
type FileOps struct {
	fs        afero.Fs
	pathUtils *common.PathUtils
}

// NewFileOps creates a new file operations instance
func NewFileOps(fs afero.Fs) *FileOps {
	return &FileOps{
		fs:        fs,
		pathUtils: common.NewPathUtils(),
	}
}

// Fs returns the underlying filesystem
func (fo *FileOps) Fs() afero.Fs {
	return fo.fs
}

// Stat returns file info for path
func (fo *FileOps) Stat(path string) (os.FileInfo, error) {
	return fo.fs.Stat(path)
}

// ReadDir lists the entries of dir sorted by name
func (fo *FileOps) ReadDir(dir string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(fo.fs, dir)
	if err != nil {
		return nil, common.IOError("read directory", dir, err)
	}
	return entries, nil
}

// Rename renames oldPath to newPath in place. The underlying error is kept
// so callers can tell lock failures apart.
func (fo *FileOps) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fo.fs.Rename(oldPath, newPath); err != nil {
		return common.IOError("rename", oldPath, err)
	}
	zerolog.Ctx(ctx).Debug().Str("from", oldPath).Str("to", newPath).Msg("Renamed")
	return nil
}

// MoveFile moves srcPath to dstPath resolving an existing destination with
// opts.Conflict. It returns the final path, or "" when the move was skipped.
func (fo *FileOps) MoveFile(ctx context.Context, srcPath, dstPath string, opts options.MoveOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := fo.pathUtils.ValidatePath(srcPath); err != nil {
		return "", common.IOError("move", srcPath, err)
	}
	if err := fo.pathUtils.ValidatePath(dstPath); err != nil {
		return "", common.IOError("move", dstPath, err)
	}

	if filepath.Clean(srcPath) == filepath.Clean(dstPath) {
		return dstPath, nil
	}

	resolved, err := fo.resolveConflict(dstPath, opts.Conflict)
	if err != nil {
		return "", err
	}
	if resolved == "" {
		zerolog.Ctx(ctx).Info().Str("src", srcPath).Str("dst", dstPath).Msg("Destination exists, skipping move")
		return "", nil
	}

	perm := opts.DirPerm
	if perm == 0 {
		perm = 0o755
	}
	if err := fo.fs.MkdirAll(filepath.Dir(resolved), perm); err != nil {
		return "", common.IOError("create directory", filepath.Dir(resolved), err)
	}

	if err := fo.fs.Rename(srcPath, resolved); err == nil {
		zerolog.Ctx(ctx).Debug().Str("src", srcPath).Str("dst", resolved).Msg("Moved")
		return resolved, nil
	} else if !isCrossDeviceError(err) {
		return "", common.IOError("move", srcPath, err)
	}

	// Cross-device move: copy then delete
	if _, err := fo.CopyFile(ctx, srcPath, resolved); err != nil {
		return "", err
	}
	if err := fo.fs.Remove(srcPath); err != nil {
		return "", common.IOError("remove source after copy", srcPath, err)
	}

	zerolog.Ctx(ctx).Debug().Str("src", srcPath).Str("dst", resolved).Msg("Moved across devices")
	return resolved, nil
}

// CopyFile copies a regular file preserving its mode and returns the number
// of bytes written
func (fo *FileOps) CopyFile(ctx context.Context, srcPath, dstPath string) (int64, error) {
	src, err := fo.fs.Open(srcPath)
	if err != nil {
		return 0, common.IOError("open", srcPath, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, common.IOError("stat", srcPath, err)
	}

	dst, err := fo.fs.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, common.IOError("create", dstPath, err)
	}

	n, copyErr := copyWithContext(ctx, dst, src)
	closeErr := dst.Close()
	if copyErr != nil {
		return n, common.IOError("copy", srcPath, copyErr)
	}
	if closeErr != nil {
		return n, common.IOError("close", dstPath, closeErr)
	}
	return n, nil
}

// CreateDirectory creates a directory and any missing parents. An existing
// directory is not an error.
func (fo *FileOps) CreateDirectory(ctx context.Context, path string, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fo.pathUtils.ValidatePath(path); err != nil {
		return common.IOError("create directory", path, err)
	}
	if err := fo.fs.MkdirAll(path, perm); err != nil {
		return common.IOError("create directory", path, err)
	}
	return nil
}

// DeleteFile deletes a single file
func (fo *FileOps) DeleteFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fo.fs.Remove(path); err != nil {
		return common.IOError("delete file", path, err)
	}
	return nil
}

// IsEmptyDir reports whether dir has no entries
func (fo *FileOps) IsEmptyDir(dir string) (bool, error) {
	empty, err := afero.IsEmpty(fo.fs, dir)
	if err != nil {
		return false, common.IOError("inspect directory", dir, err)
	}
	return empty, nil
}

// RemoveDirectory removes an empty directory
func (fo *FileOps) RemoveDirectory(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fo.fs.Remove(dir); err != nil {
		return common.NewOpError(common.ErrCleanupFailure, "remove directory", dir, err)
	}
	return nil
}

// resolveConflict returns the path to write to, or "" to skip.
func (fo *FileOps) resolveConflict(dstPath string, strategy options.ConflictStrategy) (string, error) {
	info, err := fo.fs.Stat(dstPath)
	if err != nil {
		if os.IsNotExist(err) {
			return dstPath, nil
		}
		return "", common.IOError("check destination", dstPath, err)
	}
	if info.IsDir() {
		return "", common.NewOpError(common.ErrIOFailure, "move", dstPath, errors.New("destination is a directory"))
	}

	switch strategy {
	case options.ConflictOverwrite, "":
		return dstPath, nil
	case options.ConflictSkip:
		return "", nil
	case options.ConflictRename:
		return fo.uniqueName(dstPath), nil
	default:
		return "", common.NewOpError(common.ErrIOFailure, "move", dstPath, fmt.Errorf("unknown conflict strategy: %s", strategy))
	}
}

func (fo *FileOps) uniqueName(path string) string {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, counter, ext))
		if _, err := fo.fs.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buffer := make([]byte, 32*1024)
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, readErr := src.Read(buffer)
		if n > 0 {
			if _, writeErr := dst.Write(buffer[:n]); writeErr != nil {
				return total, writeErr
			}
			total += int64(n)
		}

		if readErr != nil {
			if readErr == io.EOF {
				return total, nil
			}
			return total, readErr
		}
	}
}

func isCrossDeviceError(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
