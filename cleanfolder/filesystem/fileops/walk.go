package fileops

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/common"
)

// VisitFunc is called for each entry below the walk root. dir is the parent
// directory of the entry.
type VisitFunc func(dir string, info os.FileInfo) error

// WalkBottomUp visits every entry below root, children before their parent.
// Within one directory files are visited before subdirectories, both in name
// order. The root itself is not visited. A subdirectory that cannot be read
// is still visited but not descended into. Symlinks are never followed.
func (fo *FileOps) WalkBottomUp(ctx context.Context, root string, visit VisitFunc) error {
	entries, err := fo.ReadDir(root)
	if err != nil {
		return err
	}
	return fo.walkBottomUp(ctx, root, entries, visit)
}

func (fo *FileOps) walkBottomUp(ctx context.Context, dir string, entries []os.FileInfo, visit VisitFunc) error {
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		children, err := fo.ReadDir(sub)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", sub).Msg("Skipping unreadable directory")
			continue
		}
		if err := fo.walkBottomUp(ctx, sub, children, visit); err != nil {
			return err
		}
	}

	for _, dirsPass := range []bool{false, true} {
		for _, entry := range entries {
			if entry.IsDir() != dirsPass {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := visit(dir, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// WalkFiles visits every regular file below root top-down in lexical order.
// Unreadable subdirectories are skipped. Symlinks to directories are not
// files and are neither visited nor followed.
func (fo *FileOps) WalkFiles(ctx context.Context, root string, visit VisitFunc) error {
	root = filepath.Clean(root)
	return afero.Walk(fo.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return common.IOError("walk", path, err)
			}
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("Skipping unreadable entry")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 && fo.isDirLink(path) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("Skipping symlink to directory")
			return nil
		}
		return visit(filepath.Dir(path), info)
	})
}

// isDirLink reports whether the symlink at path resolves to a directory. A
// dangling link is not one.
func (fo *FileOps) isDirLink(path string) bool {
	target, err := fo.fs.Stat(path)
	return err == nil && target.IsDir()
}
