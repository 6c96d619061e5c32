package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/common"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/interfaces"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
	"github.com/vladstelmakh/clean-folder/cleanfolder/naming"
	"github.com/vladstelmakh/clean-folder/cleanfolder/ports"
)

// RenameLockedMessage is shown when the rename pass stops on a locked entry
const RenameLockedMessage = "\nAn error occurred while renaming files." +
	"\nTarget files or folders are used by other programs." +
	"\nPlease close these programs and try again."

// RenameService rewrites every file and folder name below a root through
// naming.Normalize, keeping file extensions
type RenameService struct {
	fileOps  interfaces.FileOperations
	terminal ports.Interactor
	emit     types.EventHandler
}

// NewRenameService creates a new rename service
func NewRenameService(fileOps interfaces.FileOperations, terminal ports.Interactor, emit types.EventHandler) *RenameService {
	return &RenameService{
		fileOps:  fileOps,
		terminal: terminal,
		emit:     emit,
	}
}

// RenameTree renames entries bottom-up so renaming a folder never
// invalidates paths still to be visited. A rename blocked by another
// process stops the pass: the user is told, the result is marked aborted
// and no error is returned. Any other failure is returned.
func (rs *RenameService) RenameTree(ctx context.Context, root string) (types.RenameResult, error) {
	logger := zerolog.Ctx(ctx)
	metrics := common.NewPassMetrics("rename")
	var result types.RenameResult

	err := rs.fileOps.WalkBottomUp(ctx, root, func(dir string, info os.FileInfo) error {
		newName := naming.NormalizeName(info.Name())
		if newName == info.Name() {
			return nil
		}

		oldPath := filepath.Join(dir, info.Name())
		newPath := filepath.Join(dir, newName)
		if err := rs.fileOps.Rename(ctx, oldPath, newPath); err != nil {
			if common.IsLockError(err) {
				return common.NewOpError(common.ErrRenameConflict, "rename", oldPath, cause(err))
			}
			return err
		}

		metrics.Success()
		result.Renamed++
		rs.emit.Emit(types.Event{
			Type:      types.EventRenamed,
			Timestamp: time.Now(),
			Path:      oldPath,
			Target:    newPath,
		})
		return nil
	})
	metrics.Finish()

	if errors.Is(err, common.ErrRenameConflict) {
		result.Aborted = true
		result.AbortErr = err
		logger.Warn().Err(err).Int("renamed", result.Renamed).Msg("Rename pass aborted")
		rs.terminal.Warning(RenameLockedMessage)
		return result, nil
	}
	if err != nil {
		return result, err
	}

	logger.Info().Fields(metrics.GetMetrics()).Msg("Rename pass completed")
	return result, nil
}

// cause strips an OpError so a new kind can wrap the underlying failure
func cause(err error) error {
	var opErr *common.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		return opErr.Err
	}
	return err
}

var _ interfaces.RenameService = (*RenameService)(nil)
