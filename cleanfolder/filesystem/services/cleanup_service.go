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
	"github.com/vladstelmakh/clean-folder/cleanfolder/ports"
)

// CleanupService removes folders left empty by the sort pass
type CleanupService struct {
	fileOps  interfaces.FileOperations
	terminal ports.Interactor
	emit     types.EventHandler
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(fileOps interfaces.FileOperations, terminal ports.Interactor, emit types.EventHandler) *CleanupService {
	return &CleanupService{
		fileOps:  fileOps,
		terminal: terminal,
		emit:     emit,
	}
}

// RemoveEmptyFolders walks root bottom-up and deletes every empty folder
// whose name is not in keep, at any depth. The root is never removed. A
// folder that cannot be deleted is reported and skipped; one that cannot be
// read is left alone.
func (cs *CleanupService) RemoveEmptyFolders(ctx context.Context, root string, keep []string) (types.CleanupResult, error) {
	logger := zerolog.Ctx(ctx)
	metrics := common.NewPassMetrics("cleanup")
	var result types.CleanupResult

	kept := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		kept[name] = struct{}{}
	}

	err := cs.fileOps.WalkBottomUp(ctx, root, func(dir string, info os.FileInfo) error {
		if !info.IsDir() {
			return nil
		}
		if _, ok := kept[info.Name()]; ok {
			return nil
		}

		path := filepath.Join(dir, info.Name())
		empty, err := cs.fileOps.IsEmptyDir(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable folder")
			return nil
		}
		if !empty {
			return nil
		}

		if err := cs.fileOps.RemoveDirectory(ctx, path); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			metrics.Failure()
			result.Failed = append(result.Failed, path)
			result.Errors = append(result.Errors, err)
			logger.Warn().Err(err).Str("path", path).Msg("Failed to delete empty folder")
			cs.terminal.Error("Error deleting folder "+path, cause(err))
			return nil
		}

		metrics.Success()
		result.Removed = append(result.Removed, path)
		cs.emit.Emit(types.Event{
			Type:      types.EventDirDeleted,
			Timestamp: time.Now(),
			Path:      path,
		})
		return nil
	})
	metrics.Finish()
	if err != nil {
		return result, err
	}

	logger.Info().Fields(metrics.GetMetrics()).Msg("Cleanup pass completed")
	return result, nil
}

var _ interfaces.CleanupService = (*CleanupService)(nil)
