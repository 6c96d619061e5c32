package filesystem

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/common"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/fileops"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/interfaces"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/options"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/services"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
	"github.com/vladstelmakh/clean-folder/cleanfolder/ports"
)

// FileSystem is the folder organizer. It runs the rename, inventory, sort
// and cleanup passes over one target directory.
type FileSystem struct {
	// Core services
	renameService    interfaces.RenameService
	inventoryService interfaces.InventoryService
	sortService      interfaces.SortService
	cleanupService   interfaces.CleanupService
	fileOperations   *fileops.FileOps

	// Utilities
	pathUtils *common.PathUtils
	terminal  ports.Interactor

	eventHandlers []types.EventHandler
}

// New creates an organizer over fs reporting to terminal
func New(fs afero.Fs, terminal ports.Interactor) *FileSystem {
	dfs := &FileSystem{
		fileOperations: fileops.NewFileOps(fs),
		pathUtils:      common.NewPathUtils(),
		terminal:       terminal,
	}

	dfs.renameService = services.NewRenameService(dfs.fileOperations, terminal, dfs.emitEvent)
	dfs.inventoryService = services.NewInventoryService(dfs.fileOperations, terminal)
	dfs.sortService = services.NewSortService(dfs.fileOperations, dfs.fileOperations, dfs.emitEvent)
	dfs.cleanupService = services.NewCleanupService(dfs.fileOperations, terminal, dfs.emitEvent)

	return dfs
}

// Organize runs the four passes over root in order. Registry state lives in
// the returned report, so runs never share state.
//
// A rename blocked by another process ends only the rename pass. Cleanup
// failures are reported per folder. Every other failure stops the run and
// is returned with its error kind; the partial report is returned as well.
func (dfs *FileSystem) Organize(ctx context.Context, root string, opts options.OrganizeOptions) (*types.RunReport, error) {
	opts = opts.WithDefaults()

	root, err := dfs.validateTarget(root)
	if err != nil {
		return nil, err
	}

	report := &types.RunReport{
		RunID:     uuid.New(),
		Root:      root,
		StartTime: time.Now(),
	}
	logger := zerolog.Ctx(ctx).With().
		Str("run_id", report.RunID.String()).
		Str("root", root).
		Logger()
	ctx = logger.WithContext(ctx)

	unregister := dfs.RegisterEventHandler(func(e types.Event) {
		report.Events = append(report.Events, e)
	})
	defer unregister()

	logger.Info().Int("categories", len(opts.Categories)).Msg("Starting folder organization")

	report.Rename, err = dfs.renameService.RenameTree(ctx, root)
	if err != nil {
		return dfs.finish(report), err
	}

	report.Inventory, err = dfs.inventoryService.BuildInventory(ctx, root, opts.Categories)
	if err != nil {
		return dfs.finish(report), err
	}
	dfs.inventoryService.PrintReport(report.Inventory, opts.Categories)

	report.Sort, err = dfs.sortService.SortFiles(ctx, root, report.Inventory, opts)
	if err != nil {
		return dfs.finish(report), err
	}

	report.Cleanup, err = dfs.cleanupService.RemoveEmptyFolders(ctx, root, types.CategoryNames(opts.Categories))
	if err != nil {
		return dfs.finish(report), err
	}

	dfs.finish(report)
	logger.Info().
		Dur("duration", report.Duration).
		Int("renamed", report.Rename.Renamed).
		Int("classified", report.Inventory.Registry.Total()).
		Int("extracted", report.Sort.Extracted).
		Int("removed_dirs", len(report.Cleanup.Removed)).
		Msg("Folder organization completed")
	return report, nil
}

// RegisterEventHandler registers a handler for run events and returns a
// func that removes it
func (dfs *FileSystem) RegisterEventHandler(handler types.EventHandler) func() {
	dfs.eventHandlers = append(dfs.eventHandlers, handler)
	index := len(dfs.eventHandlers) - 1
	return func() {
		dfs.eventHandlers[index] = nil
	}
}

// ValidatePath validates that a path is usable as a target
func (dfs *FileSystem) ValidatePath(path string) error {
	return dfs.pathUtils.ValidatePath(path)
}

// GetFileOperations returns the file operations instance
func (dfs *FileSystem) GetFileOperations() *fileops.FileOps {
	return dfs.fileOperations
}

// emitEvent delivers an event to all registered handlers in order
func (dfs *FileSystem) emitEvent(event types.Event) {
	for _, handler := range dfs.eventHandlers {
		handler.Emit(event)
	}
}

func (dfs *FileSystem) validateTarget(root string) (string, error) {
	if err := dfs.pathUtils.ValidatePath(root); err != nil {
		return "", common.NewOpError(common.ErrInvalidTarget, "validate", root, err)
	}

	root = dfs.pathUtils.NormalizePath(root)
	info, err := dfs.fileOperations.Stat(root)
	if err != nil {
		return "", common.NewOpError(common.ErrInvalidTarget, "stat", root, err)
	}
	if !info.IsDir() {
		return "", common.NewOpError(common.ErrInvalidTarget, "validate", root, common.ErrNotDirectory)
	}
	return root, nil
}

func (dfs *FileSystem) finish(report *types.RunReport) *types.RunReport {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	return report
}
