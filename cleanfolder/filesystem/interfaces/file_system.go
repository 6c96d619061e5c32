package interfaces

import (
	"context"
	"os"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/fileops"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/options"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
)

// FileOperations defines the filesystem primitives the organizer passes use
type FileOperations interface {
	// Traversal
	ReadDir(dir string) ([]os.FileInfo, error)
	WalkBottomUp(ctx context.Context, root string, visit fileops.VisitFunc) error
	WalkFiles(ctx context.Context, root string, visit fileops.VisitFunc) error
	Stat(path string) (os.FileInfo, error)

	// Mutation
	Rename(ctx context.Context, oldPath, newPath string) error
	MoveFile(ctx context.Context, srcPath, dstPath string, opts options.MoveOptions) (string, error)
	CreateDirectory(ctx context.Context, path string, perm os.FileMode) error
	DeleteFile(ctx context.Context, path string) error
	IsEmptyDir(dir string) (bool, error)
	RemoveDirectory(ctx context.Context, dir string) error
}

// ArchiveExtractor unpacks archives into a destination folder
type ArchiveExtractor interface {
	Extract(ctx context.Context, archivePath, destDir string, opts options.ExtractOptions) (int64, error)
}

// RenameService normalizes every name below a root
type RenameService interface {
	RenameTree(ctx context.Context, root string) (types.RenameResult, error)
}

// InventoryService classifies the files below a root
type InventoryService interface {
	BuildInventory(ctx context.Context, root string, categories []types.Category) (*types.Inventory, error)
	PrintReport(inv *types.Inventory, categories []types.Category)
}

// SortService moves and extracts classified files into category folders
type SortService interface {
	SortFiles(ctx context.Context, root string, inv *types.Inventory, opts options.OrganizeOptions) (types.SortResult, error)
}

// CleanupService removes folders left empty
type CleanupService interface {
	RemoveEmptyFolders(ctx context.Context, root string, keep []string) (types.CleanupResult, error)
}
