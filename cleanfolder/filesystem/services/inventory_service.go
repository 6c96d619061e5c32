package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/common"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/interfaces"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
	"github.com/vladstelmakh/clean-folder/cleanfolder/naming"
	"github.com/vladstelmakh/clean-folder/cleanfolder/ports"
)

// InventoryService classifies files by extension into the category table
type InventoryService struct {
	fileOps  interfaces.FileOperations
	terminal ports.Interactor
}

// NewInventoryService creates a new inventory service
func NewInventoryService(fileOps interfaces.FileOperations, terminal ports.Interactor) *InventoryService {
	return &InventoryService{
		fileOps:  fileOps,
		terminal: terminal,
	}
}

// BuildInventory walks root top-down once. Each file lands in the first
// category, in table order, that lists its extension; otherwise its
// extension is recorded as unknown. Every extension is recorded in All.
func (is *InventoryService) BuildInventory(ctx context.Context, root string, categories []types.Category) (*types.Inventory, error) {
	metrics := common.NewPassMetrics("inventory")
	inv := types.NewInventory(categories)

	err := is.fileOps.WalkFiles(ctx, root, func(dir string, info os.FileInfo) error {
		ext := naming.Extension(info.Name())
		inv.All.Add(ext)

		if category, ok := types.Classify(categories, ext); ok {
			inv.Registry.Add(category.Name, filepath.Join(dir, info.Name()))
			metrics.Success()
			return nil
		}
		inv.Unknown.Add(ext)
		return nil
	})
	metrics.Finish()
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Fields(metrics.GetMetrics()).
		Int("extensions", len(inv.All)).
		Int("unknown", len(inv.Unknown)).
		Msg("Inventory pass completed")
	return inv, nil
}

// PrintReport writes the categorized files and the extension lists
func (is *InventoryService) PrintReport(inv *types.Inventory, categories []types.Category) {
	is.terminal.Output("Categorized files:")
	for _, category := range categories {
		files := inv.Registry.Files(category.Name)
		is.terminal.Output(fmt.Sprintf("%s: %d files", category.Name, len(files)))
		for _, file := range files {
			is.terminal.Output("\t" + file)
		}
	}
	is.terminal.Output("")

	is.terminal.Output("All extensions found:")
	for _, ext := range inv.All.Sorted() {
		is.terminal.Output(ext)
	}
	is.terminal.Output("")

	if len(inv.Unknown) > 0 {
		is.terminal.Output("Unknown extensions found:")
		for _, ext := range inv.Unknown.Sorted() {
			is.terminal.Output(ext)
		}
	}
	is.terminal.Output("")
}

var _ interfaces.InventoryService = (*InventoryService)(nil)
