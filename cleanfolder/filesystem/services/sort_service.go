package services

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/common"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/interfaces"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/options"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
	"github.com/vladstelmakh/clean-folder/cleanfolder/naming"
)

// SortService moves classified files into category folders directly under
// the root and unpacks archives
type SortService struct {
	fileOps   interfaces.FileOperations
	extractor interfaces.ArchiveExtractor
	emit      types.EventHandler
}

// NewSortService creates a new sort service
func NewSortService(fileOps interfaces.FileOperations, extractor interfaces.ArchiveExtractor, emit types.EventHandler) *SortService {
	return &SortService{
		fileOps:   fileOps,
		extractor: extractor,
		emit:      emit,
	}
}

// SortFiles processes every category of opts in table order. Plain
// categories get <root>/<name> and their files moved in by base name.
// Extracting categories get <root>/<name>/<archive base> per archive; the
// archive is deleted only once extraction succeeded. Extraction failures are
// returned and leave the archive in place.
func (ss *SortService) SortFiles(ctx context.Context, root string, inv *types.Inventory, opts options.OrganizeOptions) (types.SortResult, error) {
	opts = opts.WithDefaults()
	metrics := common.NewPassMetrics("sort")
	result := types.SortResult{Moved: make(map[string]int)}

	for _, category := range opts.Categories {
		files := inv.Registry.Files(category.Name)
		categoryDir := filepath.Join(root, category.Name)
		if err := ss.fileOps.CreateDirectory(ctx, categoryDir, opts.DirPerm); err != nil {
			return result, err
		}

		var err error
		if category.Extract {
			err = ss.extractArchives(ctx, categoryDir, category, files, opts, &result, metrics)
		} else {
			err = ss.moveFiles(ctx, categoryDir, category, files, opts, &result, metrics)
		}
		if err != nil {
			metrics.Failure()
			return result, err
		}
	}
	metrics.Finish()

	zerolog.Ctx(ctx).Info().Fields(metrics.GetMetrics()).Int("skipped", result.Skipped).Msg("Sort pass completed")
	return result, nil
}

func (ss *SortService) moveFiles(ctx context.Context, categoryDir string, category types.Category, files []string, opts options.OrganizeOptions, result *types.SortResult, metrics *common.PassMetrics) error {
	for _, src := range files {
		dst := filepath.Join(categoryDir, filepath.Base(src))
		final, err := ss.fileOps.MoveFile(ctx, src, dst, opts.MoveOptions())
		if err != nil {
			return err
		}
		if final == "" {
			result.Skipped++
			continue
		}

		metrics.Success()
		result.Moved[category.Name]++
		ss.emit.Emit(types.Event{
			Type:      types.EventMoved,
			Timestamp: time.Now(),
			Path:      src,
			Target:    final,
			Category:  category.Name,
		})
	}
	return nil
}

func (ss *SortService) extractArchives(ctx context.Context, categoryDir string, category types.Category, files []string, opts options.OrganizeOptions, result *types.SortResult, metrics *common.PassMetrics) error {
	for _, archive := range files {
		base, _ := naming.SplitName(filepath.Base(archive))
		dest := filepath.Join(categoryDir, base)
		if err := ss.fileOps.CreateDirectory(ctx, dest, opts.DirPerm); err != nil {
			return err
		}

		n, err := ss.extractor.Extract(ctx, archive, dest, opts.ExtractOptions())
		if err != nil {
			return err
		}
		if err := ss.fileOps.DeleteFile(ctx, archive); err != nil {
			return err
		}

		metrics.Success()
		metrics.AddBytes(n)
		result.Extracted++
		result.ExtractedBytes += n
		ss.emit.Emit(types.Event{
			Type:      types.EventExtracted,
			Timestamp: time.Now(),
			Path:      archive,
			Target:    dest,
			Category:  category.Name,
		})
	}
	return nil
}

var _ interfaces.SortService = (*SortService)(nil)
