package options

import (
	"os"

	internal "github.com/vladstelmakh/clean-folder/cleanfolder"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
)

// ConflictStrategy defines how to handle an existing file at a move destination
type ConflictStrategy string

const (
	ConflictOverwrite ConflictStrategy = "overwrite"
	ConflictSkip      ConflictStrategy = "skip"
	ConflictRename    ConflictStrategy = "rename"
)

// Valid reports whether s is a known strategy
func (s ConflictStrategy) Valid() bool {
	switch s {
	case ConflictOverwrite, ConflictSkip, ConflictRename:
		return true
	}
	return false
}

// MoveOptions configures a single file move
type MoveOptions struct {
	Conflict ConflictStrategy // How to handle an existing destination file
	DirPerm  os.FileMode      // Permissions for directories created on the way
}

// ExtractOptions configures archive extraction
type ExtractOptions struct {
	DirPerm os.FileMode // Permissions for directories created during extraction
}

// OrganizeOptions configures an organizer run
type OrganizeOptions struct {
	Categories []types.Category // Ordered category table
	Conflict   ConflictStrategy // Move conflict policy
	DirPerm    os.FileMode      // Permissions for created category folders
}

// DefaultOrganizeOptions returns the options used by the command line tool
func DefaultOrganizeOptions() OrganizeOptions {
	return OrganizeOptions{
		Categories: types.DefaultCategories(),
		Conflict:   ConflictOverwrite,
		DirPerm:    internal.DefaultDirPerm,
	}
}

// WithDefaults fills zero fields from DefaultOrganizeOptions
func (o OrganizeOptions) WithDefaults() OrganizeOptions {
	def := DefaultOrganizeOptions()
	if len(o.Categories) == 0 {
		o.Categories = def.Categories
	}
	if o.Conflict == "" {
		o.Conflict = def.Conflict
	}
	if o.DirPerm == 0 {
		o.DirPerm = def.DirPerm
	}
	return o
}

// MoveOptions derives per-file move options
func (o OrganizeOptions) MoveOptions() MoveOptions {
	return MoveOptions{Conflict: o.Conflict, DirPerm: o.DirPerm}
}

// ExtractOptions derives archive extraction options
func (o OrganizeOptions) ExtractOptions() ExtractOptions {
	return ExtractOptions{DirPerm: o.DirPerm}
}
