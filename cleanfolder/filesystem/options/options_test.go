package options

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
)

func TestWithDefaults(t *testing.T) {
	opts := OrganizeOptions{}.WithDefaults()

	assert.Equal(t, ConflictOverwrite, opts.Conflict)
	assert.Equal(t, os.FileMode(0o755), opts.DirPerm)
	assert.Equal(t, types.DefaultCategories(), opts.Categories)

	custom := OrganizeOptions{
		Categories: []types.Category{{Name: "text", Extensions: []string{"txt"}}},
		Conflict:   ConflictSkip,
		DirPerm:    0o700,
	}.WithDefaults()
	assert.Equal(t, "text", custom.Categories[0].Name)
	assert.Equal(t, ConflictSkip, custom.MoveOptions().Conflict)
	assert.Equal(t, os.FileMode(0o700), custom.ExtractOptions().DirPerm)
}

func TestConflictStrategyValid(t *testing.T) {
	assert.True(t, ConflictOverwrite.Valid())
	assert.True(t, ConflictSkip.Valid())
	assert.True(t, ConflictRename.Valid())
	assert.False(t, ConflictStrategy("").Valid())
	assert.False(t, ConflictStrategy("merge").Valid())
}
