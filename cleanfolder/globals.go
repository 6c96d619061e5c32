package internal

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var (
	DefaultAppCMDShortCut = "clean-folder"

	// Category folder names created directly under the target root.
	DefaultImagesDir    = "images"
	DefaultVideosDir    = "videos"
	DefaultDocumentsDir = "documents"
	DefaultAudioDir     = "audio"
	DefaultArchivesDir  = "archives"

	DefaultDirPerm  os.FileMode = 0o755
	DefaultLogLevel             = zerolog.WarnLevel
)

// NewLogger returns a timestamped logger writing to w at the given level.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
