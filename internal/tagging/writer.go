// Package tagging writes and reads audio file tags.
package tagging

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/util"
)

// Writer is a tag sink. Keys missing from tags must not be cleared.
type Writer interface {
	Write(path string, tags release.TagMetadata) error
}

// MultiWriter routes MP3 files to the ID3 writer and everything else
// ffmpeg can tag to the ffmpeg writer
type MultiWriter struct {
	id3    Writer
	ffmpeg Writer
}

// NewWriter creates the default tag sink; ffmpegPath may be empty
func NewWriter(ffmpegPath string) *MultiWriter {
	return &MultiWriter{
		id3:    NewID3Writer(),
		ffmpeg: NewFFmpegWriter(ffmpegPath),
	}
}

// Write tags path with the writer for its format
func (m *MultiWriter) Write(path string, tags release.TagMetadata) error {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		return m.id3.Write(path, tags)
	}
	if !CanWriteTags(path) {
		return fmt.Errorf("%s: %w", filepath.Ext(path), util.ErrUnsupported)
	}
	return m.ffmpeg.Write(path, tags)
}
