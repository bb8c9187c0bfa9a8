package tagging

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/util"
)

// ffmpegKeys maps tag keys to the metadata keys ffmpeg understands
var ffmpegKeys = map[string]string{
	release.TagTrackNumber:  "track",
	release.TagDiscNumber:   "disc",
	release.TagAlbumArtist:  "album_artist",
	release.TagOrganization: "publisher",
}

// containers that can carry an attached picture stream
var attachedPictureFormats = map[string]bool{
	".flac": true,
	".m4a":  true,
}

// FFmpegWriter rewrites tags of non-MP3 containers with ffmpeg
type FFmpegWriter struct {
	binary string
}

// NewFFmpegWriter creates a writer using the ffmpeg binary at path
func NewFFmpegWriter(path string) *FFmpegWriter {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegWriter{binary: path}
}

// Write copies the file through ffmpeg with the given metadata and
// replaces the original. Streams are copied, not re-encoded.
func (w *FFmpegWriter) Write(filePath string, tags release.TagMetadata) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	metadataArgs := buildMetadataArgs(tags)
	if len(metadataArgs) == 0 && !tags.HasArtwork() {
		util.DebugLog("No metadata to write for %s", filePath)
		return nil
	}

	ext := filepath.Ext(filePath)
	tempPath := strings.TrimSuffix(filePath, ext) + ".tagged" + ext

	args := []string{"-i", filePath}
	if tags.HasArtwork() && attachedPictureFormats[strings.ToLower(ext)] {
		coverPath, err := writeTempCover(tags.Artwork)
		if err != nil {
			return err
		}
		defer os.Remove(coverPath)
		args = append(args,
			"-i", coverPath,
			"-map", "0:a",
			"-map", "1:0",
			"-disposition:v:0", "attached_pic",
		)
	} else if tags.HasArtwork() {
		util.DebugLog("Skipping artwork for %s: container has no picture support", filePath)
	}
	args = append(args, metadataArgs...)
	args = append(args,
		"-c", "copy",
		"-y",
		tempPath,
	)

	cmd := exec.Command(w.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("ffmpeg failed: %w (output: %s)", err, string(output))
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace tagged file: %w", err)
	}

	util.DebugLog("Wrote tags to: %s", filePath)
	return nil
}

// buildMetadataArgs builds ffmpeg -metadata arguments in tag display order
func buildMetadataArgs(tags release.TagMetadata) []string {
	var args []string
	for _, key := range tags.Keys() {
		name := key
		if mapped, ok := ffmpegKeys[key]; ok {
			name = mapped
		}
		args = append(args, "-metadata", fmt.Sprintf("%s=%s", name, tags.Fields[key]))
	}
	return args
}

func writeTempCover(data []byte) (string, error) {
	f, err := os.CreateTemp("", "alc-cover-*.jpg")
	if err != nil {
		return "", fmt.Errorf("failed to create cover file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// CanWriteTags checks if we can write tags for this file format
func CanWriteTags(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))

	supportedFormats := map[string]bool{
		".mp3":  true,
		".m4a":  true,
		".flac": true,
		".ogg":  true,
		".opus": true,
		".wma":  true,
		".wav":  true,
		".aiff": true,
		".ape":  true,
		".wv":   true,
		".tta":  true,
		".mpc":  true,
	}

	return supportedFormats[ext]
}

// ValidateFFmpeg checks if the ffmpeg binary is available
func (w *FFmpegWriter) ValidateFFmpeg() error {
	cmd := exec.Command(w.binary, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}
