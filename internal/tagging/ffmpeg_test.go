package tagging

import (
	"testing"

	"github.com/franz/album-categorizer/internal/release"
)

func newTags(fields map[string]string) release.TagMetadata {
	tags := release.NewTagMetadata()
	for k, v := range fields {
		tags.Set(k, v)
	}
	return tags
}

func TestBuildMetadataArgs(t *testing.T) {
	testCases := []struct {
		name     string
		fields   map[string]string
		expected int // each field = 2 args: -metadata key=value
	}{
		{
			name: "complete metadata",
			fields: map[string]string{
				release.TagTitle:       "Stormbringer",
				release.TagArtist:      "Adam Beyer",
				release.TagAlbum:       "Stormbringer - Remixes EP",
				release.TagAlbumArtist: "Adam Beyer",
				release.TagDate:        "2014-03-03",
				release.TagTrackNumber: "1",
				release.TagDiscNumber:  "1",
			},
			expected: 14,
		},
		{
			name: "minimal metadata",
			fields: map[string]string{
				release.TagTitle:  "Title Only",
				release.TagArtist: "Artist Only",
			},
			expected: 4,
		},
		{
			name:     "empty metadata",
			fields:   map[string]string{},
			expected: 0,
		},
		{
			name:     "empty values are dropped",
			fields:   map[string]string{release.TagTitle: "Title", release.TagGenre: ""},
			expected: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := buildMetadataArgs(newTags(tc.fields))

			if len(args) != tc.expected {
				t.Errorf("Expected %d args, got %d", tc.expected, len(args))
			}

			for i := 0; i < len(args); i += 2 {
				if args[i] != "-metadata" {
					t.Errorf("Expected '-metadata' at index %d, got %s", i, args[i])
				}
			}
		})
	}
}

func TestBuildMetadataArgs_Format(t *testing.T) {
	tags := newTags(map[string]string{
		release.TagTitle:        "Test Song",
		release.TagTrackNumber:  "03",
		release.TagDiscNumber:   "2",
		release.TagAlbumArtist:  "VA",
		release.TagOrganization: "Drumcode",
		"mood":                  "dark",
	})

	args := buildMetadataArgs(tags)

	expected := []string{
		"-metadata", "track=03",
		"-metadata", "disc=2",
		"-metadata", "title=Test Song",
		"-metadata", "album_artist=VA",
		"-metadata", "publisher=Drumcode",
		"-metadata", "mood=dark",
	}
	if len(args) != len(expected) {
		t.Fatalf("buildMetadataArgs() = %v, expected %v", args, expected)
	}
	for i := range expected {
		if args[i] != expected[i] {
			t.Errorf("args[%d] = %q, expected %q", i, args[i], expected[i])
		}
	}
}

func TestCanWriteTags(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"/path/to/file.mp3", true},
		{"/path/to/file.MP3", true},
		{"/path/to/file.flac", true},
		{"/path/to/file.FLAC", true},
		{"/path/to/file.m4a", true},
		{"/path/to/file.ogg", true},
		{"/path/to/file.opus", true},
		{"/path/to/file.wav", true},
		{"/path/to/file.aiff", true},
		{"/path/to/file.wma", true},
		{"/path/to/file.txt", false},
		{"/path/to/file.jpg", false},
		{"/path/to/file", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			result := CanWriteTags(tc.path)
			if result != tc.expected {
				t.Errorf("CanWriteTags(%s): expected %v, got %v", tc.path, tc.expected, result)
			}
		})
	}
}

func TestFFmpegWriterMissingFile(t *testing.T) {
	w := NewFFmpegWriter("")
	err := w.Write("/nonexistent/file.flac", newTags(map[string]string{release.TagTitle: "x"}))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}
