package tagging

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"
	"github.com/franz/album-categorizer/internal/release"
)

// raw tag keys per format for fields dhowden/tag has no accessor for
var rawKeys = map[string][]string{
	release.TagOrganization: {"TPUB", "organization", "ORGANIZATION", "label"},
	release.TagCopyright:    {"TCOP", "copyright", "COPYRIGHT", "cprt"},
}

// ReadTags reads the tags of an audio file into the same key space the
// writers use
func ReadTags(path string) (release.TagMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return release.TagMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return release.TagMetadata{}, fmt.Errorf("failed to read tags: %w", err)
	}

	tags := release.NewTagMetadata()
	tags.Set(release.TagTitle, m.Title())
	tags.Set(release.TagArtist, m.Artist())
	tags.Set(release.TagAlbum, m.Album())
	tags.Set(release.TagAlbumArtist, m.AlbumArtist())
	tags.Set(release.TagGenre, m.Genre())
	tags.Set(release.TagComment, m.Comment())

	if m.Year() > 0 {
		tags.Set(release.TagDate, strconv.Itoa(m.Year()))
	}
	if track, _ := m.Track(); track > 0 {
		tags.Set(release.TagTrackNumber, strconv.Itoa(track))
	}
	if disc, _ := m.Disc(); disc > 0 {
		tags.Set(release.TagDiscNumber, strconv.Itoa(disc))
	}

	if raw := m.Raw(); raw != nil {
		for key, candidates := range rawKeys {
			tags.Set(key, getRaw(raw, candidates...))
		}
	}

	if pic := m.Picture(); pic != nil {
		tags.Artwork = pic.Data
	}

	return tags, nil
}

// getRaw retrieves a string value from the raw tag map, trying multiple keys
func getRaw(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if val, ok := raw[key].(string); ok && val != "" {
			return val
		}
	}
	return ""
}
