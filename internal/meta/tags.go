package meta

import (
	"strings"
	"unicode/utf8"

	"github.com/franz/album-categorizer/internal/release"
)

// BuildTagMetadata assembles the tag map for one track. Keys whose value
// would be empty are left out so a sink never overwrites existing tags
// with blanks. artwork may be nil.
func BuildTagMetadata(track release.NormalizedTrack, album release.InfoSheetFields, creditLine string, artwork []byte) release.TagMetadata {
	tags := release.NewTagMetadata()

	year := releaseYear(album.Released)
	label := strings.TrimSpace(album.Label)
	copyright := ""
	if year != "" && label != "" {
		copyright = year + " " + label
	}

	tags.Set(release.TagTrackNumber, strings.TrimSpace(track.TrackNumber))
	tags.Set(release.TagDiscNumber, strings.TrimSpace(track.DiscNumber))
	tags.Set(release.TagTitle, strings.TrimSpace(track.Title))
	tags.Set(release.TagArtist, strings.TrimSpace(track.Artist))
	tags.Set(release.TagAlbum, strings.TrimSpace(album.Title))
	tags.Set(release.TagAlbumArtist, strings.TrimSpace(album.Artist))
	tags.Set(release.TagDate, year)
	tags.Set(release.TagGenre, strings.TrimSpace(album.Style))
	tags.Set(release.TagOrganization, label)
	tags.Set(release.TagCopyright, copyright)
	tags.Set(release.TagComment, strings.TrimSpace(creditLine))

	if len(artwork) > 0 {
		tags.Artwork = artwork
	}
	return tags
}

// ApplyOverrides replaces tags with user-edited values. An empty override
// drops the key.
func ApplyOverrides(tags release.TagMetadata, overrides map[string]string) release.TagMetadata {
	out := release.NewTagMetadata()
	for k, v := range tags.Fields {
		out.Set(k, v)
	}
	for k, v := range overrides {
		out.Set(strings.ToLower(strings.TrimSpace(k)), strings.TrimSpace(v))
	}
	out.Artwork = tags.Artwork
	return out
}

// releaseYear returns the first four characters of a release date
func releaseYear(released string) string {
	released = strings.TrimSpace(released)
	if utf8.RuneCountInString(released) < 4 {
		return ""
	}
	return string([]rune(released)[:4])
}
