package release

import (
	"fmt"
	"sort"
)

// Credit is a normalized extra-artist credit
type Credit struct {
	Role string
	Name string
}

// NormalizedTrack is a tracklist entry after normalization.
// Position is either two-digit padded ("01") or letter+digits ("A1").
type NormalizedTrack struct {
	Position     string
	DiscNumber   string
	TrackNumber  string
	Artist       string
	Title        string
	Duration     string
	ExtraArtists []Credit
}

// FolderNameParts are the independently normalized parts of an export folder name
type FolderNameParts struct {
	Label         string
	CatalogNumber string
	Artist        string
	Title         string
}

// String joins the parts as "{label} {catalog} - {artist} - {title}"
func (p FolderNameParts) String() string {
	return fmt.Sprintf("%s %s - %s - %s", p.Label, p.CatalogNumber, p.Artist, p.Title)
}

// InfoSheetFields are the album-level display strings of the info sheet
type InfoSheetFields struct {
	Artist          string
	Title           string
	Label           string
	CatalogNumber   string
	Format          string
	Country         string
	Released        string
	Style           string
	NotesWithCredit string
	ShortURL        string
}

// Tag keys understood by the tag sinks
const (
	TagTrackNumber  = "tracknumber"
	TagDiscNumber   = "discnumber"
	TagTitle        = "title"
	TagArtist       = "artist"
	TagAlbum        = "album"
	TagAlbumArtist  = "albumartist"
	TagDate         = "date"
	TagGenre        = "genre"
	TagOrganization = "organization"
	TagCopyright    = "copyright"
	TagComment      = "comment"
	TagLength       = "length"
)

// TagOrder is the display order of text tags
var TagOrder = []string{
	TagDiscNumber,
	TagTrackNumber,
	TagArtist,
	TagTitle,
	TagLength,
	TagGenre,
	TagAlbumArtist,
	TagAlbum,
	TagDate,
	TagOrganization,
	TagCopyright,
	TagComment,
}

// TagMetadata is the per-track tag map handed to a tag sink.
// Fields never holds an empty value.
type TagMetadata struct {
	Fields  map[string]string
	Artwork []byte
}

// NewTagMetadata returns an empty tag map
func NewTagMetadata() TagMetadata {
	return TagMetadata{Fields: make(map[string]string)}
}

// Set stores value under key; an empty value removes the key
func (m *TagMetadata) Set(key, value string) {
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	if value == "" {
		delete(m.Fields, key)
		return
	}
	m.Fields[key] = value
}

// Get returns the value for key and whether it is present
func (m TagMetadata) Get(key string) (string, bool) {
	v, ok := m.Fields[key]
	return v, ok
}

// HasArtwork reports whether artwork bytes are attached
func (m TagMetadata) HasArtwork() bool {
	return len(m.Artwork) > 0
}

// Len returns the number of text tags
func (m TagMetadata) Len() int {
	return len(m.Fields)
}

// Keys returns the present keys, known tags in TagOrder first, then the rest sorted
func (m TagMetadata) Keys() []string {
	keys := make([]string, 0, len(m.Fields))
	known := make(map[string]bool, len(TagOrder))
	for _, k := range TagOrder {
		known[k] = true
		if _, ok := m.Fields[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m.Fields {
		if !known[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
