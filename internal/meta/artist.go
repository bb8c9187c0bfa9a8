package meta

import "strings"

const (
	// VariousArtists is the compilation token used in folder names
	VariousArtists = "VA"

	// VariousArtistsLong is the compilation phrase used in info sheets and tags
	VariousArtistsLong = "Various Artists"
)

var variousSpellings = map[string]bool{
	"various":         true,
	"various artists": true,
	"v/a":             true,
	"va":              true,
}

// IsVariousArtists reports whether name is a spelling of "Various Artists"
func IsVariousArtists(name string) bool {
	return variousSpellings[strings.ToLower(strings.TrimSpace(name))]
}

// isMixed reports whether the format descriptions mark a DJ-mixed release
func isMixed(descriptions []string) bool {
	return hasDescription(descriptions, "mixed")
}

// NormalizeArtist returns the folder-name form of an artist string.
// Mixed releases and Various Artists spellings collapse to VariousArtists.
func NormalizeArtist(raw string, descriptions []string) string {
	if raw == "" {
		return raw
	}
	if isMixed(descriptions) || IsVariousArtists(raw) {
		return VariousArtists
	}
	return StripDisambiguation(raw)
}

// NormalizeArtistLong returns the info-sheet form of an artist string
func NormalizeArtistLong(raw string) string {
	if raw == "" {
		return raw
	}
	if IsVariousArtists(raw) {
		return VariousArtistsLong
	}
	return StripDisambiguation(raw)
}
