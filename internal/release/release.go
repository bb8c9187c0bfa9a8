// Package release holds the typed data model shared by the catalog client,
// the normalizers and the export pipeline.
package release

import "strings"

// Label is a label credit on a release
type Label struct {
	Name          string `json:"name"`
	CatalogNumber string `json:"catno"`
	ResourceURL   string `json:"resource_url,omitempty"`
}

// Artist is an artist credit on a release or track
type Artist struct {
	Name        string `json:"name"`
	DisplayName string `json:"anv,omitempty"`
	Join        string `json:"join,omitempty"`
	Role        string `json:"role,omitempty"`
	ResourceURL string `json:"resource_url,omitempty"`
}

// ExtraArtist is a per-track or per-release contributor with a role
type ExtraArtist struct {
	Role        string `json:"role"`
	Name        string `json:"name"`
	ResourceURL string `json:"resource_url,omitempty"`
}

// Format describes one physical or digital format of a release
type Format struct {
	Quantity     string   `json:"qty"`
	Name         string   `json:"name"`
	Descriptions []string `json:"descriptions"`
	Text         string   `json:"text"`
}

// Image is a release image reference
type Image struct {
	URI    string `json:"uri"`
	Type   string `json:"type"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// RawTrack is a tracklist entry as the catalog returns it
type RawTrack struct {
	Position     string        `json:"position"`
	Type         string        `json:"type_,omitempty"`
	Title        string        `json:"title"`
	Duration     string        `json:"duration"`
	Artist       string        `json:"artist,omitempty"`
	Artists      []Artist      `json:"artists"`
	ExtraArtists []ExtraArtist `json:"extraartists"`
}

// IsHeading reports whether the entry is a section heading rather than a track
func (t RawTrack) IsHeading() bool {
	return t.Type == "heading"
}

// ReleaseMetadata is a release as fetched from the catalog API.
// Every field may be empty.
type ReleaseMetadata struct {
	ID          int           `json:"id"`
	URI         string        `json:"uri"`
	Title       string        `json:"title"`
	ArtistsSort string        `json:"artists_sort"`
	Artists     []Artist      `json:"artists"`
	Labels      []Label       `json:"labels"`
	Country     string        `json:"country"`
	Formats     []Format      `json:"formats"`
	Released    string        `json:"released"`
	Year        int           `json:"year,omitempty"`
	Genres      []string      `json:"genres"`
	Styles      []string      `json:"styles"`
	Notes       string        `json:"notes"`
	Tracklist   []RawTrack    `json:"tracklist"`
	Images      []Image       `json:"images"`
	Extra       []ExtraArtist `json:"extraartists"`
}

// FirstLabel returns the first label credit, or a zero Label
func (r *ReleaseMetadata) FirstLabel() Label {
	if len(r.Labels) == 0 {
		return Label{}
	}
	return r.Labels[0]
}

// FirstFormat returns the first format, or a zero Format
func (r *ReleaseMetadata) FirstFormat() Format {
	if len(r.Formats) == 0 {
		return Format{}
	}
	return r.Formats[0]
}

// FormatDescriptions returns the descriptions of all formats, deduplicated
// in first-seen order
func (r *ReleaseMetadata) FormatDescriptions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range r.Formats {
		for _, d := range f.Descriptions {
			if d == "" || seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// ArtistName returns the release-level artist string: artists_sort when the
// catalog provides it, else the artist names joined by ", "
func (r *ReleaseMetadata) ArtistName() string {
	if s := strings.TrimSpace(r.ArtistsSort); s != "" {
		return s
	}
	return JoinArtistNames(r.Artists)
}

// JoinArtistNames joins non-empty artist names with ", "
func JoinArtistNames(artists []Artist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

// ArtistBio is the extended artist data used to enrich credit lines
type ArtistBio struct {
	Realname string   `json:"realname,omitempty"`
	Members  []string `json:"members,omitempty"`
}

// IsEmpty reports whether the bio carries no enrichment
func (b ArtistBio) IsEmpty() bool {
	return b.Realname == "" && len(b.Members) == 0
}
