package discogs

import "github.com/franz/album-categorizer/internal/release"

// ArtistDetail is the artist resource returned by /artists/{id}
type ArtistDetail struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Realname string      `json:"realname"`
	Profile  string      `json:"profile"`
	Members  []ArtistRef `json:"members"`
	Groups   []ArtistRef `json:"groups"`
}

// ArtistRef is a reference to another artist (band member or group)
type ArtistRef struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ResourceURL string `json:"resource_url"`
	Active      bool   `json:"active"`
}

// Bio returns the parts of the artist used for credit enrichment
func (d *ArtistDetail) Bio() *release.ArtistBio {
	bio := &release.ArtistBio{Realname: d.Realname}
	for _, m := range d.Members {
		if m.Name != "" {
			bio.Members = append(bio.Members, m.Name)
		}
	}
	return bio
}
