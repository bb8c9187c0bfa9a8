package meta

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/franz/album-categorizer/internal/release"
)

// BioSource supplies extended artist data for credit enrichment.
// Implementations never fail: a lookup that cannot be served yields an
// empty ArtistBio.
type BioSource interface {
	ArtistBio(ctx context.Context, resourceURL string) release.ArtistBio
}

var bbcodeLinkPattern = regexp.MustCompile(`(?s)\[url=.*?\](.*?)\[/url\]`)

const defaultReleaseHost = "www.discogs.com"

// FormatFormat composes a format string like "2xFile, FLAC, EP"
func FormatFormat(qty, name string, descriptions []string, text string) string {
	if name == "" {
		return ""
	}

	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil {
		n = 1
	}

	var b strings.Builder
	if n > 1 {
		fmt.Fprintf(&b, "%dx", n)
	}
	b.WriteString(name)
	if len(descriptions) > 0 {
		b.WriteString(", ")
		b.WriteString(strings.Join(descriptions, ", "))
	}
	if text != "" {
		b.WriteString(", ")
		b.WriteString(text)
	}
	return b.String()
}

// BuildCreditLine returns "Mixed by X." or "Written & produced by X.".
// Each artist is enriched through bios when one is given; an empty string
// is returned when there are no artists.
func BuildCreditLine(ctx context.Context, artists []release.Artist, descriptions []string, bios BioSource) string {
	rendered := make([]string, 0, len(artists))
	for _, a := range artists {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		if IsVariousArtists(name) {
			rendered = append(rendered, VariousArtistsLong)
			continue
		}
		rendered = append(rendered, creditName(ctx, StripDisambiguation(name), a.ResourceURL, bios))
	}
	if len(rendered) == 0 {
		return ""
	}

	joined := strings.Join(rendered, ", ")
	if IsVariousArtists(joined) {
		joined = VariousArtistsLong
	}

	prefix := "Written & produced by "
	if isMixed(descriptions) {
		prefix = "Mixed by "
	}
	return prefix + joined + "."
}

// creditName renders "name (realname)" or "name (member, member)" when the
// artist bio has something to add
func creditName(ctx context.Context, name, resourceURL string, bios BioSource) string {
	if bios == nil || resourceURL == "" {
		return name
	}

	bio := bios.ArtistBio(ctx, resourceURL)
	if bio.Realname != "" && bio.Realname != name {
		return fmt.Sprintf("%s (%s)", name, bio.Realname)
	}

	members := make([]string, 0, len(bio.Members))
	for _, m := range bio.Members {
		if m = StripDisambiguation(m); m != "" {
			members = append(members, m)
		}
	}
	if len(members) > 0 {
		return fmt.Sprintf("%s (%s)", name, strings.Join(members, ", "))
	}
	return name
}

// StripBBCodeLinks replaces "[url=...]label[/url]" with label
func StripBBCodeLinks(text string) string {
	if text == "" {
		return ""
	}
	return bbcodeLinkPattern.ReplaceAllString(text, "$1")
}

// ComposeNotes prepends the credit line to the cleaned release notes
func ComposeNotes(rawNotes, creditLine string) string {
	notes := strings.TrimSpace(StripBBCodeLinks(rawNotes))
	switch {
	case notes == "":
		return creditLine
	case creditLine == "":
		return notes
	}
	return creditLine + "\n" + notes
}

// ShortenReleaseURL reduces a release URL to "https://<host>/release/{id}".
// URLs without a numeric id after "/release/" are returned unchanged.
func ShortenReleaseURL(rawURL string) string {
	parts := strings.Split(rawURL, "/release/")
	if len(parts) != 2 {
		return rawURL
	}

	id, _, _ := strings.Cut(parts[1], "-")
	if id == "" || strings.TrimFunc(id, isASCIIDigit) != "" {
		return rawURL
	}

	host := defaultReleaseHost
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("https://%s/release/%s", host, id)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
