package meta

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/util"
)

const defaultDiscNumber = "1"

var discLetters = map[rune]string{
	'A': "1",
	'B': "2",
	'C': "3",
	'D': "4",
}

// TrackPosition is a parsed tracklist position
type TrackPosition struct {
	Position    string
	DiscNumber  string
	TrackNumber string
}

// NormalizeTrackPosition parses a catalog position such as "3", "A", "B2"
// or "CD1-2". Shapes it cannot map keep the raw position and disc 1.
func NormalizeTrackPosition(raw string) TrackPosition {
	raw = strings.TrimSpace(raw)
	pos := TrackPosition{Position: raw, DiscNumber: defaultDiscNumber}
	if raw == "" {
		return pos
	}

	if isDigits(raw) {
		n, err := strconv.Atoi(raw)
		if err == nil {
			pos.Position = fmt.Sprintf("%02d", n)
		}
		pos.TrackNumber = raw
		return pos
	}

	first, size := utf8.DecodeRuneInString(raw)
	disc, mapped := discLetters[unicode.ToUpper(first)]

	if size == len(raw) && unicode.IsLetter(first) {
		pos.Position = raw + "1"
		if mapped {
			pos.DiscNumber = disc
			pos.TrackNumber = "1"
		} else {
			util.DebugLog("Unmapped side letter in position %q, using disc %s", raw, defaultDiscNumber)
		}
		return pos
	}

	if mapped && isDigits(raw[size:]) {
		pos.DiscNumber = disc
		pos.TrackNumber = raw[size:]
		return pos
	}

	util.DebugLog("Unrecognized track position %q, using disc %s", raw, defaultDiscNumber)
	pos.TrackNumber = digitsOnly(raw)
	return pos
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isASCIIDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeTrackArtist applies the info-sheet artist rules to a track artist
func NormalizeTrackArtist(raw string) string {
	return NormalizeArtistLong(strings.TrimSpace(raw))
}

// NormalizeTrackTitle strips disambiguation from a track title
func NormalizeTrackTitle(raw string) string {
	return StripDisambiguation(strings.TrimSpace(raw))
}

// NormalizeTrackDuration trims a track duration
func NormalizeTrackDuration(raw string) string {
	return strings.TrimSpace(raw)
}

// NormalizeExtraArtists keeps credits that have both a role and a name.
// "Remix" credits are enriched through bios when a resource URL is known.
func NormalizeExtraArtists(ctx context.Context, raw []release.ExtraArtist, bios BioSource) []release.Credit {
	credits := make([]release.Credit, 0, len(raw))
	for _, ea := range raw {
		role := strings.TrimSpace(ea.Role)
		name := StripDisambiguation(strings.TrimSpace(ea.Name))
		if role == "" || name == "" {
			continue
		}
		if role == "Remix" {
			name = creditName(ctx, name, ea.ResourceURL, bios)
		}
		credits = append(credits, release.Credit{Role: role, Name: name})
	}
	return credits
}

// NormalizeTrack maps a raw track to its normalized form. The track artist
// falls back to the raw artist field, then to albumArtist.
func NormalizeTrack(ctx context.Context, raw release.RawTrack, albumArtist string, bios BioSource) release.NormalizedTrack {
	artist := release.JoinArtistNames(raw.Artists)
	if artist == "" {
		artist = raw.Artist
	}
	if strings.TrimSpace(artist) == "" {
		artist = albumArtist
	}

	pos := NormalizeTrackPosition(raw.Position)
	return release.NormalizedTrack{
		Position:     pos.Position,
		DiscNumber:   pos.DiscNumber,
		TrackNumber:  pos.TrackNumber,
		Artist:       NormalizeTrackArtist(artist),
		Title:        NormalizeTrackTitle(raw.Title),
		Duration:     NormalizeTrackDuration(raw.Duration),
		ExtraArtists: NormalizeExtraArtists(ctx, raw.ExtraArtists, bios),
	}
}

// NormalizeTracklist normalizes every track, skipping section headings
func NormalizeTracklist(ctx context.Context, raw []release.RawTrack, albumArtist string, bios BioSource) []release.NormalizedTrack {
	tracks := make([]release.NormalizedTrack, 0, len(raw))
	for _, t := range raw {
		if t.IsHeading() {
			continue
		}
		tracks = append(tracks, NormalizeTrack(ctx, t, albumArtist, bios))
	}
	return tracks
}

// TrackDisplayName returns "{position}. {artist} - {title}", or
// "{position}. {title}" when the track has no artist
func TrackDisplayName(t release.NormalizedTrack) string {
	if t.Artist == "" {
		return fmt.Sprintf("%s. %s", t.Position, t.Title)
	}
	return fmt.Sprintf("%s. %s - %s", t.Position, t.Artist, t.Title)
}
