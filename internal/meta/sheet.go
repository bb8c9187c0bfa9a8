package meta

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/franz/album-categorizer/internal/release"
)

const (
	sheetValueColumn = 11
	durationGap      = 4
)

// InfoSheet is the album-level info sheet together with the credit line it
// was composed from. The credit line is reused as the tag comment.
type InfoSheet struct {
	Fields     release.InfoSheetFields
	CreditLine string
}

// BuildInfoSheet derives the info-sheet fields from a release. sourceURL is
// the URL the release was fetched from; the release URI is used when empty.
func BuildInfoSheet(ctx context.Context, rel *release.ReleaseMetadata, sourceURL string, bios BioSource) InfoSheet {
	descriptions := rel.FormatDescriptions()
	label := rel.FirstLabel()
	format := rel.FirstFormat()
	creditLine := BuildCreditLine(ctx, rel.Artists, descriptions, bios)

	if sourceURL == "" {
		sourceURL = rel.URI
	}

	return InfoSheet{
		Fields: release.InfoSheetFields{
			Artist:          NormalizeArtistLong(CleanString(rel.ArtistName())),
			Title:           CleanString(rel.Title),
			Label:           StripDisambiguation(CleanString(label.Name)),
			CatalogNumber:   CleanString(label.CatalogNumber),
			Format:          FormatFormat(format.Quantity, format.Name, format.Descriptions, format.Text),
			Country:         CleanString(rel.Country),
			Released:        CleanString(rel.Released),
			Style:           strings.Join(rel.Styles, ", "),
			NotesWithCredit: ComposeNotes(CleanString(rel.Notes), creditLine),
			ShortURL:        ShortenReleaseURL(sourceURL),
		},
		CreditLine: creditLine,
	}
}

// RenderInfoSheet lays out the info sheet as plain text. Track durations
// line up four columns past the longest track line.
func RenderInfoSheet(fields release.InfoSheetFields, tracks []release.NormalizedTrack) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - %s\n\n", fields.Artist, fields.Title)

	writeRow(&b, "Label:", fields.Label)
	writeRow(&b, "Catalog#:", fields.CatalogNumber)
	writeRow(&b, "Format:", fields.Format)
	writeRow(&b, "Country:", fields.Country)
	writeRow(&b, "Released:", fields.Released)
	writeRow(&b, "Style:", fields.Style)
	writeRow(&b, "Discogs:", fields.ShortURL)
	if fields.NotesWithCredit != "" {
		writeRow(&b, "Notes:", fields.NotesWithCredit)
	}

	b.WriteString("\nTracklist:\n")

	lines := make([]string, len(tracks))
	maxLen := 0
	for i, t := range tracks {
		lines[i] = TrackDisplayName(t)
		if n := utf8.RuneCountInString(lines[i]); n > maxLen {
			maxLen = n
		}
	}

	for i, t := range tracks {
		b.WriteString(lines[i])
		if t.Duration != "" {
			pad := maxLen + durationGap - utf8.RuneCountInString(lines[i])
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(t.Duration)
		}
		b.WriteString("\n")
		for _, c := range t.ExtraArtists {
			fmt.Fprintf(&b, "    %s - %s\n", c.Role, c.Name)
		}
	}

	return b.String()
}

// writeRow writes "Label:     value"; continuation lines are indented to
// the value column
func writeRow(b *strings.Builder, label, value string) {
	indent := strings.Repeat(" ", sheetValueColumn)
	for i, line := range strings.Split(value, "\n") {
		if i == 0 {
			fmt.Fprintf(b, "%-*s%s\n", sheetValueColumn, label, line)
			continue
		}
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
}
