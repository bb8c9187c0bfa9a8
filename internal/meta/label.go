package meta

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var labelSuffixes = []string{" records", " recordings"}

// labelAbbreviations maps case-folded label names to the prefixes those
// labels use in their catalog numbers
var labelAbbreviations = map[string][]string{
	"kanzleramt": {"ka"},
	"kompakt":    {"k", "komp"},
	"drumcode":   {"dc"},
	"hospital":   {"nhs"},
	"rephlex":    {"rx"},
	"warp":       {"war"},
	"compound":   {"comp"},
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// NormalizeLabel strips "(N)" disambiguation and one trailing
// " Records"/" Recordings" suffix
func NormalizeLabel(raw string) string {
	if raw == "" {
		return raw
	}

	label := StripDisambiguation(raw)
	for _, suffix := range labelSuffixes {
		if len(label) >= len(suffix) && strings.EqualFold(label[len(label)-len(suffix):], suffix) {
			return strings.TrimSpace(label[:len(label)-len(suffix)])
		}
	}
	return label
}

// LabelVariations returns the strings a label may appear as at the start of
// its catalog numbers, longest first. Ties keep generation order.
func LabelVariations(label string) []string {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}

	words := strings.Fields(label)
	candidates := []string{
		label,
		strings.ReplaceAll(label, " ", ""),
		words[0],
	}
	if len(words) > 1 {
		var initials strings.Builder
		for _, w := range words {
			r, _ := utf8.DecodeRuneInString(w)
			initials.WriteRune(r)
		}
		candidates = append(candidates, initials.String())
	}
	candidates = append(candidates, strings.ToUpper(nonAlphanumeric.ReplaceAllString(label, "")))
	candidates = append(candidates, labelAbbreviations[strings.ToLower(label)]...)

	seen := make(map[string]bool, len(candidates))
	variations := make([]string, 0, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		if utf8.RuneCountInString(c) <= 1 && key != "k" {
			continue
		}
		seen[key] = true
		variations = append(variations, c)
	}

	sort.SliceStable(variations, func(i, j int) bool {
		return utf8.RuneCountInString(variations[i]) > utf8.RuneCountInString(variations[j])
	})
	return variations
}
