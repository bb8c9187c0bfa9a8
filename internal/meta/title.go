package meta

import "strings"

// NormalizeTitle returns the folder-name form of a release title.
//
// Colons become " -". A mixed release with a known artist gets
// " ({artist})"; otherwise an "EP" or "LP" description appends that suffix
// unless the title already ends with it. Pass an empty artist when none is
// known.
func NormalizeTitle(raw string, descriptions []string, artist string) string {
	if raw == "" {
		return raw
	}

	title := strings.ReplaceAll(raw, ":", " -")
	if len(descriptions) == 0 {
		return title
	}

	if isMixed(descriptions) && artist != "" {
		return title + " (" + artist + ")"
	}

	upper := strings.ToUpper(title)
	switch {
	case hasDescription(descriptions, "EP") && !strings.HasSuffix(upper, "EP"):
		return title + " EP"
	case hasDescription(descriptions, "LP") && !strings.HasSuffix(upper, "LP"):
		return title + " LP"
	}
	return title
}
