package meta

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	formatNumberPattern = regexp.MustCompile(`(?i)^(LP|EP)\s*(\d.*)$`)
	firstDigitPattern   = regexp.MustCompile(`\d`)
)

// NormalizeCatalog removes the label prefix from a catalog number.
//
// Label variations are tried longest first. A remainder starting with a
// digit or separator is returned without leading separators; a remainder
// like "LP123" becomes "LP 123". When no variation applies the catalog
// number is cut at its first digit. Catalog numbers without digits are
// returned unchanged.
func NormalizeCatalog(raw, label string) string {
	if raw == "" || label == "" {
		return raw
	}

	catalog := strings.TrimLeftFunc(raw, unicode.IsSpace)
	for _, variation := range LabelVariations(label) {
		rest, ok := trimPrefixFold(catalog, variation)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}

		if c := rest[0]; (c >= '0' && c <= '9') || c == '-' || c == '_' {
			if trimmed := strings.TrimLeft(rest, "-_ \t"); trimmed != "" {
				return trimmed
			}
			continue
		}

		if m := formatNumberPattern.FindStringSubmatch(rest); m != nil {
			return strings.ToUpper(m[1]) + " " + strings.TrimSpace(m[2])
		}
	}

	return extractNumberPart(raw)
}

// extractNumberPart returns raw from its first digit on, or raw itself
func extractNumberPart(raw string) string {
	loc := firstDigitPattern.FindStringIndex(raw)
	if loc == nil {
		return raw
	}
	return strings.TrimRightFunc(raw[loc[0]:], unicode.IsSpace)
}
