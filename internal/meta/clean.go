package meta

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// disambiguationPattern matches catalog disambiguation suffixes like "(3)"
var disambiguationPattern = regexp.MustCompile(`\s*\(\d+\)\s*`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanString NFC-normalizes s and trims surrounding whitespace.
// Inner spacing is left alone.
func CleanString(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(norm.NFC.String(s))
}

// StripDisambiguation removes every "(N)" parenthetical and trims the result.
// A parenthetical between two words leaves a single space behind.
func StripDisambiguation(s string) string {
	if s == "" {
		return ""
	}

	matches := disambiguationPattern.FindAllStringIndex(s, -1)
	if matches == nil {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		if m[0] > 0 && m[1] < len(s) && isWordByte(s[m[1]]) {
			b.WriteByte(' ')
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return strings.TrimSpace(b.String())
}

func isWordByte(c byte) bool {
	return c >= 0x80 || c == '(' || c == '[' || c == '&' ||
		(c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// collapseWhitespace replaces runs of whitespace with a single space
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// hasDescription reports whether want is among descriptions, ignoring case
func hasDescription(descriptions []string, want string) bool {
	for _, d := range descriptions {
		if strings.EqualFold(strings.TrimSpace(d), want) {
			return true
		}
	}
	return false
}

// trimPrefixFold removes prefix from s comparing case-insensitively.
// It returns the rest of s and whether the prefix matched.
func trimPrefixFold(s, prefix string) (string, bool) {
	rest := s
	for _, pr := range prefix {
		if rest == "" {
			return s, false
		}
		r, size := utf8.DecodeRuneInString(rest)
		if !strings.EqualFold(string(r), string(pr)) {
			return s, false
		}
		rest = rest[size:]
	}
	return rest, true
}

var filenameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", " -",
	"*", "",
	"?", "",
	"\"", "'",
	"<", "",
	">", "",
	"|", "-",
)

// SanitizeFilename makes a display string safe to use as a file or folder name
func SanitizeFilename(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFC.String(s)
	s = filenameReplacer.Replace(s)
	s = collapseWhitespace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	// trailing dots break paths on Windows
	return strings.Trim(s, " .")
}
