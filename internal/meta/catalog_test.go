package meta

import "testing"

func TestNormalizeCatalog(t *testing.T) {
	tests := []struct {
		name     string
		catalog  string
		label    string
		expected string
	}{
		{"label prefix with space", "KOMPAKT 123", "Kompakt", "123"},
		{"format specifier", "WARLP123", "Warp", "LP 123"},
		{"format specifier with space", "WARP EP 7", "Warp", "EP 7"},
		{"digit fallback", "XYZ-007", "Global Underground", "007"},
		{"label prefix with separator", "DRUMCODE-123", "Drumcode", "123"},
		{"abbreviation", "DC123", "Drumcode", "123"},
		{"initials", "GU 040CD", "Global Underground", "040CD"},
		{"single letter abbreviation", "K 001", "Kompakt", "001"},
		{"lowercase prefix", "kompakt 99", "Kompakt", "99"},
		{"leading whitespace", "  KOMPAKT 5", "Kompakt", "5"},
		{"fallback keeps suffix", "ABC 12 CD1", "Warp", "12 CD1"},
		{"no digits", "NONUMBER", "Warp", "NONUMBER"},
		{"empty catalog", "", "Warp", ""},
		{"empty label", "WARP123", "", "WARP123"},
		{"prefix only", "WARP", "Warp", "WARP"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeCatalog(tc.catalog, tc.label)
			if result != tc.expected {
				t.Errorf("NormalizeCatalog(%q, %q) = %q, expected %q", tc.catalog, tc.label, result, tc.expected)
			}
		})
	}
}

func TestExtractNumberPart(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"XYZ-007", "007"},
		{"CAT 12A ", "12A"},
		{"none", "none"},
		{"", ""},
	}

	for _, tt := range tests {
		result := extractNumberPart(tt.input)
		if result != tt.expected {
			t.Errorf("extractNumberPart(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}
