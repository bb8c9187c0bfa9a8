package meta

import "testing"

func TestNormalizeArtist(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		descriptions []string
		expected     string
	}{
		{"various artists", "Various Artists", nil, "VA"},
		{"mixed compilation", "Anyone", []string{"Mixed"}, "VA"},
		{"mixed lowercase", "Anyone", []string{"Compilation", "mixed"}, "VA"},
		{"v/a spelling", "V/A", nil, "VA"},
		{"various", "various", nil, "VA"},
		{"disambiguation", "Adam Beyer (2)", nil, "Adam Beyer"},
		{"plain", "Adam Beyer", []string{"EP"}, "Adam Beyer"},
		{"empty", "", []string{"Mixed"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeArtist(tc.input, tc.descriptions)
			if result != tc.expected {
				t.Errorf("NormalizeArtist(%q, %q) = %q, expected %q", tc.input, tc.descriptions, result, tc.expected)
			}
		})
	}
}

func TestNormalizeArtistLong(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Various", "Various Artists"},
		{"VA", "Various Artists"},
		{"Surgeon (3)", "Surgeon"},
		{"Surgeon", "Surgeon"},
		{"", ""},
	}

	for _, tt := range tests {
		result := NormalizeArtistLong(tt.input)
		if result != tt.expected {
			t.Errorf("NormalizeArtistLong(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		descriptions []string
		artist       string
		expected     string
	}{
		{"colon", "Album: Part Two", nil, "", "Album - Part Two"},
		{"mixed with artist", "Session", []string{"Mixed"}, "DJ X", "Session (DJ X)"},
		{"mixed without artist", "Session", []string{"Mixed", "LP"}, "", "Session LP"},
		{"mixed wins over EP", "Session", []string{"EP", "Mixed"}, "DJ X", "Session (DJ X)"},
		{"EP suffix", "Untitled", []string{"EP"}, "", "Untitled EP"},
		{"EP already present", "Untitled EP", []string{"EP"}, "", "Untitled EP"},
		{"EP case insensitive", "Untitled ep", []string{"ep"}, "", "Untitled ep"},
		{"LP suffix", "Album", []string{"LP", "Album"}, "", "Album LP"},
		{"EP preferred over LP", "Album", []string{"LP", "EP"}, "", "Album EP"},
		{"no suffix descriptions", "Album", []string{"Album"}, "", "Album"},
		{"colon then suffix", "Stormbringer: Remixes", []string{"EP"}, "", "Stormbringer - Remixes EP"},
		{"empty", "", []string{"EP"}, "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeTitle(tc.input, tc.descriptions, tc.artist)
			if result != tc.expected {
				t.Errorf("NormalizeTitle(%q, %q, %q) = %q, expected %q", tc.input, tc.descriptions, tc.artist, result, tc.expected)
			}
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	for _, desc := range []string{"EP", "LP"} {
		once := NormalizeTitle("Untitled", []string{desc}, "")
		twice := NormalizeTitle(once, []string{desc}, "")
		if once != twice {
			t.Errorf("NormalizeTitle not idempotent for %s: %q then %q", desc, once, twice)
		}
	}
}
