package meta

import "testing"

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"6:45", 405},
		{"00:30", 30},
		{" 1:05 ", 65},
		{"", DefaultTrackSeconds},
		{"abc", DefaultTrackSeconds},
		{"1:02:03", DefaultTrackSeconds},
		{"5:xx", DefaultTrackSeconds},
	}

	for _, tt := range tests {
		result := DurationSeconds(tt.input)
		if result != tt.expected {
			t.Errorf("DurationSeconds(%q) = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

func TestRenderM3U(t *testing.T) {
	entries := []PlaylistEntry{
		{DisplayName: "01. Adam Beyer - Stormbringer", Duration: "6:45", Extension: ".flac"},
		{DisplayName: "02. Adam Beyer - Ignition Key"},
	}

	expected := "#EXTM3U\n\n" +
		"#EXTINF:405, 01. Adam Beyer - Stormbringer\n01. Adam Beyer - Stormbringer.flac\n\n" +
		"#EXTINF:123, 02. Adam Beyer - Ignition Key\n02. Adam Beyer - Ignition Key.mp3\n\n"

	if got := RenderM3U(entries); got != expected {
		t.Errorf("RenderM3U() = %q, expected %q", got, expected)
	}
}

func TestRenderM3UEmpty(t *testing.T) {
	if got := RenderM3U(nil); got != "#EXTM3U\n\n" {
		t.Errorf("RenderM3U(nil) = %q", got)
	}
}
