package meta

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultTrackSeconds is the EXTINF duration used when a track has none
	DefaultTrackSeconds = 123

	// DefaultAudioExtension is used for playlist entries without a paired file
	DefaultAudioExtension = ".mp3"
)

// PlaylistEntry is one M3U entry
type PlaylistEntry struct {
	DisplayName string
	Duration    string
	Extension   string
}

// DurationSeconds parses "MM:SS" into seconds, DefaultTrackSeconds otherwise
func DurationSeconds(duration string) int {
	mm, ss, ok := strings.Cut(strings.TrimSpace(duration), ":")
	if !ok {
		return DefaultTrackSeconds
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 {
		return DefaultTrackSeconds
	}
	s, err := strconv.Atoi(ss)
	if err != nil || s < 0 {
		return DefaultTrackSeconds
	}
	return m*60 + s
}

// RenderM3U renders an extended M3U playlist
func RenderM3U(entries []PlaylistEntry) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n\n")
	for _, e := range entries {
		ext := e.Extension
		if ext == "" {
			ext = DefaultAudioExtension
		}
		fmt.Fprintf(&b, "#EXTINF:%d, %s\n%s%s\n\n", DurationSeconds(e.Duration), e.DisplayName, e.DisplayName, ext)
	}
	return b.String()
}
