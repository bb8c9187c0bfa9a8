package export

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// FileHint holds what a file's name and folder say about its track
type FileHint struct {
	Side       string // vinyl side letter, "" when absent
	Disc       int
	Track      int
	Artist     string
	Title      string
	Confidence float64 // 0.0-1.0 how confident we are in the parse
}

var filenamePatterns = []struct {
	re         *regexp.Regexp
	parse      func(*FileHint, []string)
	confidence float64
}{
	{
		// "A1 - Title.mp3", "b2. Title.flac"
		re: regexp.MustCompile(`^([A-Da-d])(\d{1,2})\s*[-_.]\s*(.+)$`),
		parse: func(h *FileHint, m []string) {
			h.Side = strings.ToUpper(m[1])
			h.Track, _ = strconv.Atoi(m[2])
			h.Title = strings.TrimSpace(m[3])
		},
		confidence: 0.8,
	},
	{
		// "1-03 Title.mp3", "2-01 - Title.mp3"
		re: regexp.MustCompile(`^(\d)-(\d{1,3})\s*[-_.]?\s*(.+)$`),
		parse: func(h *FileHint, m []string) {
			h.Disc, _ = strconv.Atoi(m[1])
			h.Track, _ = strconv.Atoi(m[2])
			h.Title = strings.TrimSpace(m[3])
		},
		confidence: 0.8,
	},
	{
		// "01 - Artist - Title.mp3"
		re: regexp.MustCompile(`^(\d+)\s*[-_.]\s*(.+?)\s+-\s+(.+)$`),
		parse: func(h *FileHint, m []string) {
			h.Track, _ = strconv.Atoi(m[1])
			h.Artist = strings.TrimSpace(m[2])
			h.Title = strings.TrimSpace(m[3])
		},
		confidence: 0.8,
	},
	{
		// "01 - Title.mp3", "01. Title.mp3", "01 Title.mp3"
		re: regexp.MustCompile(`^(\d+)\s*[-_.]?\s+(.+)$|^(\d+)[-_.](.+)$`),
		parse: func(h *FileHint, m []string) {
			num, title := m[1], m[2]
			if num == "" {
				num, title = m[3], m[4]
			}
			h.Track, _ = strconv.Atoi(num)
			h.Title = strings.ReplaceAll(strings.TrimSpace(title), "_", " ")
		},
		confidence: 0.7,
	},
	{
		// "Artist - Title.mp3"
		re: regexp.MustCompile(`^(.+?)\s+-\s+(.+)$`),
		parse: func(h *FileHint, m []string) {
			h.Artist = strings.TrimSpace(m[1])
			h.Title = strings.TrimSpace(m[2])
		},
		confidence: 0.5,
	},
}

var discDirPattern = regexp.MustCompile(`^(?i)(?:disc|cd|disk)\s*(\d+)$`)

// ParseFilename extracts track hints from a file path
func ParseFilename(path string) *FileHint {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	hint := &FileHint{Confidence: 0.2}

	for _, p := range filenamePatterns {
		if matches := p.re.FindStringSubmatch(name); matches != nil {
			p.parse(hint, matches)
			hint.Confidence = p.confidence
			break
		}
	}

	if hint.Title == "" {
		hint.Title = name
	}

	// "Album/CD2/01 Title.flac"
	if hint.Disc == 0 && hint.Side == "" {
		if m := discDirPattern.FindStringSubmatch(filepath.Base(filepath.Dir(path))); m != nil {
			hint.Disc, _ = strconv.Atoi(m[1])
		}
	}

	return hint
}
