package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/franz/album-categorizer/internal/meta"
	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/util"
)

// Pair is a normalized track and the audio file exported for it. File is
// empty when no file was matched.
type Pair struct {
	Index       int // 1-based tracklist index
	Track       release.NormalizedTrack
	File        string
	DisplayName string
}

// Extension returns the lowercased extension of the paired file, or the
// playlist default when unpaired
func (p Pair) Extension() string {
	if p.File == "" {
		return meta.DefaultAudioExtension
	}
	return strings.ToLower(filepath.Ext(p.File))
}

// FileName returns the exported file name
func (p Pair) FileName() string {
	return p.DisplayName + p.Extension()
}

// PairFiles matches files to tracks. Explicit mappings (1-based track index
// to file) win, then the track number parsed from each file name, then the
// remaining files in sorted order. Every track yields exactly one Pair.
func PairFiles(tracks []release.NormalizedTrack, files []string, explicit map[int]string) ([]Pair, error) {
	pairs := make([]Pair, len(tracks))
	for i, t := range tracks {
		pairs[i] = Pair{
			Index:       i + 1,
			Track:       t,
			DisplayName: meta.SanitizeFilename(meta.TrackDisplayName(t)),
		}
	}

	used := make(map[string]bool)

	idx := make([]int, 0, len(explicit))
	for i := range explicit {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for _, i := range idx {
		file := explicit[i]
		if i < 1 || i > len(tracks) {
			return nil, fmt.Errorf("track %d out of range 1-%d: %w", i, len(tracks), util.ErrInvalidConfig)
		}
		if used[file] {
			return nil, fmt.Errorf("file %s mapped twice: %w", file, util.ErrConflict)
		}
		pairs[i-1].File = file
		used[file] = true
	}

	remaining := make([]string, 0, len(files))
	for _, f := range files {
		if !used[f] {
			remaining = append(remaining, f)
		}
	}
	sort.Strings(remaining)

	var unmatched []string
	for _, f := range remaining {
		i := matchTrack(pairs, ParseFilename(f))
		if i < 0 {
			unmatched = append(unmatched, f)
			continue
		}
		util.DebugLog("Paired %s with track %s by file name", filepath.Base(f), pairs[i].Track.Position)
		pairs[i].File = f
	}

	for _, f := range unmatched {
		i := firstUnpaired(pairs)
		if i < 0 {
			util.WarnLog("No track left for %s, skipping", filepath.Base(f))
			continue
		}
		util.DebugLog("Paired %s with track %s by order", filepath.Base(f), pairs[i].Track.Position)
		pairs[i].File = f
	}

	return pairs, nil
}

// matchTrack returns the index of the unpaired track the hint points at, or -1
func matchTrack(pairs []Pair, hint *FileHint) int {
	if hint.Track <= 0 {
		return -1
	}

	match := func(ok func(release.NormalizedTrack) bool) int {
		found := -1
		for i, p := range pairs {
			if p.File != "" || !ok(p.Track) {
				continue
			}
			if found >= 0 {
				return -1 // ambiguous
			}
			found = i
		}
		return found
	}

	trackNum := func(t release.NormalizedTrack) int {
		n, err := strconv.Atoi(t.TrackNumber)
		if err != nil {
			return -1
		}
		return n
	}

	switch {
	case hint.Side != "":
		pos := fmt.Sprintf("%s%d", hint.Side, hint.Track)
		return match(func(t release.NormalizedTrack) bool {
			return strings.EqualFold(t.Position, pos)
		})
	case hint.Disc > 0:
		disc := strconv.Itoa(hint.Disc)
		return match(func(t release.NormalizedTrack) bool {
			return t.DiscNumber == disc && trackNum(t) == hint.Track
		})
	}

	if i := match(func(t release.NormalizedTrack) bool {
		return t.Position == fmt.Sprintf("%02d", hint.Track)
	}); i >= 0 {
		return i
	}

	// Sequential numbering across sides or discs
	if hint.Track <= len(pairs) && pairs[hint.Track-1].File == "" {
		return hint.Track - 1
	}
	return -1
}

func firstUnpaired(pairs []Pair) int {
	for i, p := range pairs {
		if p.File == "" {
			return i
		}
	}
	return -1
}
