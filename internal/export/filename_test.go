package export

import (
	"testing"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		path           string
		expectedSide   string
		expectedDisc   int
		expectedTrack  int
		expectedTitle  string
		expectedArtist string
		minConfidence  float64
	}{
		{
			path:           "/music/Album/01 - Adam Beyer - Stormbringer.mp3",
			expectedTrack:  1,
			expectedTitle:  "Stormbringer",
			expectedArtist: "Adam Beyer",
			minConfidence:  0.7,
		},
		{
			path:          "/music/Album/01 - Title.flac",
			expectedTrack: 1,
			expectedTitle: "Title",
			minConfidence: 0.6,
		},
		{
			path:          "/music/Album/07 Title.flac",
			expectedTrack: 7,
			expectedTitle: "Title",
			minConfidence: 0.6,
		},
		{
			path:          "/music/01.Some_Title.mp3",
			expectedTrack: 1,
			expectedTitle: "Some Title",
			minConfidence: 0.6,
		},
		{
			path:          "/music/B2 - Flip Side.mp3",
			expectedSide:  "B",
			expectedTrack: 2,
			expectedTitle: "Flip Side",
			minConfidence: 0.7,
		},
		{
			path:          "/music/2-03 Second Disc.mp3",
			expectedDisc:  2,
			expectedTrack: 3,
			expectedTitle: "Second Disc",
			minConfidence: 0.7,
		},
		{
			path:          "/music/Album/CD2/04 - Title.mp3",
			expectedDisc:  2,
			expectedTrack: 4,
			expectedTitle: "Title",
			minConfidence: 0.6,
		},
		{
			path:           "/music/Artist - Title.mp3",
			expectedTitle:  "Title",
			expectedArtist: "Artist",
			minConfidence:  0.4,
		},
		{
			path:          "/music/Random Song.mp3",
			expectedTitle: "Random Song",
			minConfidence: 0.1,
		},
	}

	for _, tt := range tests {
		result := ParseFilename(tt.path)

		if result.Side != tt.expectedSide {
			t.Errorf("ParseFilename(%q).Side = %q, expected %q", tt.path, result.Side, tt.expectedSide)
		}
		if result.Disc != tt.expectedDisc {
			t.Errorf("ParseFilename(%q).Disc = %d, expected %d", tt.path, result.Disc, tt.expectedDisc)
		}
		if result.Track != tt.expectedTrack {
			t.Errorf("ParseFilename(%q).Track = %d, expected %d", tt.path, result.Track, tt.expectedTrack)
		}
		if result.Title != tt.expectedTitle {
			t.Errorf("ParseFilename(%q).Title = %q, expected %q", tt.path, result.Title, tt.expectedTitle)
		}
		if tt.expectedArtist != "" && result.Artist != tt.expectedArtist {
			t.Errorf("ParseFilename(%q).Artist = %q, expected %q", tt.path, result.Artist, tt.expectedArtist)
		}
		if result.Confidence < tt.minConfidence {
			t.Errorf("ParseFilename(%q).Confidence = %f, expected >= %f", tt.path, result.Confidence, tt.minConfidence)
		}
	}
}
