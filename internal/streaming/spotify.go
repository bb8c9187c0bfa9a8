// Package streaming looks releases up on streaming services.
package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/franz/album-categorizer/internal/util"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// SpotifyTokenURL is the client-credentials token endpoint
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"

	// SpotifyAPIURL is the Web API base URL
	SpotifyAPIURL = "https://api.spotify.com/v1"

	// DefaultMarket is the market search results are restricted to
	DefaultMarket = "HU"

	// DefaultSearchLimit is the number of albums a search returns
	DefaultSearchLimit = 5
)

// SpotifyConfig holds Spotify client configuration
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	Market       string
	TokenURL     string // default SpotifyTokenURL
	APIURL       string // default SpotifyAPIURL
	Timeout      time.Duration
}

// Spotify searches the Spotify catalog using an app token
type Spotify struct {
	httpClient *http.Client
	apiURL     string
	market     string
}

// Album is a Spotify album, as shown next to a release
type Album struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Artists      []Artist `json:"artists"`
	ReleaseDate  string   `json:"release_date"`
	TotalTracks  int      `json:"total_tracks"`
	Label        string   `json:"label"`
	Images       []Image  `json:"images"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// Artist is an album artist
type Artist struct {
	Name string `json:"name"`
}

// Image is an album cover
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ArtistNames joins the album's artist names with ", "
func (a Album) ArtistNames() string {
	names := make([]string, 0, len(a.Artists))
	for _, ar := range a.Artists {
		names = append(names, ar.Name)
	}
	return strings.Join(names, ", ")
}

// URL returns the album's open.spotify.com link
func (a Album) URL() string {
	return a.ExternalURLs.Spotify
}

// NewSpotify creates a Spotify client. Both credentials are required.
func NewSpotify(cfg *SpotifyConfig) (*Spotify, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client id and secret are required: %w", util.ErrInvalidConfig)
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = SpotifyTokenURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = SpotifyAPIURL
	}
	if cfg.Market == "" {
		cfg.Market = DefaultMarket
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = cfg.Timeout

	return &Spotify{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		market:     cfg.Market,
	}, nil
}

// SearchQuery builds the field-filtered album query for a release
func SearchQuery(artist, title string) string {
	return fmt.Sprintf("artist:%s album:%s", artist, title)
}

// SearchAlbum searches for albums matching the artist and title and returns
// the full album objects, which carry the label
func (s *Spotify) SearchAlbum(ctx context.Context, artist, title string) ([]Album, error) {
	params := url.Values{}
	params.Set("q", SearchQuery(artist, title))
	params.Set("type", "album")
	params.Set("limit", fmt.Sprintf("%d", DefaultSearchLimit))
	params.Set("market", s.market)

	var search struct {
		Albums struct {
			Items []Album `json:"items"`
		} `json:"albums"`
	}
	if err := s.get(ctx, s.apiURL+"/search?"+params.Encode(), &search); err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}

	items := search.Albums.Items
	if len(items) == 0 {
		return nil, fmt.Errorf("no albums found: %w", util.ErrNotFound)
	}

	albums := make([]Album, 0, len(items))
	for _, item := range items {
		var full Album
		if err := s.get(ctx, s.apiURL+"/albums/"+url.PathEscape(item.ID), &full); err != nil {
			util.DebugLog("Spotify album %s details unavailable: %v", item.ID, err)
			albums = append(albums, item)
			continue
		}
		albums = append(albums, full)
	}
	return albums, nil
}

func (s *Spotify) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	util.DebugLog("GET %s", rawURL)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		var tokenErr *oauth2.RetrieveError
		if errors.As(err, &tokenErr) {
			return fmt.Errorf("token request failed: %v: %w", tokenErr, util.ErrAuthRequired)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("status %d: %w", resp.StatusCode, util.ErrAuthRequired)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("status %d: %w", resp.StatusCode, util.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), util.ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
