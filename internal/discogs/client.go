package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/util"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Discogs API base URL
	BaseURL = "https://api.discogs.com"

	// UserAgent identifies this application to Discogs
	UserAgent = "AlbumCategorizer/1.0"

	// DefaultRateLimit is the request rate used when none is configured
	DefaultRateLimit = rate.Limit(1)

	maxErrorBody = 512
)

var releaseIDPattern = regexp.MustCompile(`release/(\d+)`)

// Config configures a Client
type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	RateLimit rate.Limit
	Timeout   time.Duration
	Retry     *util.RetryConfig // nil = util.DefaultRetryConfig()
}

// Client handles Discogs API requests with rate limiting
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
	limiter    *rate.Limiter
	retry      *util.RetryConfig
}

// NewClient creates a new Discogs API client
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = UserAgent
	}
	limit := cfg.RateLimit
	if limit == 0 {
		limit = DefaultRateLimit
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retry := cfg.Retry
	if retry == nil {
		retry = util.DefaultRetryConfig()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(limit, 1),
		retry:      retry,
	}
}

// ExtractReleaseID returns the numeric release id from a release URL
func ExtractReleaseID(releaseURL string) (int, error) {
	m := releaseIDPattern.FindStringSubmatch(releaseURL)
	if m == nil {
		return 0, fmt.Errorf("%w: use a release URL (e.g. https://www.discogs.com/release/123)", util.ErrInvalidURL)
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", util.ErrInvalidURL, err)
	}
	return id, nil
}

// FetchRelease fetches the release a catalog URL points at
func (c *Client) FetchRelease(ctx context.Context, releaseURL string) (*release.ReleaseMetadata, error) {
	id, err := ExtractReleaseID(releaseURL)
	if err != nil {
		return nil, err
	}
	return c.GetRelease(ctx, id)
}

// GetRelease fetches a release by id
func (c *Client) GetRelease(ctx context.Context, id int) (*release.ReleaseMetadata, error) {
	util.DebugLog("Discogs API: fetching release %d", id)

	body, err := c.get(ctx, fmt.Sprintf("%s/releases/%d", c.baseURL, id), true)
	if err != nil {
		return nil, fmt.Errorf("release %d: %w", id, err)
	}

	var rel release.ReleaseMetadata
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, fmt.Errorf("failed to decode release %d: %w", id, err)
	}
	return &rel, nil
}

// LookupArtist fetches extended artist data. resourceURL is either the
// artist's API resource URL or a bare artist id.
func (c *Client) LookupArtist(ctx context.Context, resourceURL string) (*release.ArtistBio, error) {
	if resourceURL == "" {
		return nil, fmt.Errorf("artist resource URL cannot be empty")
	}

	reqURL := resourceURL
	if !strings.HasPrefix(resourceURL, "http://") && !strings.HasPrefix(resourceURL, "https://") {
		reqURL = fmt.Sprintf("%s/artists/%s", c.baseURL, strings.TrimPrefix(resourceURL, "/"))
	}

	util.DebugLog("Discogs API: looking up artist %s", reqURL)

	// enrichment is best effort, a single attempt
	body, err := c.getOnce(ctx, reqURL, true)
	if err != nil {
		return nil, fmt.Errorf("artist %s: %w", resourceURL, err)
	}

	var detail ArtistDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode artist %s: %w", resourceURL, err)
	}
	return detail.Bio(), nil
}

// DownloadImage fetches raw image bytes from an image URI
func (c *Client) DownloadImage(ctx context.Context, uri string) ([]byte, error) {
	if uri == "" {
		return nil, fmt.Errorf("image URI cannot be empty")
	}
	util.DebugLog("Discogs: downloading image %s", uri)

	data, err := c.get(ctx, uri, false)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", uri, err)
	}
	return data, nil
}

// get performs a rate-limited GET and returns the body of a 200 response.
// Transient failures (ErrUnavailable) are retried with backoff.
func (c *Client) get(ctx context.Context, reqURL string, api bool) ([]byte, error) {
	return util.RetryWithBackoff(ctx, c.retry, func() ([]byte, error) {
		return c.getOnce(ctx, reqURL, api)
	}, "GET "+reqURL)
}

func (c *Client) getOnce(ctx context.Context, reqURL string, api bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if api {
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Discogs token="+c.token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w (404)", util.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (%d)", util.ErrAuthRequired, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w (429) - rate limit exceeded", util.ErrUnavailable)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", util.ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
