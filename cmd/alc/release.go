package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/album-categorizer/internal/discogs"
	"github.com/franz/album-categorizer/internal/meta"
	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/report"
	"github.com/franz/album-categorizer/internal/util"
)

// session holds the clients and loggers shared by one command run
type session struct {
	client   *discogs.Client
	enricher *discogs.Enricher
	cache    *discogs.SQLCache
	events   *report.EventLogger
}

// loadedRelease is a fetched release with everything derived from it
type loadedRelease struct {
	url    string
	meta   *release.ReleaseMetadata
	folder release.FolderNameParts
	sheet  meta.InfoSheet
	tracks []release.NormalizedTrack
}

func newSession() (*session, error) {
	token := GetConfigString("token", "")
	if token == "" {
		util.WarnLog("No Discogs token configured, requests are unauthenticated and images are unavailable")
	}

	s := &session{
		client: discogs.NewClient(&discogs.Config{Token: token}),
	}

	if cachePath := GetConfigString("cache-db", ""); cachePath != "" {
		cache, err := discogs.OpenCache(cachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open artist cache: %w", err)
		}
		s.cache = cache
		util.DebugLog("Using artist cache: %s", cachePath)
	}
	s.enricher = discogs.NewEnricher(s.client, s.cache)

	logLevel := report.LevelInfo
	if GetConfigBool("quiet") {
		logLevel = report.LevelWarning
	} else if GetConfigBool("verbose") {
		logLevel = report.LevelDebug
	}

	events, err := report.NewEventLogger(GetConfigString("event-log-dir", "artifacts"), logLevel)
	if err != nil {
		util.WarnLog("Event logging disabled: %v", err)
		events = report.NullLogger()
	}
	s.events = events

	return s, nil
}

func (s *session) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
	s.events.Close()
}

// load fetches the release at url and derives its folder name, info sheet
// and normalized tracklist
func (s *session) load(ctx context.Context, url string) (*loadedRelease, error) {
	util.InfoLog("=== Fetching Release ===")

	start := time.Now()
	rel, err := s.client.FetchRelease(ctx, url)
	releaseID, _ := discogs.ExtractReleaseID(url)
	s.events.LogFetch(releaseID, url, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release: %w", err)
	}
	util.SuccessLog("Fetched release %d: %s - %s", rel.ID, rel.ArtistName(), rel.Title)

	util.InfoLog("=== Normalizing ===")
	sheet := meta.BuildInfoSheet(ctx, rel, url, s.enricher)
	lr := &loadedRelease{
		url:    url,
		meta:   rel,
		folder: meta.BuildFolderName(rel),
		sheet:  sheet,
		tracks: meta.NormalizeTracklist(ctx, rel.Tracklist, sheet.Fields.Artist, s.enricher),
	}
	s.events.LogEnrich(rel.ID, s.enricher.Lookups(), s.enricher.Misses())
	util.DebugLog("Resolved %d artists (%d remote lookups)", s.enricher.Lookups(), s.enricher.Misses())

	return lr, nil
}
