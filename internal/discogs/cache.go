package discogs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/util"
	_ "modernc.org/sqlite" // SQLite driver
)

// ArtistLookup fetches extended artist data from the catalog
type ArtistLookup interface {
	LookupArtist(ctx context.Context, resourceURL string) (*release.ArtistBio, error)
}

// Enricher is a read-through artist bio cache. Each resource URL is looked
// up at most once per Enricher; failed lookups are remembered as empty bios.
// An optional SQLCache keeps successful lookups across sessions.
type Enricher struct {
	lookup  ArtistLookup
	store   *SQLCache
	mu      sync.Mutex
	session map[string]release.ArtistBio
	misses  int
}

// NewEnricher creates an enricher; store may be nil
func NewEnricher(lookup ArtistLookup, store *SQLCache) *Enricher {
	return &Enricher{
		lookup:  lookup,
		store:   store,
		session: make(map[string]release.ArtistBio),
	}
}

// ArtistBio returns the bio for resourceURL, or an empty bio when it
// cannot be fetched
func (e *Enricher) ArtistBio(ctx context.Context, resourceURL string) release.ArtistBio {
	if resourceURL == "" {
		return release.ArtistBio{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if bio, ok := e.session[resourceURL]; ok {
		return bio
	}

	if e.store != nil {
		cached, err := e.store.Get(resourceURL)
		if err != nil {
			util.DebugLog("Artist cache read failed for %s: %v", resourceURL, err)
		} else if cached != nil {
			util.DebugLog("Artist cache hit: %s", resourceURL)
			e.session[resourceURL] = cached.Bio
			return cached.Bio
		}
	}

	e.misses++
	bio := release.ArtistBio{}
	if e.lookup != nil {
		fetched, err := e.lookup.LookupArtist(ctx, resourceURL)
		if err != nil {
			util.DebugLog("Artist enrichment unavailable for %s: %v", resourceURL, err)
		} else if fetched != nil {
			bio = *fetched
			if e.store != nil {
				if err := e.store.Put(resourceURL, bio); err != nil {
					util.WarnLog("Failed to cache artist %s: %v", resourceURL, err)
				}
			}
		}
	}

	e.session[resourceURL] = bio
	return bio
}

// Misses returns how many lookups went past the caches
func (e *Enricher) Misses() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.misses
}

// Lookups returns how many distinct artists were resolved this session
func (e *Enricher) Lookups() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.session)
}

// SQLCache persists artist bios in a SQLite table
type SQLCache struct {
	db *sql.DB
}

// CachedBio is a cached artist bio lookup
type CachedBio struct {
	ResourceURL string
	Bio         release.ArtistBio
	CachedAt    time.Time
}

// OpenCache opens or creates the cache database at path
func OpenCache(path string) (*SQLCache, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	c := &SQLCache{db: db}
	if err := c.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the cache database
func (c *SQLCache) Close() error {
	return c.db.Close()
}

// EnsureSchema creates the cache table if it doesn't exist
func (c *SQLCache) EnsureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS artist_bio_cache (
		resource_url TEXT PRIMARY KEY,
		realname TEXT,
		members TEXT, -- JSON array of member names
		cached_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		hit_count INTEGER DEFAULT 0
	);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create artist_bio_cache table: %w", err)
	}
	return nil
}

// Get retrieves a cached bio; it returns nil, nil when there is none
func (c *SQLCache) Get(resourceURL string) (*CachedBio, error) {
	query := `
		SELECT realname, members, cached_at
		FROM artist_bio_cache
		WHERE resource_url = ?
	`

	cached := CachedBio{ResourceURL: resourceURL}
	var realname, members sql.NullString

	err := c.db.QueryRow(query, resourceURL).Scan(&realname, &members, &cached.CachedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	cached.Bio.Realname = realname.String
	if members.Valid && members.String != "" {
		if err := json.Unmarshal([]byte(members.String), &cached.Bio.Members); err != nil {
			return nil, fmt.Errorf("failed to decode cached members: %w", err)
		}
	}

	if _, err := c.db.Exec(`UPDATE artist_bio_cache SET hit_count = hit_count + 1 WHERE resource_url = ?`, resourceURL); err != nil {
		util.DebugLog("Failed to increment hit count: %v", err)
	}

	return &cached, nil
}

// Put stores a bio, replacing any previous entry
func (c *SQLCache) Put(resourceURL string, bio release.ArtistBio) error {
	members, err := json.Marshal(bio.Members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO artist_bio_cache
		(resource_url, realname, members, cached_at, hit_count)
		VALUES (?, ?, ?, ?, COALESCE((SELECT hit_count FROM artist_bio_cache WHERE resource_url = ?), 0))
	`

	if _, err := c.db.Exec(query, resourceURL, bio.Realname, string(members), time.Now(), resourceURL); err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// GetStats returns cache statistics
func (c *SQLCache) GetStats() (entries int, totalHits int64, err error) {
	query := `SELECT COUNT(*), COALESCE(SUM(hit_count), 0) FROM artist_bio_cache`
	err = c.db.QueryRow(query).Scan(&entries, &totalHits)
	return
}

// Clear removes all cached entries
func (c *SQLCache) Clear() error {
	_, err := c.db.Exec("DELETE FROM artist_bio_cache")
	return err
}

// ClearOldEntries removes cache entries older than the specified duration
func (c *SQLCache) ClearOldEntries(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := c.db.Exec("DELETE FROM artist_bio_cache WHERE cached_at < ?", cutoff)
	if err != nil {
		return 0, err
	}

	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// CheckIntegrity runs PRAGMA integrity_check on the cache database
func (c *SQLCache) CheckIntegrity() error {
	var result string
	if err := c.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check query failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// SQLiteVersion returns the version of the embedded SQLite engine
func SQLiteVersion() string {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return ""
	}
	defer db.Close()

	var version string
	if err := db.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
		return ""
	}
	return version
}
