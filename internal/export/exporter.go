// Package export writes a release to disk: its folder, info sheet, playlist,
// renamed and tagged audio files, and images.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/album-categorizer/internal/artwork"
	"github.com/franz/album-categorizer/internal/meta"
	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/report"
	"github.com/franz/album-categorizer/internal/tagging"
	"github.com/franz/album-categorizer/internal/util"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// ImageSource downloads release images
type ImageSource interface {
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

// DurationProbe measures the playing time of an audio file
type DurationProbe interface {
	ProbeDuration(ctx context.Context, path string) (int, error)
}

// Exporter writes releases into an export directory
type Exporter struct {
	exportDir        string
	dryRun           bool
	overwrite        bool
	saveImages       bool
	artworkIndex     int
	artworkMaxSize   int
	imageConcurrency int
	bufferSize       int
	retry            *util.RetryConfig
	showProgress     bool
	tagger           tagging.Writer
	images           ImageSource
	prober           DurationProbe
	logger           *report.EventLogger
}

// Config holds exporter configuration
type Config struct {
	ExportDir        string
	DryRun           bool
	Overwrite        bool // replace existing files in the release folder; otherwise they are reported as conflicts
	SaveImages       bool
	ArtworkIndex     int               // index into the release images to embed, -1 for none
	ArtworkMaxSize   int               // 0 = artwork.DefaultMaxSize
	ImageConcurrency int
	BufferSize       int               // copy buffer size in bytes (0 = 128KB)
	Retry            *util.RetryConfig // retries for folder creation and renames, nil = none
	ShowProgress     bool
	Tagger           tagging.Writer // nil disables tagging
	Images           ImageSource    // nil disables images and artwork
	Prober           DurationProbe  // nil keeps the default playlist duration
	Logger           *report.EventLogger
}

// New creates a new Exporter
func New(cfg *Config) *Exporter {
	if cfg.ExportDir == "" {
		cfg.ExportDir = "export"
	}
	if cfg.ArtworkMaxSize == 0 {
		cfg.ArtworkMaxSize = artwork.DefaultMaxSize
	}
	if cfg.ImageConcurrency <= 0 {
		cfg.ImageConcurrency = 2
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = util.DefaultBufferSize
	}
	if cfg.Retry == nil {
		cfg.Retry = util.NoRetry()
	}

	return &Exporter{
		exportDir:        cfg.ExportDir,
		dryRun:           cfg.DryRun,
		overwrite:        cfg.Overwrite,
		saveImages:       cfg.SaveImages,
		artworkIndex:     cfg.ArtworkIndex,
		artworkMaxSize:   cfg.ArtworkMaxSize,
		imageConcurrency: cfg.ImageConcurrency,
		bufferSize:       cfg.BufferSize,
		retry:            cfg.Retry,
		showProgress:     cfg.ShowProgress,
		tagger:           cfg.Tagger,
		images:           cfg.Images,
		prober:           cfg.Prober,
		logger:           cfg.Logger,
	}
}

// Album is everything derived from one release that an export needs
type Album struct {
	Release   *release.ReleaseMetadata
	Folder    release.FolderNameParts
	Sheet     meta.InfoSheet
	Tracks    []release.NormalizedTrack
	Pairs     []Pair
	Overrides map[string]string // tag overrides applied to every track
}

// Result represents export results
type Result struct {
	Folder       string
	Path         string
	FilesCopied  int
	FilesTagged  int
	ImagesSaved  int
	BytesWritten int64
	Unpaired     []string
	Conflicts    []report.ConflictInfo
	Errors       []error
	Duration     time.Duration
}

// Export writes album into {exportDir}/{folder name}. Per-file failures are
// collected in the result; only failures to create the folder or write the
// info sheet and playlist abort the export.
func (e *Exporter) Export(ctx context.Context, album *Album) (*Result, error) {
	start := time.Now()

	folder := meta.SanitizeFilename(album.Folder.String())
	if folder == "" {
		return nil, fmt.Errorf("empty folder name: %w", util.ErrInvalidConfig)
	}
	dir := filepath.Join(e.exportDir, folder)

	result := &Result{Folder: folder, Path: dir}

	util.InfoLog("Exporting to: %s", dir)
	if e.dryRun {
		util.InfoLog("DRY-RUN mode: no files will be written")
	}

	if err := e.mkdir(ctx, dir); err != nil {
		e.logger.LogWrite(report.EventFolder, dir, 0, err)
		return nil, fmt.Errorf("failed to create release folder: %w", err)
	}
	e.logger.LogWrite(report.EventFolder, dir, 0, nil)

	// Info sheet
	sheet := meta.RenderInfoSheet(album.Sheet.Fields, album.Tracks)
	sheetPath := filepath.Join(dir, folder+".txt")
	if err := e.writeText(sheetPath, sheet, report.EventInfo, result); err != nil {
		return nil, fmt.Errorf("failed to write info sheet: %w", err)
	}

	// Images, and the artwork to embed
	art := e.exportImages(ctx, album.Release, dir, folder, result)

	// Audio files
	if err := e.exportTracks(ctx, album, dir, art, result); err != nil {
		return nil, err
	}

	// Playlist
	playlist := meta.RenderM3U(e.playlistEntries(ctx, album.Pairs))
	playlistPath := filepath.Join(dir, folder+".m3u")
	if err := e.writeText(playlistPath, playlist, report.EventPlaylist, result); err != nil {
		return nil, fmt.Errorf("failed to write playlist: %w", err)
	}

	result.Duration = time.Since(start)

	util.SuccessLog("Export complete: %d copied, %d tagged, %d images, %s written",
		result.FilesCopied, result.FilesTagged, result.ImagesSaved,
		humanize.Bytes(uint64(result.BytesWritten)))
	if len(result.Unpaired) > 0 {
		util.WarnLog("%d tracks without a file", len(result.Unpaired))
	}

	return result, nil
}

func (e *Exporter) mkdir(ctx context.Context, dir string) error {
	if e.dryRun {
		util.DebugLog("DRY-RUN: Would create %s", dir)
		return nil
	}
	return util.Retry(ctx, e.retry, func() error {
		return os.MkdirAll(dir, 0755)
	}, fmt.Sprintf("mkdir(%s)", dir))
}

// writeText writes content to path via a .part file. An existing file is
// left alone unless overwriting.
func (e *Exporter) writeText(path, content string, event report.EventType, result *Result) error {
	if e.dryRun {
		util.DebugLog("DRY-RUN: Would write %s (%s)", filepath.Base(path), humanize.Bytes(uint64(len(content))))
		return nil
	}
	if e.conflict(string(event), path, result) {
		return nil
	}

	n, err := writeFileAtomic(path, []byte(content))
	e.logger.LogWrite(event, path, n, err)
	if err != nil {
		return err
	}
	result.BytesWritten += n
	util.DebugLog("Wrote: %s", path)
	return nil
}

// exportTracks copies and tags every paired file
func (e *Exporter) exportTracks(ctx context.Context, album *Album, dir string, art []byte, result *Result) error {
	paired := 0
	for _, p := range album.Pairs {
		if p.File != "" {
			paired++
		}
	}

	var bar *progressbar.ProgressBar
	if e.showProgress && !e.dryRun && paired > 0 {
		bar = progressbar.NewOptions(paired,
			progressbar.OptionSetDescription("Exporting"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
		defer bar.Finish()
	}

	for _, p := range album.Pairs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if p.File == "" {
			result.Unpaired = append(result.Unpaired, p.DisplayName)
			e.logger.LogSkip(p.DisplayName, "no file paired")
			continue
		}

		dest := filepath.Join(dir, p.FileName())
		e.exportTrack(ctx, album, p, dest, art, result)
		if bar != nil {
			bar.Add(1)
		}
	}
	return nil
}

func (e *Exporter) exportTrack(ctx context.Context, album *Album, p Pair, dest string, art []byte, result *Result) {
	if e.dryRun {
		util.InfoLog("DRY-RUN: Would copy %s -> %s", filepath.Base(p.File), filepath.Base(dest))
		return
	}

	if e.conflict(p.File, dest, result) {
		return
	}

	start := time.Now()
	n, err := e.copyFile(ctx, p.File, dest)
	e.logger.LogCopy(p.File, dest, n, time.Since(start), err)
	if err != nil {
		util.ErrorLog("Failed to copy %s: %v", p.File, err)
		result.Errors = append(result.Errors, err)
		return
	}
	result.FilesCopied++
	result.BytesWritten += n

	if e.tagger == nil {
		return
	}

	tags := meta.BuildTagMetadata(p.Track, album.Sheet.Fields, album.Sheet.CreditLine, art)
	tags = meta.ApplyOverrides(tags, album.Overrides)

	err = e.tagger.Write(dest, tags)
	e.logger.LogTag(dest, tags.Len(), tags.HasArtwork(), err)
	if err != nil {
		util.WarnLog("Failed to write tags to %s: %v", dest, err)
		result.Errors = append(result.Errors, err)
		return
	}
	result.FilesTagged++
}

// conflict reports whether dest already exists and must not be replaced.
// Conflicts are recorded in the result.
func (e *Exporter) conflict(src, dest string, result *Result) bool {
	if e.overwrite {
		return false
	}
	if _, err := os.Stat(dest); err != nil {
		return false
	}

	util.WarnLog("Destination exists, skipping: %s", dest)
	e.logger.LogConflict(src, dest, "destination exists")
	result.Conflicts = append(result.Conflicts, report.ConflictInfo{
		SrcPath: src, DestPath: dest, Reason: "destination exists",
	})
	result.Errors = append(result.Errors, fmt.Errorf("%s: %w", dest, util.ErrConflict))
	return true
}

// playlistEntries builds M3U entries, probing paired files for tracks
// the catalog lists without a duration
func (e *Exporter) playlistEntries(ctx context.Context, pairs []Pair) []meta.PlaylistEntry {
	entries := make([]meta.PlaylistEntry, 0, len(pairs))
	for _, p := range pairs {
		duration := p.Track.Duration
		if duration == "" && p.File != "" && e.prober != nil {
			if secs, err := e.prober.ProbeDuration(ctx, p.File); err == nil {
				duration = fmt.Sprintf("%d:%02d", secs/60, secs%60)
			} else {
				util.DebugLog("No duration for %s: %v", filepath.Base(p.File), err)
			}
		}
		entries = append(entries, meta.PlaylistEntry{
			DisplayName: p.DisplayName,
			Duration:    duration,
			Extension:   p.Extension(),
		})
	}
	return entries
}

// imageJob is one release image to fetch
type imageJob struct {
	index int
	image release.Image
	path  string
	data  []byte
}

// ImageFileNames returns "{folder} ({type})" names for images, adding a
// counter to repeated types. The extension follows the downloaded data.
func ImageFileNames(folder string, images []release.Image) []string {
	names := make([]string, len(images))
	seen := make(map[string]int)
	for i, img := range images {
		kind := strings.TrimSpace(img.Type)
		if kind == "" {
			kind = "image"
		}
		seen[kind]++
		if n := seen[kind]; n > 1 {
			kind = fmt.Sprintf("%s %d", kind, n)
		}
		names[i] = meta.SanitizeFilename(fmt.Sprintf("%s (%s)", folder, kind))
	}
	return names
}

// exportImages downloads release images in parallel, saves them when
// enabled, and returns the resized artwork to embed (nil when none)
func (e *Exporter) exportImages(ctx context.Context, rel *release.ReleaseMetadata, dir, folder string, result *Result) []byte {
	if e.images == nil || rel == nil || len(rel.Images) == 0 || e.dryRun {
		if e.dryRun && rel != nil && len(rel.Images) > 0 {
			util.InfoLog("DRY-RUN: Would fetch %d images", len(rel.Images))
		}
		return nil
	}

	wantArtwork := e.artworkIndex >= 0 && e.artworkIndex < len(rel.Images)
	if !e.saveImages && !wantArtwork {
		return nil
	}

	names := ImageFileNames(folder, rel.Images)
	var jobs []*imageJob
	for i, img := range rel.Images {
		if e.saveImages || i == e.artworkIndex {
			jobs = append(jobs, &imageJob{index: i, image: img, path: filepath.Join(dir, names[i])})
		}
	}

	util.InfoLog("Fetching %d images", len(jobs))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.imageConcurrency)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			data, err := e.images.DownloadImage(gctx, job.image.URI)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				util.WarnLog("Failed to download image %s: %v", job.image.URI, err)
				e.logger.LogError(report.EventImage, job.image.URI, err)
				mu.Lock()
				result.Errors = append(result.Errors, err)
				mu.Unlock()
				return nil
			}
			job.data = data

			if !e.saveImages {
				return nil
			}
			path := job.path + artwork.Extension(data)

			mu.Lock()
			skip := e.conflict(job.image.URI, path, result)
			mu.Unlock()
			if skip {
				return nil
			}

			n, err := writeFileAtomic(path, data)
			e.logger.LogWrite(report.EventImage, path, n, err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				util.WarnLog("Failed to save image %s: %v", path, err)
				result.Errors = append(result.Errors, err)
				return nil
			}
			result.ImagesSaved++
			result.BytesWritten += n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		util.WarnLog("Image download interrupted: %v", err)
		return nil
	}

	if !wantArtwork {
		return nil
	}
	for _, job := range jobs {
		if job.index != e.artworkIndex || job.data == nil {
			continue
		}
		art, err := artwork.Resize(job.data, e.artworkMaxSize)
		if err != nil {
			util.WarnLog("Failed to prepare artwork: %v", err)
			return nil
		}
		return art
	}
	return nil
}

// copyFile copies a file atomically using a .part temporary file
func (e *Exporter) copyFile(ctx context.Context, srcPath, destPath string) (int64, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	tempPath := destPath + ".part"
	dest, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	bytesWritten, err := copyWithContext(ctx, dest, src, e.bufferSize)
	if cerr := dest.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to copy: %w", err)
	}

	err = util.Retry(ctx, e.retry, func() error {
		return os.Rename(tempPath, destPath)
	}, fmt.Sprintf("rename(%s)", filepath.Base(destPath)))
	if err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to rename: %w", err)
	}

	util.DebugLog("Copied: %s -> %s (%s)", srcPath, destPath, humanize.Bytes(uint64(bytesWritten)))
	return bytesWritten, nil
}

// writeFileAtomic writes data to path using a .part temporary file
func writeFileAtomic(path string, data []byte) (int64, error) {
	tempPath := path + ".part"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		os.Remove(tempPath)
		return 0, err
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return 0, err
	}
	return int64(len(data)), nil
}

// copyWithContext copies data with context cancellation support
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader, bufferSize int) (int64, error) {
	if bufferSize <= 0 {
		bufferSize = 128 * 1024
	}

	buf := make([]byte, bufferSize)
	var written int64

	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[0:nr])
			if nw < 0 || nr < nw {
				nw = 0
				if ew == nil {
					ew = fmt.Errorf("invalid write result")
				}
			}
			written += int64(nw)
			if ew != nil {
				return written, ew
			}
			if nr != nw {
				return written, io.ErrShortWrite
			}
		}
		if er != nil {
			if er != io.EOF {
				return written, er
			}
			break
		}
	}
	return written, nil
}
