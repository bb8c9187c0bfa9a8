package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/album-categorizer/internal/export"
	"github.com/franz/album-categorizer/internal/report"
	"github.com/franz/album-categorizer/internal/tagging"
	"github.com/franz/album-categorizer/internal/util"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export URL",
	Short: "Export a release folder with renamed, tagged audio files",
	Long: `Fetch a release and write it into the export directory.

This command:
1. Creates {export-dir}/{folder name}
2. Writes the info sheet ({folder}.txt)
3. Downloads release images and embeds the selected artwork
4. Copies each paired audio file under its display name and tags it
5. Writes the playlist ({folder}.m3u)

Files are paired with tracks by the track number in their name (A1, 2-03,
"01 - Title"), falling back to sorted order. Use --pair to override.

Examples:
  alc export https://www.discogs.com/release/5887661 --dir ~/Downloads/rip
  alc export URL --files a.flac,b.flac --pair 2=a.flac --tag genre=Techno
  alc export URL --dir rip --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringSlice("files", nil, "audio files to pair with the tracklist")
	exportCmd.Flags().String("dir", "", "directory to collect audio files from (recursive)")
	exportCmd.Flags().StringArray("pair", nil, "explicit pairing N=file (1-based track number, repeatable)")
	exportCmd.Flags().StringArray("tag", nil, "tag override key=value applied to every track (repeatable)")
	exportCmd.Flags().Int("artwork", 0, "index of the release image to embed as artwork (-1 = none)")
	exportCmd.Flags().Bool("save-images", true, "save release images into the folder")
	exportCmd.Flags().Bool("no-tags", false, "copy files without writing tags")
	exportCmd.Flags().Bool("overwrite", false, "replace files that already exist in the release folder")
	exportCmd.Flags().Bool("dry-run", false, "show what would be written without touching the disk")
	exportCmd.Flags().Bool("nas-mode", false, "force network-storage tuning on or off (default: auto-detect)")
	exportCmd.Flags().Bool("report", true, "write a Markdown summary report next to the event log")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	util.SetVerbose(GetConfigBool("verbose"))
	util.SetQuiet(GetConfigBool("quiet"))

	files, _ := cmd.Flags().GetStringSlice("files")
	dir, _ := cmd.Flags().GetString("dir")
	pairValues, _ := cmd.Flags().GetStringArray("pair")
	tagValues, _ := cmd.Flags().GetStringArray("tag")
	artworkIndex, _ := cmd.Flags().GetInt("artwork")
	saveImages, _ := cmd.Flags().GetBool("save-images")
	noTags, _ := cmd.Flags().GetBool("no-tags")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	writeReport, _ := cmd.Flags().GetBool("report")

	explicit, err := parsePairs(pairValues)
	if err != nil {
		return err
	}
	overrides, err := parseTagOverrides(tagValues)
	if err != nil {
		return err
	}

	if dir != "" {
		found, err := collectAudioFiles(dir)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	for _, f := range explicit {
		files = append(files, f)
	}
	files = dedupe(files)

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if s.events.Path() != "" {
		util.InfoLog("Event log: %s", s.events.Path())
	}

	lr, err := s.load(ctx, args[0])
	if err != nil {
		return err
	}

	util.InfoLog("=== Pairing ===")
	pairs, err := export.PairFiles(lr.tracks, files, explicit)
	if err != nil {
		return fmt.Errorf("failed to pair files: %w", err)
	}
	for _, p := range pairs {
		if p.File == "" {
			util.WarnLog("  %s: no file", p.DisplayName)
			continue
		}
		util.InfoLog("  %s <- %s", p.FileName(), filepath.Base(p.File))
	}

	exportDir := GetConfigString("export-dir", "export")
	var nasMode *bool
	if cmd.Flags().Changed("nas-mode") {
		forced, _ := cmd.Flags().GetBool("nas-mode")
		nasMode = &forced
	}
	tuning := util.TuneForExport(exportDir, nasMode)

	cfg := &export.Config{
		ExportDir:        exportDir,
		DryRun:           dryRun,
		Overwrite:        overwrite,
		SaveImages:       saveImages,
		ArtworkIndex:     artworkIndex,
		ArtworkMaxSize:   GetConfigInt("artwork-max-size", 1000),
		ImageConcurrency: tuning.ImageConcurrency,
		BufferSize:       tuning.BufferSize,
		Retry:            tuning.Retry,
		ShowProgress:     util.ShowProgress(),
		Images:           s.client,
		Logger:           s.events,
	}
	if !noTags {
		cfg.Tagger = tagging.NewWriter(GetConfigString("ffmpeg", "ffmpeg"))
	}
	if prober := tagging.NewProber(GetConfigString("ffprobe", "ffprobe")); prober.Available() {
		cfg.Prober = prober
	} else {
		util.DebugLog("ffprobe not available, missing track lengths use the playlist default")
	}

	util.InfoLog("=== Export ===")
	if dryRun {
		util.InfoLog("DRY RUN MODE - no files will be written")
	}

	exporter := export.New(cfg)
	result, err := exporter.Export(ctx, &export.Album{
		Release:   lr.meta,
		Folder:    lr.folder,
		Sheet:     lr.sheet,
		Tracks:    lr.tracks,
		Pairs:     pairs,
		Overrides: overrides,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	// Summary
	util.InfoLog("")
	util.SuccessLog("=== Export Summary ===")
	util.InfoLog("Folder: %s", result.Path)
	util.InfoLog("Total time: %v", result.Duration.Round(time.Millisecond))
	util.InfoLog("Files copied: %d", result.FilesCopied)
	util.InfoLog("Files tagged: %d", result.FilesTagged)
	util.InfoLog("Images saved: %d", result.ImagesSaved)
	util.InfoLog("Bytes written: %s", humanize.Bytes(uint64(result.BytesWritten)))
	if len(result.Unpaired) > 0 {
		util.WarnLog("Tracks without a file: %d", len(result.Unpaired))
	}
	if len(result.Conflicts) > 0 {
		util.WarnLog("Conflicts: %d (use --overwrite to replace)", len(result.Conflicts))
	}
	if len(result.Errors) > 0 {
		util.InfoLog("")
		util.WarnLog("Errors encountered:")
		for i, err := range result.Errors {
			if i >= 10 {
				util.WarnLog("... and %d more errors", len(result.Errors)-10)
				break
			}
			util.WarnLog("  - %v", err)
		}
	}

	if writeReport && !dryRun {
		summary := buildSummary(lr, result, s.events)
		timestamp := time.Now().Format("20060102-150405")
		reportPath := filepath.Join(GetConfigString("event-log-dir", "artifacts"), "reports", timestamp, "summary.md")
		if err := report.WriteMarkdownReport(summary, reportPath); err != nil {
			util.WarnLog("Failed to write summary report: %v", err)
		} else {
			util.SuccessLog("Summary report saved to: %s", reportPath)
		}
	}

	return nil
}

func buildSummary(lr *loadedRelease, result *export.Result, events *report.EventLogger) *report.SummaryReport {
	summary := &report.SummaryReport{
		GeneratedAt:  time.Now(),
		Duration:     result.Duration,
		ReleaseURL:   lr.url,
		FolderName:   result.Folder,
		ExportPath:   result.Path,
		TracksTotal:  len(lr.tracks),
		FilesCopied:  result.FilesCopied,
		FilesTagged:  result.FilesTagged,
		ImagesSaved:  result.ImagesSaved,
		BytesWritten: result.BytesWritten,
		Unpaired:     result.Unpaired,
		Conflicts:    result.Conflicts,
		SessionID:    events.Session(),
		EventLogPath: events.Path(),
	}
	for _, err := range result.Errors {
		summary.Errors = append(summary.Errors, err.Error())
	}
	return summary
}

// collectAudioFiles returns every file below dir with a taggable audio
// extension, sorted by path
func collectAudioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if tagging.CanWriteTags(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(files)
	util.DebugLog("Found %d audio files in %s", len(files), dir)
	return files, nil
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		clean := filepath.Clean(p)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		out = append(out, clean)
	}
	return out
}
