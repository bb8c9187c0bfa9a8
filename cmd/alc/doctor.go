package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/album-categorizer/internal/discogs"
	"github.com/franz/album-categorizer/internal/util"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks on the environment and configuration",
	Long: `Run diagnostic checks to ensure alc can operate correctly.

This command checks:
- Tools (ffmpeg for tagging non-MP3 files, ffprobe for track lengths)
- SQLite version and the artist cache database
- Discogs and Spotify credentials
- Export directory permissions and disk space

Use this command to troubleshoot issues before exporting.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	name    string
	message string
	error   bool
	warning bool
}

func runDoctor(cmd *cobra.Command, args []string) error {
	util.SetVerbose(GetConfigBool("verbose"))
	util.SetQuiet(GetConfigBool("quiet"))

	util.InfoLog("=== ALC Doctor - System Diagnostics ===")
	util.InfoLog("")

	exportDir := GetConfigString("export-dir", "export")

	results := []checkResult{
		checkTool("ffmpeg", GetConfigString("ffmpeg", "ffmpeg"), "required to tag non-MP3 files"),
		checkTool("ffprobe", GetConfigString("ffprobe", "ffprobe"), "required to measure untimed tracks"),
		checkSQLite(),
		checkCache(GetConfigString("cache-db", "")),
		checkToken(GetConfigString("token", "")),
		checkSpotify(GetConfigString("spotify-client-id", ""), GetConfigString("spotify-client-secret", "")),
		checkExportDirectory(exportDir),
		checkDiskSpace(exportDir, "export"),
	}

	// Print results
	util.InfoLog("")
	util.InfoLog("=== Diagnostic Results ===")
	util.InfoLog("")

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		symbol := "✓"
		if r.error {
			symbol = "✗"
			hasErrors = true
		} else if r.warning {
			symbol = "⚠"
			hasWarnings = true
		}

		line := fmt.Sprintf("[%s] %s", symbol, r.name)
		if r.message != "" {
			line += fmt.Sprintf(": %s", r.message)
		}

		if r.error {
			util.ErrorLog("%s", line)
		} else if r.warning {
			util.WarnLog("%s", line)
		} else {
			util.SuccessLog("%s", line)
		}
	}

	// Summary
	util.InfoLog("")
	if hasErrors {
		util.ErrorLog("❌ Some critical checks failed. Please resolve errors before exporting.")
		return fmt.Errorf("system diagnostics failed")
	} else if hasWarnings {
		util.WarnLog("⚠️  Some checks produced warnings. Review them before proceeding.")
	} else {
		util.SuccessLog("✅ All checks passed! System is ready for alc operations.")
	}

	return nil
}

// checkTool verifies an ffmpeg-suite binary runs and reports its version.
// A missing tool only degrades the export, so it is a warning.
func checkTool(name, binary, purpose string) checkResult {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, "-version").CombinedOutput()
	if err != nil {
		return checkResult{
			name:    name,
			warning: true,
			message: fmt.Sprintf("not found or not executable (%s)", purpose),
		}
	}

	return checkResult{
		name:    name,
		message: fmt.Sprintf("version %s", parseToolVersion(string(output))),
	}
}

// parseToolVersion picks the version from "ffmpeg version 6.1.1 Copyright ..."
func parseToolVersion(output string) string {
	lines := strings.Split(output, "\n")
	if len(lines) > 0 {
		parts := strings.Fields(lines[0])
		if len(parts) >= 3 {
			return parts[2]
		}
	}
	return "unknown"
}

// checkSQLite verifies SQLite version
func checkSQLite() checkResult {
	// modernc.org/sqlite is built in
	version := discogs.SQLiteVersion()
	if version == "" {
		return checkResult{
			name:    "SQLite",
			error:   true,
			message: "unable to determine version",
		}
	}

	return checkResult{
		name:    "SQLite",
		message: fmt.Sprintf("version %s (built-in)", version),
	}
}

// checkCache verifies the artist cache database when one is configured
func checkCache(path string) checkResult {
	if path == "" {
		return checkResult{
			name:    "Artist cache",
			message: "session only (set cache-db to persist artist lookups)",
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return checkResult{
				name:    "Artist cache",
				message: fmt.Sprintf("%s (will be created on first run)", path),
			}
		}
		return checkResult{
			name:    "Artist cache",
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", path, err),
		}
	}

	if !info.Mode().IsRegular() {
		return checkResult{
			name:    "Artist cache",
			error:   true,
			message: fmt.Sprintf("%s is not a regular file", path),
		}
	}

	cache, err := discogs.OpenCache(path)
	if err != nil {
		return checkResult{
			name:    "Artist cache",
			error:   true,
			message: fmt.Sprintf("cannot open %s: %v", path, err),
		}
	}
	defer cache.Close()

	if err := cache.CheckIntegrity(); err != nil {
		return checkResult{
			name:    "Artist cache",
			error:   true,
			message: err.Error(),
		}
	}

	entries, _, _ := cache.GetStats()
	return checkResult{
		name:    "Artist cache",
		message: fmt.Sprintf("%s (%s, %d artists)", path, humanize.Bytes(uint64(info.Size())), entries),
	}
}

// checkToken reports whether Discogs requests will be authenticated
func checkToken(token string) checkResult {
	if token == "" {
		return checkResult{
			name:    "Discogs token",
			warning: true,
			message: "not set (use --token, ALC_TOKEN or DISCOGS_TOKEN; images need a token)",
		}
	}
	return checkResult{
		name:    "Discogs token",
		message: "configured",
	}
}

// checkSpotify reports whether streaming search is usable
func checkSpotify(clientID, clientSecret string) checkResult {
	if clientID == "" || clientSecret == "" {
		return checkResult{
			name:    "Spotify (optional)",
			warning: true,
			message: "credentials not set (required only for search)",
		}
	}
	return checkResult{
		name:    "Spotify (optional)",
		message: "credentials configured",
	}
}

// checkExportDirectory verifies the export directory is writable
func checkExportDirectory(path string) checkResult {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(path, 0755); err != nil {
				return checkResult{
					name:    "Export directory",
					error:   true,
					message: fmt.Sprintf("cannot create %s: %v", path, err),
				}
			}
			return checkResult{
				name:    "Export directory",
				message: fmt.Sprintf("%s (created)", path),
			}
		}
		return checkResult{
			name:    "Export directory",
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", path, err),
		}
	}

	if !info.IsDir() {
		return checkResult{
			name:    "Export directory",
			error:   true,
			message: fmt.Sprintf("%s is not a directory", path),
		}
	}

	// Check write permission by creating a temp file
	testFile := filepath.Join(path, ".alc_write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return checkResult{
			name:    "Export directory",
			error:   true,
			message: fmt.Sprintf("cannot write to %s: %v", path, err),
		}
	}
	f.Close()
	os.Remove(testFile)

	return checkResult{
		name:    "Export directory",
		message: fmt.Sprintf("%s (writable)", path),
	}
}

// checkDiskSpace verifies available disk space
func checkDiskSpace(path string, label string) checkResult {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return checkResult{
			name:    fmt.Sprintf("Disk space (%s)", label),
			warning: true,
			message: fmt.Sprintf("cannot determine disk space: %v", err),
		}
	}

	availBytes := stat.Bavail * uint64(stat.Bsize)
	totalBytes := stat.Blocks * uint64(stat.Bsize)
	usedBytes := totalBytes - (stat.Bfree * uint64(stat.Bsize))
	usedPercent := float64(usedBytes) / float64(totalBytes) * 100

	// A release folder rarely exceeds a couple of GB
	warning := false
	warningMsg := ""
	if availBytes < 2*humanize.GByte {
		warning = true
		warningMsg = " (low space!)"
	} else if usedPercent > 95 {
		warning = true
		warningMsg = " (>95% used)"
	}

	return checkResult{
		name:    fmt.Sprintf("Disk space (%s)", label),
		warning: warning,
		message: fmt.Sprintf("%s available%s", humanize.Bytes(availBytes), warningMsg),
	}
}
