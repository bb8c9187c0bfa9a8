package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/album-categorizer/internal/discogs"
	"github.com/franz/album-categorizer/internal/release"
)

func TestCheckTool_Missing(t *testing.T) {
	result := checkTool("ffmpeg", filepath.Join(t.TempDir(), "no-ffmpeg"), "tagging")

	// Missing tools degrade the export but never block it
	if result.error {
		t.Errorf("missing tool should be a warning, got error: %s", result.message)
	}
	if !result.warning {
		t.Error("expected warning for missing tool")
	}
}

func TestParseToolVersion(t *testing.T) {
	tests := []struct {
		output   string
		expected string
	}{
		{"ffmpeg version 6.1.1-3ubuntu5 Copyright (c) 2000-2023\nbuilt with gcc", "6.1.1-3ubuntu5"},
		{"ffprobe version n7.0 Copyright", "n7.0"},
		{"garbage", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		if got := parseToolVersion(tt.output); got != tt.expected {
			t.Errorf("parseToolVersion(%q) = %q, expected %q", tt.output, got, tt.expected)
		}
	}
}

func TestCheckSQLite(t *testing.T) {
	result := checkSQLite()

	if result.error {
		t.Errorf("SQLite check failed: %s", result.message)
	}

	if result.message == "" {
		t.Error("expected version information in message")
	}
}

func TestCheckCache_NotConfigured(t *testing.T) {
	result := checkCache("")

	if result.error || result.warning {
		t.Errorf("session-only cache should pass, got %+v", result)
	}
}

func TestCheckCache_NonExistent(t *testing.T) {
	result := checkCache(filepath.Join(t.TempDir(), "nonexistent.db"))

	// Should not error - cache will be created on first run
	if result.error {
		t.Errorf("non-existent cache check should not error: %s", result.message)
	}
}

func TestCheckCache_Existing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	cache, err := discogs.OpenCache(path)
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	if err := cache.Put("https://api.discogs.com/artists/1", release.ArtistBio{Realname: "Adam Beyer"}); err != nil {
		t.Fatalf("failed to insert test artist: %v", err)
	}
	cache.Close()

	result := checkCache(path)

	if result.error {
		t.Errorf("cache check failed: %s", result.message)
	}
	if result.message == "" {
		t.Error("expected message with cache info")
	}
}

func TestCheckCache_Directory(t *testing.T) {
	result := checkCache(t.TempDir())

	if !result.error {
		t.Error("expected error when cache path is a directory")
	}
}

func TestCheckToken(t *testing.T) {
	if result := checkToken(""); !result.warning {
		t.Error("expected warning for missing token")
	}
	if result := checkToken("abc"); result.warning || result.error {
		t.Errorf("configured token should pass, got %+v", result)
	}
}

func TestCheckSpotify(t *testing.T) {
	if result := checkSpotify("id", ""); !result.warning || result.error {
		t.Errorf("partial credentials should warn, got %+v", result)
	}
	if result := checkSpotify("id", "secret"); result.warning || result.error {
		t.Errorf("configured credentials should pass, got %+v", result)
	}
}

func TestCheckExportDirectory_Valid(t *testing.T) {
	dir := t.TempDir()

	result := checkExportDirectory(dir)

	if result.error {
		t.Errorf("export directory check failed: %s", result.message)
	}

	if _, err := os.Stat(filepath.Join(dir, ".alc_write_test")); !os.IsNotExist(err) {
		t.Error("write test file should be removed")
	}
}

func TestCheckExportDirectory_Create(t *testing.T) {
	newDir := filepath.Join(t.TempDir(), "newdir")

	result := checkExportDirectory(newDir)

	if result.error {
		t.Errorf("export directory check failed: %s", result.message)
	}

	if _, err := os.Stat(newDir); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}

func TestCheckExportDirectory_File(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := checkExportDirectory(filePath)

	if !result.error {
		t.Error("expected error when path is a file, not a directory")
	}
}

func TestCheckDiskSpace(t *testing.T) {
	result := checkDiskSpace(t.TempDir(), "test")

	if result.error {
		t.Errorf("disk space check failed: %s", result.message)
	}

	if result.message == "" {
		t.Error("expected message with disk space info")
	}
}

func TestCheckDiskSpace_NonExistent(t *testing.T) {
	result := checkDiskSpace("/nonexistent/path", "test")

	if !result.warning {
		t.Error("expected warning for non-existent path")
	}
}
