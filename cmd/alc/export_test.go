package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/franz/album-categorizer/internal/export"
	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/report"
)

func TestCollectAudioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"CD2/01 b.flac", "CD1/01 a.flac", "cover.jpg", "notes.txt", "02 c.MP3"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := collectAudioFiles(dir)
	if err != nil {
		t.Fatalf("collectAudioFiles failed: %v", err)
	}
	expected := []string{
		filepath.Join(dir, "02 c.MP3"),
		filepath.Join(dir, "CD1/01 a.flac"),
		filepath.Join(dir, "CD2/01 b.flac"),
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("collectAudioFiles() = %v, expected %v", got, expected)
	}

	if _, err := collectAudioFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestBuildSummary(t *testing.T) {
	lr := &loadedRelease{
		url:    "https://www.discogs.com/release/5887661",
		tracks: make([]release.NormalizedTrack, 3),
	}
	result := &export.Result{
		Folder:       "Drumcode 123 - Adam Beyer - Stormbringer",
		Path:         "export/Drumcode 123 - Adam Beyer - Stormbringer",
		FilesCopied:  2,
		FilesTagged:  1,
		BytesWritten: 2048,
		Unpaired:     []string{"3. Adam Beyer - Stormbringer"},
		Errors:       []error{errors.New("tag failed")},
		Duration:     time.Second,
	}

	summary := buildSummary(lr, result, report.NullLogger())

	if summary.TracksTotal != 3 || summary.FilesCopied != 2 || summary.FilesTagged != 1 {
		t.Errorf("Unexpected counts: %+v", summary)
	}
	if summary.ReleaseURL != lr.url || summary.FolderName != result.Folder {
		t.Errorf("Unexpected release fields: %+v", summary)
	}
	if !reflect.DeepEqual(summary.Errors, []string{"tag failed"}) {
		t.Errorf("Errors = %v", summary.Errors)
	}
	if summary.SessionID != "" {
		t.Errorf("Null logger should have no session, got %q", summary.SessionID)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"rip/a.mp3", "rip/./a.mp3", "rip/b.mp3"})
	expected := []string{"rip/a.mp3", "rip/b.mp3"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("dedupe() = %v, expected %v", got, expected)
	}
}
