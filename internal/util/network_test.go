package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectNetworkFilesystem_TempDir(t *testing.T) {
	info, err := DetectNetworkFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("DetectNetworkFilesystem failed for temp dir: %v", err)
	}

	// Temp dir should almost always be local
	if info.IsNetwork {
		t.Logf("WARNING: Temp directory is on network storage (%s)", info.Protocol)
	}
}

func TestDetectNetworkFilesystem_NonExistent(t *testing.T) {
	if _, err := DetectNetworkFilesystem("/this/path/does/not/exist/hopefully"); err == nil {
		t.Error("Expected error for non-existent path")
	}
}

func TestExistingParent(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "export", "Label 1 - Artist - Title")

	if got := existingParent(missing); got != dir {
		t.Errorf("existingParent(%q) = %q, expected %q", missing, got, dir)
	}
	if got := existingParent(dir); got != dir {
		t.Errorf("existingParent(%q) = %q, expected itself", dir, got)
	}
}

func TestTuneForExport(t *testing.T) {
	dir := t.TempDir()

	enabled := true
	cfg := TuneForExport(dir, &enabled)
	if !cfg.IsNASMode || cfg.BufferSize != 256*1024 || cfg.ImageConcurrency != 2 || cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Forced NAS mode tuning = %+v", cfg)
	}
	if !strings.Contains(FormatExportTuning(cfg), "NAS mode: enabled") {
		t.Errorf("FormatExportTuning() = %q", FormatExportTuning(cfg))
	}

	disabled := false
	cfg = TuneForExport(dir, &disabled)
	if cfg.IsNASMode || cfg.BufferSize != DefaultBufferSize || cfg.Retry.MaxAttempts != 1 {
		t.Errorf("Disabled NAS mode tuning = %+v", cfg)
	}

	// Detection on a temp dir that does not exist yet must not fail
	cfg = TuneForExport(filepath.Join(dir, "new", "folder"), nil)
	if cfg.BufferSize <= 0 || cfg.ImageConcurrency <= 0 || cfg.Retry == nil {
		t.Errorf("Detected tuning = %+v", cfg)
	}
	if _, err := os.Stat(filepath.Join(dir, "new")); !os.IsNotExist(err) {
		t.Error("TuneForExport must not create directories")
	}
}
