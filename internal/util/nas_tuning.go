package util

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultBufferSize is the copy buffer used on local disks
	DefaultBufferSize = 128 * 1024

	// DefaultImageConcurrency is the number of parallel image downloads
	DefaultImageConcurrency = 4
)

// ExportTuning holds copy settings for an export directory
type ExportTuning struct {
	BufferSize       int
	ImageConcurrency int
	Retry            *RetryConfig
	IsNASMode        bool
	DetectedInfo     *NetworkInfo
}

// TuneForExport detects whether exportDir is on network storage and returns
// settings for it. The directory does not need to exist yet; its nearest
// existing parent is inspected. If nasMode is set it overrides detection.
func TuneForExport(exportDir string, nasMode *bool) *ExportTuning {
	cfg := &ExportTuning{
		BufferSize:       DefaultBufferSize,
		ImageConcurrency: DefaultImageConcurrency,
		Retry:            NoRetry(),
	}

	if nasMode != nil {
		if *nasMode {
			applyNASOptimizations(cfg)
			InfoLog("NAS mode: explicitly enabled via config/flag")
		}
		return cfg
	}

	info, err := DetectNetworkFilesystem(existingParent(exportDir))
	if err != nil {
		WarnLog("Failed to detect filesystem for export directory (%s): %v", exportDir, err)
		return cfg
	}
	if !info.IsNetwork {
		DebugLog("Local filesystem detected - using standard settings")
		return cfg
	}

	cfg.DetectedInfo = info
	applyNASOptimizations(cfg)
	InfoLog("Network filesystem detected: export directory is on %s (%s)", info.Protocol, info.MountPath)
	DebugLog("%s", FormatExportTuning(cfg))
	return cfg
}

// applyNASOptimizations trades parallelism for larger transfers and retries
func applyNASOptimizations(cfg *ExportTuning) {
	cfg.IsNASMode = true
	cfg.BufferSize = 256 * 1024
	cfg.ImageConcurrency = 2
	cfg.Retry = NASRetryConfig()
}

// existingParent walks up from path to the first directory that exists
func existingParent(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(abs); err == nil {
			return abs
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return abs
		}
		abs = parent
	}
}

// FormatExportTuning returns a human-readable string of the tuning
func FormatExportTuning(cfg *ExportTuning) string {
	if !cfg.IsNASMode {
		return "NAS mode: disabled (local filesystem)"
	}

	protocol := "unknown"
	mountPath := "unknown"
	if cfg.DetectedInfo != nil {
		protocol = cfg.DetectedInfo.Protocol
		mountPath = cfg.DetectedInfo.MountPath
	}

	return fmt.Sprintf(`NAS mode: enabled
  Protocol: %s
  Mount: %s
  Image downloads: %d parallel
  Buffer: %dKB
  Retries: %d`,
		protocol, mountPath,
		cfg.ImageConcurrency, cfg.BufferSize/1024,
		cfg.Retry.MaxAttempts)
}
