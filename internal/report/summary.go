package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// SummaryReport describes one export run
type SummaryReport struct {
	GeneratedAt time.Time
	Duration    time.Duration

	ReleaseURL string
	FolderName string
	ExportPath string
	DryRun     bool

	TracksTotal  int
	FilesCopied  int
	FilesTagged  int
	ImagesSaved  int
	BytesWritten int64

	Unpaired  []string
	Conflicts []ConflictInfo
	Errors    []string

	SessionID    string
	EventLogPath string
}

// ConflictInfo represents a file conflict
type ConflictInfo struct {
	SrcPath  string
	DestPath string
	Reason   string
}

// ErrorSummary represents an error with its count
type ErrorSummary struct {
	Error string
	Count int
}

// TopErrors groups identical error messages, most frequent first
func (r *SummaryReport) TopErrors(limit int) []ErrorSummary {
	counts := make(map[string]int)
	for _, e := range r.Errors {
		counts[e]++
	}

	summaries := make([]ErrorSummary, 0, len(counts))
	for msg, n := range counts {
		summaries = append(summaries, ErrorSummary{Error: msg, Count: n})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Count != summaries[j].Count {
			return summaries[i].Count > summaries[j].Count
		}
		return summaries[i].Error < summaries[j].Error
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}

// WriteMarkdownReport writes the summary report as Markdown
func WriteMarkdownReport(report *SummaryReport, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var md strings.Builder

	md.WriteString("# Album Categorizer - Export Report\n\n")
	md.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	if report.ReleaseURL != "" {
		md.WriteString(fmt.Sprintf("**Release:** %s\n\n", report.ReleaseURL))
	}
	if report.SessionID != "" {
		md.WriteString(fmt.Sprintf("**Session:** `%s`\n\n", report.SessionID))
	}
	if report.EventLogPath != "" {
		md.WriteString(fmt.Sprintf("**Event Log:** `%s`\n\n", report.EventLogPath))
	}
	md.WriteString("---\n\n")

	md.WriteString("## 📀 Release\n\n")
	md.WriteString("| Metric | Value |\n")
	md.WriteString("|--------|-------|\n")
	md.WriteString(fmt.Sprintf("| Folder | %s |\n", report.FolderName))
	if report.ExportPath != "" {
		md.WriteString(fmt.Sprintf("| Destination | `%s` |\n", report.ExportPath))
	}
	if report.DryRun {
		md.WriteString("| Mode | dry-run |\n")
	}
	md.WriteString(fmt.Sprintf("| Tracks | %d |\n", report.TracksTotal))
	md.WriteString("\n")

	md.WriteString("## ⚡ Export\n\n")
	md.WriteString("| Metric | Value |\n")
	md.WriteString("|--------|-------|\n")
	md.WriteString(fmt.Sprintf("| Files Copied | %d |\n", report.FilesCopied))
	md.WriteString(fmt.Sprintf("| Files Tagged | %d |\n", report.FilesTagged))
	md.WriteString(fmt.Sprintf("| Images Saved | %d |\n", report.ImagesSaved))
	md.WriteString(fmt.Sprintf("| Bytes Written | %s |\n", humanize.Bytes(uint64(report.BytesWritten))))
	if report.Duration > 0 {
		md.WriteString(fmt.Sprintf("| Duration | %s |\n", report.Duration.Round(time.Millisecond)))
	}
	md.WriteString("\n")

	if len(report.Unpaired) > 0 {
		md.WriteString("## 🎵 Tracks Without Files\n\n")
		for _, name := range report.Unpaired {
			md.WriteString(fmt.Sprintf("- %s\n", name))
		}
		md.WriteString("\n")
	}

	if top := report.TopErrors(10); len(top) > 0 {
		md.WriteString("## ⚠️ Top Errors\n\n")
		md.WriteString("| Count | Error |\n")
		md.WriteString("|-------|-------|\n")
		for _, e := range top {
			md.WriteString(fmt.Sprintf("| %d | %s |\n", e.Count, e.Error))
		}
		md.WriteString("\n")
	}

	if len(report.Conflicts) > 0 {
		md.WriteString("## 🚨 Conflicts\n\n")
		md.WriteString("| Source | Destination | Reason |\n")
		md.WriteString("|--------|-------------|--------|\n")
		for _, conflict := range report.Conflicts {
			md.WriteString(fmt.Sprintf("| `%s` | `%s` | %s |\n",
				truncatePath(conflict.SrcPath, 40),
				truncatePath(conflict.DestPath, 40),
				conflict.Reason))
		}
		md.WriteString("\n")
	}

	if err := os.WriteFile(outputPath, []byte(md.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// truncatePath shortens a path to maxLen, keeping its start and end
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	start := maxLen/2 - 2
	end := len(path) - (maxLen/2 - 2)
	return path[:start] + "..." + path[end:]
}
