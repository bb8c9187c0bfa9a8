package tagging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"

	"github.com/franz/album-categorizer/internal/util"
)

// FFprobeInfo represents the output from ffprobe
type FFprobeInfo struct {
	Streams []FFprobeStream `json:"streams"`
	Format  *FFprobeFormat  `json:"format"`
}

// IntOrString can unmarshal both integers and strings from JSON
type IntOrString struct {
	Value int
}

// UnmarshalJSON accepts 16, "16", "" and "N/A"
func (i *IntOrString) UnmarshalJSON(data []byte) error {
	var intVal int
	if err := json.Unmarshal(data, &intVal); err == nil {
		i.Value = intVal
		return nil
	}

	var strVal string
	if err := json.Unmarshal(data, &strVal); err != nil {
		return err
	}

	parsed, err := strconv.Atoi(strVal)
	if err != nil {
		i.Value = 0
		return nil
	}
	i.Value = parsed
	return nil
}

// FFprobeStream is one stream of the probed file
type FFprobeStream struct {
	Index         int         `json:"index"`
	CodecName     string      `json:"codec_name"`
	CodecType     string      `json:"codec_type"`
	SampleRate    IntOrString `json:"sample_rate"`
	Channels      int         `json:"channels"`
	BitsPerSample IntOrString `json:"bits_per_sample"`
	Duration      string      `json:"duration"`
}

// FFprobeFormat represents container format metadata
type FFprobeFormat struct {
	Filename   string            `json:"filename"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags"`
}

// Prober runs ffprobe to read stream properties
type Prober struct {
	binary string
}

// NewProber creates a prober using the ffprobe binary at path
func NewProber(path string) *Prober {
	if path == "" {
		path = "ffprobe"
	}
	return &Prober{binary: path}
}

// Available reports whether the ffprobe binary can be found
func (p *Prober) Available() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

// Probe executes ffprobe and parses the JSON output
func (p *Prober) Probe(ctx context.Context, path string) (*FFprobeInfo, error) {
	if !p.Available() {
		return nil, fmt.Errorf("ffprobe: %w", util.ErrNotFound)
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ffprobe failed: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	var info FFprobeInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &info, nil
}

// ProbeDuration returns the playing time of path in whole seconds
func (p *Prober) ProbeDuration(ctx context.Context, path string) (int, error) {
	info, err := p.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.DurationSeconds()
}

// DurationSeconds reads the container duration, falling back to the
// first audio stream
func (info *FFprobeInfo) DurationSeconds() (int, error) {
	candidates := []string{}
	if info.Format != nil {
		candidates = append(candidates, info.Format.Duration)
	}
	for _, s := range info.Streams {
		if s.CodecType == "audio" {
			candidates = append(candidates, s.Duration)
		}
	}

	for _, c := range candidates {
		if c == "" || c == "N/A" {
			continue
		}
		secs, err := strconv.ParseFloat(c, 64)
		if err != nil || secs < 0 {
			continue
		}
		return int(math.Round(secs)), nil
	}
	return 0, fmt.Errorf("no duration in ffprobe output: %w", util.ErrNotFound)
}
