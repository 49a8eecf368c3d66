package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Info holds the probe results the importer and publisher need.
type Info struct {
	DurationSeconds float64
	Width           int
	Height          int
}

// HasDuration reports whether the probe produced a usable duration.
func (i Info) HasDuration() bool {
	return i.DurationSeconds > 0
}

// HasDimensions reports whether the probe produced usable frame dimensions.
func (i Info) HasDimensions() bool {
	return i.Width > 0 && i.Height > 0
}

type probeResult struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe executes ffprobe against the provided path and extracts the
// container duration and the first video stream's dimensions.
func Probe(ctx context.Context, binary, path string) (Info, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Info{}, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return Info{}, fmt.Errorf("ffprobe parse: %w", err)
	}

	info := Info{}
	if parsed, err := strconv.ParseFloat(strings.TrimSpace(result.Format.Duration), 64); err == nil && parsed > 0 {
		info.DurationSeconds = parsed
	}
	for _, stream := range result.Streams {
		if strings.EqualFold(stream.CodecType, "video") && stream.Width > 0 && stream.Height > 0 {
			info.Width = stream.Width
			info.Height = stream.Height
			break
		}
	}
	return info, nil
}
