package assembly

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrNoDuration is returned when media info carries no usable duration
var ErrNoDuration = errors.New("no duration in media info")

// Measurer measures the playback length of a media file in seconds
type Measurer interface {
	Duration(path string) (float64, error)
}

// ToolMeasurer reads media info with the ffmpeg tools on PATH
type ToolMeasurer struct{}

// Duration returns the container duration of path
func (ToolMeasurer) Duration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read media info for %s: %w", path, err)
	}
	return parseDurationJSON(out)
}

// MeasureDuration measures path with ToolMeasurer
func MeasureDuration(path string) (float64, error) {
	return ToolMeasurer{}.Duration(path)
}

type mediaInfo struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// parseDurationJSON reads the format duration, falling back to the longest stream
func parseDurationJSON(data string) (float64, error) {
	var info mediaInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return 0, fmt.Errorf("failed to parse media info: %w", err)
	}

	if d, ok := parseSeconds(info.Format.Duration); ok {
		return d, nil
	}

	longest := 0.0
	for _, s := range info.Streams {
		if d, ok := parseSeconds(s.Duration); ok && d > longest {
			longest = d
		}
	}
	if longest > 0 {
		return longest, nil
	}
	return 0, ErrNoDuration
}

func parseSeconds(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return 0, false
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
