package subtitles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"mediaengine/types"
)

// ErrMalformedSRT is returned by ParseSRT for input that is not SRT
var ErrMalformedSRT = errors.New("malformed srt")

// maxTimestamp is 99:59:59,999, the largest two-digit-hour SRT time
const maxTimestamp = 99*3600 + 59*60 + 59.999

// FormatTimestamp converts seconds to the SRT timestamp format (HH:MM:SS,mmm).
// Negative and NaN inputs render as zero; larger values are capped at 99:59:59,999.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if seconds > maxTimestamp {
		seconds = maxTimestamp
	}
	totalMillis := int64(math.Round(seconds * 1000))
	millis := totalMillis % 1000
	totalSecs := totalMillis / 1000

	hours := totalSecs / 3600
	minutes := (totalSecs % 3600) / 60
	secs := totalSecs % 60

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// Encode writes cues in SRT form: index line, timing line, text, blank line
func Encode(w io.Writer, cues []types.Cue) error {
	bw := bufio.NewWriter(w)
	for _, cue := range cues {
		fmt.Fprintf(bw, "%d\n", cue.Index)
		fmt.Fprintf(bw, "%s --> %s\n", FormatTimestamp(cue.Start), FormatTimestamp(cue.End))
		fmt.Fprintf(bw, "%s\n\n", cue.Text)
	}
	return bw.Flush()
}

// WriteSRT creates or overwrites path with the encoded cues
func WriteSRT(path string, cues []types.Cue) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create subtitle file: %w", err)
	}

	if err := Encode(file, cues); err != nil {
		file.Close()
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close subtitle file: %w", err)
	}
	return nil
}

// ParseSRT reads SRT cues. Cue text ends at the first blank line, so an
// empty text line yields a cue with empty text.
func ParseSRT(r io.Reader) ([]types.Cue, error) {
	scanner := bufio.NewScanner(r)
	var (
		cues   []types.Cue
		lineNo int
	)

	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNo++
		return strings.TrimRight(scanner.Text(), "\r"), true
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "\ufeff")))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid index %q", ErrMalformedSRT, lineNo, line)
		}

		timing, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: cue %d has no timing line", ErrMalformedSRT, index)
		}
		start, end, err := parseTimingLine(timing)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedSRT, lineNo, err)
		}

		var text []string
		for {
			l, ok := next()
			if !ok || l == "" {
				break
			}
			text = append(text, l)
		}

		cues = append(cues, types.Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(text, "\n"),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read srt: %w", err)
	}
	return cues, nil
}

func parseTimingLine(line string) (float64, float64, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := parseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	end, err := parseTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	return start, end, nil
}

// parseTimestamp accepts HH:MM:SS,mmm (a '.' millisecond separator is tolerated)
func parseTimestamp(s string) (float64, error) {
	s = strings.Replace(s, ".", ",", 1)
	hmsMillis := strings.Split(s, ",")
	if len(hmsMillis) != 2 {
		return 0, fmt.Errorf("missing milliseconds in %q", s)
	}
	hms := strings.Split(hmsMillis[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid h:m:s in %q", s)
	}

	values := make([]int, 0, 4)
	for _, field := range append(hms, hmsMillis[1]) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q in %q", field, s)
		}
		values = append(values, n)
	}

	totalMillis := int64(values[0])*3600000 + int64(values[1])*60000 + int64(values[2])*1000 + int64(values[3])
	return float64(totalMillis) / 1000, nil
}
