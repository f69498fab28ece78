package subtitles

import (
	"strings"

	"mediaengine/config"
	"mediaengine/types"
)

// WordCount returns the number of whitespace-delimited tokens in s
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// EstimateCues derives one cue per block from word counts.
// Cues are laid back to back starting at zero: each lasts
// WordCount(content) * secondsPerWord and begins where the previous one ended.
// A rate that is not positive and finite, or above config.MaxSecondsPerWord,
// falls back to config.DefaultSecondsPerWord.
func EstimateCues(blocks []types.ScriptBlock, secondsPerWord float64) []types.Cue {
	if !config.ValidSecondsPerWord(secondsPerWord) {
		secondsPerWord = config.DefaultSecondsPerWord
	}

	cues := make([]types.Cue, 0, len(blocks))
	clock := 0.0
	for i, block := range blocks {
		duration := float64(WordCount(block.Content)) * secondsPerWord
		cues = append(cues, types.Cue{
			Index: i + 1,
			Start: clock,
			End:   clock + duration,
			Text:  block.Content,
		})
		clock += duration
	}
	return cues
}

// EstimatedDuration returns the end time of the last cue
func EstimatedDuration(cues []types.Cue) float64 {
	if len(cues) == 0 {
		return 0
	}
	return cues[len(cues)-1].End
}

// GenerateSubtitles estimates cues for blocks and writes them to path as SRT.
// The file is created or truncated; write failures are returned.
func GenerateSubtitles(blocks []types.ScriptBlock, path string, secondsPerWord float64) ([]types.Cue, error) {
	cues := EstimateCues(blocks, secondsPerWord)
	if err := WriteSRT(path, cues); err != nil {
		return nil, err
	}
	return cues, nil
}
