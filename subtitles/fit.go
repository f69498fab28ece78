package subtitles

import "mediaengine/types"

// FitToDuration rescales cues linearly so the last cue ends at total seconds.
// Relative proportions are kept, so cues stay contiguous. Cues are returned
// unchanged (as a copy) when total or the estimated length is not positive.
func FitToDuration(cues []types.Cue, total float64) []types.Cue {
	out := make([]types.Cue, len(cues))
	copy(out, cues)

	estimated := EstimatedDuration(cues)
	if total <= 0 || estimated <= 0 {
		return out
	}

	factor := total / estimated
	for i := range out {
		out[i].Start *= factor
		out[i].End *= factor
	}
	// pin the final boundary to the measured length
	out[len(out)-1].End = total
	return out
}

// Drift returns how far the estimated subtitle length is from the measured
// media length. Positive values mean subtitles outlast the audio.
func Drift(cues []types.Cue, measured float64) float64 {
	return EstimatedDuration(cues) - measured
}
