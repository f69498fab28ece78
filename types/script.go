package types

// ScriptBlock is one ordered piece of narration text
type ScriptBlock struct {
	Content string `json:"content"`
}

// Cue is a single timed subtitle entry. Start and End are in seconds.
type Cue struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the time the cue stays on screen
func (c Cue) Duration() float64 {
	return c.End - c.Start
}
