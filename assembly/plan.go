package assembly

import (
	"os"
	"strings"

	"mediaengine/types"
)

// Stage names an optional composition step
type Stage string

const (
	StageBackground Stage = "background"
	StageLogo       Stage = "logo"
	StageSubtitles  Stage = "subtitles"
)

// Plan is the composition worked out for one request.
// Optional paths are empty when their stage does not apply.
type Plan struct {
	Avatar string
	Audio  string

	Background string
	Logo       string
	Subtitles  string

	// Stages lists the optional steps that apply, in application order
	Stages []Stage
}

// HasStage reports whether stage is part of the plan
func (p Plan) HasStage(stage Stage) bool {
	for _, s := range p.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Plan decides which optional stages apply.
// Stage order is fixed: background, then logo, then subtitles.
func (a *Assembler) Plan(req types.AssemblyRequest) Plan {
	plan := Plan{
		Avatar: req.AvatarPath,
		Audio:  req.AudioPath,
	}

	if a.usable(req.BackgroundPath) {
		plan.Background = req.BackgroundPath
		plan.Stages = append(plan.Stages, StageBackground)
	}
	if a.usable(req.LogoPath) {
		plan.Logo = req.LogoPath
		plan.Stages = append(plan.Stages, StageLogo)
	}
	if a.usable(req.SubtitlePath) {
		plan.Subtitles = req.SubtitlePath
		plan.Stages = append(plan.Stages, StageSubtitles)
	}
	return plan
}

// EscapeFilterPath prepares a file path for use as a filter option value:
// backslashes become forward slashes, and colons, quotes and equals signs
// are escaped.
func EscapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	for _, ch := range []string{"'", ":", "="} {
		path = strings.ReplaceAll(path, ch, "\\"+ch)
	}
	return path
}

// usable reports whether an optional path is set and names an existing file
func (a *Assembler) usable(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	return a.fileExists(path)
}

// FileExists reports whether path names an existing regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
