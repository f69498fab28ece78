package types

// AssemblyRequest names the media files of one assembly.
// AvatarPath, AudioPath and OutputPath are mandatory; the remaining paths
// are used only when non-empty and present on disk at invocation time.
type AssemblyRequest struct {
	AvatarPath     string `json:"avatar_path"`
	AudioPath      string `json:"audio_path"`
	OutputPath     string `json:"output_path"`
	LogoPath       string `json:"logo_path,omitempty"`
	SubtitlePath   string `json:"subtitle_path,omitempty"`
	BackgroundPath string `json:"background_path,omitempty"`
}

// Status is the outcome of an assembly
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// AssemblyResult records one invocation of the media tool.
// Duration is the wall-clock time of the tool run in seconds.
type AssemblyResult struct {
	Service    string  `json:"service"`
	Duration   float64 `json:"duration"`
	Status     Status  `json:"status"`
	OutputPath string  `json:"output_path,omitempty"`
	ExitCode   int     `json:"exit_code,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Succeeded reports whether the media tool exited cleanly
func (r AssemblyResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
