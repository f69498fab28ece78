package types

import "time"

// JobState tracks an assembly job through the service
type JobState string

const (
	JobQueued    JobState = "queued"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// PublishOptions requests an upload of the finished video to YouTube
type PublishOptions struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	PrivacyStatus string   `json:"privacy_status,omitempty"`
	SourceURL     string   `json:"source_url,omitempty"`
}

// AssemblyJob is the message accepted by the API, the Kafka consumer and batch mode.
// When Script is set and SubtitlePath is empty or missing on disk, subtitles
// are generated from it.
type AssemblyJob struct {
	ID string `json:"id,omitempty"`
	AssemblyRequest
	Script  []ScriptBlock   `json:"script,omitempty"`
	Publish *PublishOptions `json:"publish,omitempty"`
}

// Job is the stored record of an AssemblyJob
type Job struct {
	ID           string          `json:"id"`
	State        JobState        `json:"state"`
	Request      AssemblyRequest `json:"request"`
	SubtitlePath string          `json:"subtitle_path,omitempty"`
	Result       *AssemblyResult `json:"result,omitempty"`
	ObjectKey    string          `json:"object_key,omitempty"`
	VideoID      string          `json:"video_id,omitempty"`
	Error        string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Finished reports whether the job reached a terminal state
func (j Job) Finished() bool {
	return j.State == JobSucceeded || j.State == JobFailed
}
