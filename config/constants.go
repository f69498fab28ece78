package config

import "time"

// Subtitle Timing Constants
const (
	// DefaultSecondsPerWord is the estimated speaking time per word (~2 words per second)
	DefaultSecondsPerWord = 0.5

	// MaxSecondsPerWord is the slowest accepted speaking rate
	MaxSecondsPerWord = 10.0
)

// Composition Constants
const (
	// CanvasWidth is the background canvas width when background media is used
	CanvasWidth = 1920

	// CanvasHeight is the background canvas height when background media is used
	CanvasHeight = 1080

	// AvatarWidth is the width the avatar is scaled to when placed over a background
	AvatarWidth = 640

	// AvatarInset is the distance in pixels from the bottom-right corner of the canvas
	AvatarInset = 40

	// LogoWidth is the width the logo is scaled to
	LogoWidth = 200

	// LogoOffset is the distance in pixels from the top-left corner of the frame
	LogoOffset = 40
)

// Subtitle Burn-in Style Constants
const (
	// SubtitleFontName is the font family used for burned-in subtitles
	SubtitleFontName = "Arial"

	// SubtitleFontSize is the font size used for burned-in subtitles
	SubtitleFontSize = 24

	// SubtitlePrimaryColour is the fill colour in ASS &HAABBGGRR notation
	SubtitlePrimaryColour = "&H00FFFFFF"

	// SubtitleOutlineColour is the outline colour in ASS &HAABBGGRR notation
	SubtitleOutlineColour = "&H00000000"

	// SubtitleBorderStyle 1 draws an outline with drop shadow
	SubtitleBorderStyle = 1

	// SubtitleOutline is the outline width in pixels
	SubtitleOutline = 2
)

// Video Output Constants
const (
	// FFmpegBinary is the media tool invoked for assembly
	FFmpegBinary = "ffmpeg"

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"

	// VideoCRF is the constant rate factor (lower is better quality)
	VideoCRF = 22

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// ServiceName tags assembly results for usage monitoring
	ServiceName = "media-engine"
)

// Processing Constants
const (
	// MaxConcurrentJobs limits the number of assemblies run simultaneously
	MaxConcurrentJobs = 2

	// JobHistoryLimit is the number of jobs kept by the in-memory store
	JobHistoryLimit = 200

	// DriftWarningThreshold is the allowed gap in seconds between estimated
	// subtitle length and measured audio length before a warning is logged
	DriftWarningThreshold = 2.0

	// ShutdownGracePeriod is how long the API server gets to finish open
	// requests after a termination signal
	ShutdownGracePeriod = 5 * time.Second

	// ConsumeRetryBackoff is the pause before rejoining the consumer group
	// after a failed session
	ConsumeRetryBackoff = 2 * time.Second
)

// Directory Constants
const (
	// InputDir is the directory scanned for job files in batch mode
	InputDir = "input"

	// OutputDir is the directory for assembled videos
	OutputDir = "output"

	// WorkDir is the directory for generated subtitle files
	WorkDir = "temp"
)

// Service Constants
const (
	// DefaultAPIPort is the default port for the HTTP API server
	DefaultAPIPort = "8081"

	// DefaultKafkaBrokers is used when KAFKA_BOOTSTRAP_SERVERS is unset
	DefaultKafkaBrokers = "localhost:9093"

	// DefaultKafkaTopic carries assembly job messages
	DefaultKafkaTopic = "video-assembly-requests"

	// DefaultKafkaGroupID is the consumer group of the media engine
	DefaultKafkaGroupID = "media-engine-consumer-group"

	// DefaultRedisJobsKey is the Redis hash holding job records
	DefaultRedisJobsKey = "media-engine:jobs"
)

// YouTube Constants
const (
	// YouTubeCategoryID for News & Politics
	YouTubeCategoryID = "25"

	// YouTubePrivacyStatus sets default video visibility
	YouTubePrivacyStatus = "private"

	// MaxTitleLength is the maximum character length for video titles
	MaxTitleLength = 100
)
