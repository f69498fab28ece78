package config

import (
	"fmt"
	"strings"
)

// SubtitleStyle describes how burned-in subtitles are rendered.
// Colours use the ASS &HAABBGGRR notation understood by libass.
type SubtitleStyle struct {
	FontName      string
	FontSize      int
	PrimaryColour string
	OutlineColour string
	BorderStyle   int
	Outline       int
}

// ForceStyle renders the style as the value of the subtitles filter's force_style option.
func (s SubtitleStyle) ForceStyle() string {
	parts := []string{
		"FontName=" + s.FontName,
		fmt.Sprintf("FontSize=%d", s.FontSize),
		"PrimaryColour=" + s.PrimaryColour,
		"OutlineColour=" + s.OutlineColour,
		fmt.Sprintf("BorderStyle=%d", s.BorderStyle),
		fmt.Sprintf("Outline=%d", s.Outline),
	}
	return strings.Join(parts, ",")
}

// ValidSecondsPerWord reports whether rate is a usable speaking rate:
// positive, finite and at most MaxSecondsPerWord.
func ValidSecondsPerWord(rate float64) bool {
	return rate > 0 && rate <= MaxSecondsPerWord
}

// Assembly holds every tunable used when composing and encoding a video.
// Start from DefaultAssembly and override individual fields.
type Assembly struct {
	// Binary is the ffmpeg executable name or path
	Binary string

	// SecondsPerWord drives subtitle timing estimation
	SecondsPerWord float64

	// CanvasWidth and CanvasHeight size the background media
	CanvasWidth  int
	CanvasHeight int

	// AvatarWidth is the avatar width when composed over a background
	AvatarWidth int
	// AvatarInset is the avatar distance from the bottom-right corner
	AvatarInset int

	// LogoWidth is the scaled logo width
	LogoWidth int
	// LogoOffset is the logo distance from the top-left corner
	LogoOffset int

	Subtitle SubtitleStyle

	VideoCodec   string
	VideoPreset  string
	VideoCRF     int
	AudioCodec   string
	AudioBitrate string

	// Shortest truncates the output to the shortest mapped stream
	Shortest bool

	// ServiceName tags every AssemblyResult
	ServiceName string
}

// DefaultAssembly returns the documented defaults.
func DefaultAssembly() Assembly {
	return Assembly{
		Binary:         FFmpegBinary,
		SecondsPerWord: DefaultSecondsPerWord,
		CanvasWidth:    CanvasWidth,
		CanvasHeight:   CanvasHeight,
		AvatarWidth:    AvatarWidth,
		AvatarInset:    AvatarInset,
		LogoWidth:      LogoWidth,
		LogoOffset:     LogoOffset,
		Subtitle: SubtitleStyle{
			FontName:      SubtitleFontName,
			FontSize:      SubtitleFontSize,
			PrimaryColour: SubtitlePrimaryColour,
			OutlineColour: SubtitleOutlineColour,
			BorderStyle:   SubtitleBorderStyle,
			Outline:       SubtitleOutline,
		},
		VideoCodec:   VideoCodec,
		VideoPreset:  VideoPreset,
		VideoCRF:     VideoCRF,
		AudioCodec:   AudioCodec,
		AudioBitrate: AudioBitrate,
		Shortest:     true,
		ServiceName:  ServiceName,
	}
}

// AssemblyFromEnv applies environment overrides on top of DefaultAssembly.
// Recognised variables: FFMPEG_BINARY, SECONDS_PER_WORD, CANVAS_WIDTH,
// CANVAS_HEIGHT, AVATAR_WIDTH, AVATAR_INSET, LOGO_WIDTH, LOGO_OFFSET,
// SUBTITLE_FONT, SUBTITLE_FONT_SIZE, SUBTITLE_PRIMARY_COLOUR,
// SUBTITLE_OUTLINE_COLOUR, SUBTITLE_BORDER_STYLE, SUBTITLE_OUTLINE,
// VIDEO_CODEC, VIDEO_PRESET, VIDEO_CRF, AUDIO_CODEC, AUDIO_BITRATE,
// OUTPUT_SHORTEST.
func AssemblyFromEnv() Assembly {
	cfg := DefaultAssembly()

	cfg.Binary = getEnv("FFMPEG_BINARY", cfg.Binary)
	if rate := getEnvFloat("SECONDS_PER_WORD", cfg.SecondsPerWord); ValidSecondsPerWord(rate) {
		cfg.SecondsPerWord = rate
	}
	cfg.CanvasWidth = getEnvInt("CANVAS_WIDTH", cfg.CanvasWidth)
	cfg.CanvasHeight = getEnvInt("CANVAS_HEIGHT", cfg.CanvasHeight)
	cfg.AvatarWidth = getEnvInt("AVATAR_WIDTH", cfg.AvatarWidth)
	cfg.AvatarInset = getEnvInt("AVATAR_INSET", cfg.AvatarInset)
	cfg.LogoWidth = getEnvInt("LOGO_WIDTH", cfg.LogoWidth)
	cfg.LogoOffset = getEnvInt("LOGO_OFFSET", cfg.LogoOffset)

	cfg.Subtitle.FontName = getEnv("SUBTITLE_FONT", cfg.Subtitle.FontName)
	cfg.Subtitle.FontSize = getEnvInt("SUBTITLE_FONT_SIZE", cfg.Subtitle.FontSize)
	cfg.Subtitle.PrimaryColour = getEnv("SUBTITLE_PRIMARY_COLOUR", cfg.Subtitle.PrimaryColour)
	cfg.Subtitle.OutlineColour = getEnv("SUBTITLE_OUTLINE_COLOUR", cfg.Subtitle.OutlineColour)
	cfg.Subtitle.BorderStyle = getEnvInt("SUBTITLE_BORDER_STYLE", cfg.Subtitle.BorderStyle)
	cfg.Subtitle.Outline = getEnvInt("SUBTITLE_OUTLINE", cfg.Subtitle.Outline)

	cfg.VideoCodec = getEnv("VIDEO_CODEC", cfg.VideoCodec)
	cfg.VideoPreset = getEnv("VIDEO_PRESET", cfg.VideoPreset)
	cfg.VideoCRF = getEnvInt("VIDEO_CRF", cfg.VideoCRF)
	cfg.AudioCodec = getEnv("AUDIO_CODEC", cfg.AudioCodec)
	cfg.AudioBitrate = getEnv("AUDIO_BITRATE", cfg.AudioBitrate)
	cfg.Shortest = getEnvBool("OUTPUT_SHORTEST", cfg.Shortest)

	return cfg
}
