package publish

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"mediaengine/config"
	"mediaengine/types"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// DefaultTags are applied when a publish request carries no tags
var DefaultTags = []string{"tvfacebrasil", "comunidade", "brasileiroseua"}

// VideoMetadata is the snippet and status sent with an upload
type VideoMetadata struct {
	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PrivacyStatus string
}

// Uploader publishes videos to YouTube with a service account
type Uploader struct {
	service *youtube.Service
}

// NewUploader reads the service-account key at serviceAccountFile
func NewUploader(ctx context.Context, serviceAccountFile string) (*Uploader, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	return &Uploader{service: service}, nil
}

// UploadVideo uploads the file at videoPath and returns the new video ID
func (u *Uploader) UploadVideo(ctx context.Context, videoPath string, metadata VideoMetadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}

	log.Printf("📤 Uploading to YouTube: %s (%.2f MB)", videoPath, float64(info.Size())/(1024*1024))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       metadata.Title,
			Description: metadata.Description,
			Tags:        metadata.Tags,
			CategoryId:  metadata.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           metadata.PrivacyStatus,
			SelfDeclaredMadeForKids: false,
		},
	}

	response, err := u.service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(file).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	log.Printf("✅ Uploaded! https://youtube.com/watch?v=%s", response.Id)
	return response.Id, nil
}

// GenerateMetadata fills in upload metadata for a finished video.
// Missing titles fall back to the output file name; long titles are truncated.
func GenerateMetadata(opts types.PublishOptions, videoPath string) VideoMetadata {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		base := filepath.Base(videoPath)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if len([]rune(title)) > config.MaxTitleLength {
		title = string([]rune(title)[:config.MaxTitleLength-3]) + "..."
	}

	var desc strings.Builder
	desc.WriteString(strings.TrimSpace(opts.Description))
	if source := strings.TrimSpace(opts.SourceURL); source != "" {
		if desc.Len() > 0 {
			desc.WriteString("\n\n")
		}
		desc.WriteString("🔗 Fonte: ")
		desc.WriteString(source)
	}

	tags := make([]string, 0, len(opts.Tags))
	for _, tag := range opts.Tags {
		if clean := strings.TrimSpace(tag); clean != "" {
			tags = append(tags, clean)
		}
	}
	if len(tags) == 0 {
		tags = append(tags, DefaultTags...)
	}

	privacy := strings.TrimSpace(opts.PrivacyStatus)
	if privacy == "" {
		privacy = config.YouTubePrivacyStatus
	}

	return VideoMetadata{
		Title:         title,
		Description:   desc.String(),
		Tags:          tags,
		CategoryID:    config.YouTubeCategoryID,
		PrivacyStatus: privacy,
	}
}
