package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"mediaengine/publish"
	"mediaengine/types"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	videoPath := flag.String("video", "", "Path to the MP4 file to upload")
	title := flag.String("title", "", "Video title (defaults to the file name)")
	description := flag.String("description", "", "Video description")
	sourceURL := flag.String("source-url", "", "Optional source URL appended to the description")
	tags := flag.String("tags", "", "Comma-separated list of tags")
	privacy := flag.String("privacy", "", "private, unlisted or public (default private)")
	keyFile := flag.String("credentials", os.Getenv("YOUTUBE_SERVICE_ACCOUNT"), "Service-account JSON key")
	flag.Parse()

	if *videoPath == "" {
		flag.Usage()
		log.Fatal("--video is required")
	}
	if err := ensureFileExists(*videoPath); err != nil {
		log.Fatalf("invalid video path: %v", err)
	}
	if *keyFile == "" {
		log.Fatal("--credentials or YOUTUBE_SERVICE_ACCOUNT is required")
	}

	ctx := context.Background()
	uploader, err := publish.NewUploader(ctx, *keyFile)
	if err != nil {
		log.Fatalf("failed to initialize uploader: %v", err)
	}

	metadata := publish.GenerateMetadata(types.PublishOptions{
		Title:         *title,
		Description:   *description,
		Tags:          strings.Split(*tags, ","),
		PrivacyStatus: *privacy,
		SourceURL:     *sourceURL,
	}, *videoPath)

	videoID, err := uploader.UploadVideo(ctx, *videoPath, metadata)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}
	fmt.Println(videoID)
}

func ensureFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}
	return nil
}
