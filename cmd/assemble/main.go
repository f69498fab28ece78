package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"mediaengine/assembly"
	"mediaengine/config"
	"mediaengine/subtitles"
	"mediaengine/types"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	avatar := flag.String("avatar", "", "Avatar video (required)")
	audio := flag.String("audio", "", "Narration audio (required)")
	output := flag.String("output", filepath.Join(config.OutputDir, "final.mp4"), "Output video path")
	logo := flag.String("logo", "", "Optional logo image")
	background := flag.String("background", "", "Optional background image or video")
	subs := flag.String("subtitles", "", "Existing SRT file to burn in")
	script := flag.String("script", "", "JSON file with script blocks ([{\"content\": \"...\"}]) to generate subtitles from")
	srtPath := flag.String("srt", filepath.Join(config.WorkDir, "subtitles.srt"), "Where generated subtitles are written")
	fit := flag.Bool("fit", false, "Rescale generated subtitles to the measured audio length")
	flag.Parse()

	if *avatar == "" || *audio == "" {
		flag.Usage()
		log.Fatal("--avatar and --audio are required")
	}

	cfg := config.AssemblyFromEnv()
	req := types.AssemblyRequest{
		AvatarPath:     *avatar,
		AudioPath:      *audio,
		OutputPath:     *output,
		LogoPath:       *logo,
		SubtitlePath:   *subs,
		BackgroundPath: *background,
	}

	if *script != "" && *subs == "" {
		blocks, err := readScript(*script)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		if err := os.MkdirAll(filepath.Dir(*srtPath), 0o755); err != nil {
			log.Fatalf("❌ Failed to create subtitle directory: %v", err)
		}

		cues := subtitles.EstimateCues(blocks, cfg.SecondsPerWord)
		if *fit {
			if total, err := assembly.MeasureDuration(*audio); err != nil {
				log.Printf("⚠️ Could not measure audio, keeping estimated timing: %v", err)
			} else {
				cues = subtitles.FitToDuration(cues, total)
			}
		}
		if err := subtitles.WriteSRT(*srtPath, cues); err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Printf("📝 Subtitles written: %s (%d cues)", *srtPath, len(cues))
		req.SubtitlePath = *srtPath
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		log.Fatalf("❌ Failed to create output directory: %v", err)
	}

	result := assembly.New(cfg, assembly.ExecRunner{Stdout: os.Stderr}).Assemble(context.Background(), req)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("❌ Failed to print result: %v", err)
	}
	if !result.Succeeded() {
		os.Exit(1)
	}
}

// readScript accepts a bare array of blocks or an object with a "script" field
func readScript(path string) ([]types.ScriptBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	var blocks []types.ScriptBlock
	if err := json.Unmarshal(data, &blocks); err == nil {
		return blocks, nil
	}

	var wrapped struct {
		Script []types.ScriptBlock `json:"script"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return wrapped.Script, nil
}
