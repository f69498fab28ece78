package assembly

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"mediaengine/config"
	"mediaengine/types"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrNoOutput is returned when a request has no output path
var ErrNoOutput = errors.New("output path is required")

// Assembler composes avatar, audio, background, logo and subtitles into one
// video by running ffmpeg. Each call is independent; an Assembler holds no
// per-call state and may be shared.
type Assembler struct {
	cfg        config.Assembly
	runner     Runner
	fileExists func(string) bool
}

// New creates an Assembler. A nil runner runs the real binary.
func New(cfg config.Assembly, runner Runner) *Assembler {
	if runner == nil {
		runner = ExecRunner{}
	}
	if cfg.Binary == "" {
		cfg.Binary = config.FFmpegBinary
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = config.ServiceName
	}
	return &Assembler{
		cfg:        cfg,
		runner:     runner,
		fileExists: FileExists,
	}
}

// Config returns the configuration in use
func (a *Assembler) Config() config.Assembly {
	return a.cfg
}

// Stream builds the ffmpeg-go output stream for plan.
// With no optional stage the avatar video and the narration audio are mapped
// as they are.
func (a *Assembler) Stream(ctx context.Context, plan Plan, outputPath string) *ffmpeg.Stream {
	avatar := ffmpeg.Input(plan.Avatar)
	audio := ffmpeg.Input(plan.Audio)
	video := avatar.Video()

	if plan.Background != "" {
		background := ffmpeg.Input(plan.Background).Video().
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", a.cfg.CanvasWidth, a.cfg.CanvasHeight)})
		small := video.Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:-1", a.cfg.AvatarWidth)})
		video = ffmpeg.Filter([]*ffmpeg.Stream{background, small}, "overlay",
			ffmpeg.Args{fmt.Sprintf("main_w-overlay_w-%d:main_h-overlay_h-%d", a.cfg.AvatarInset, a.cfg.AvatarInset)})
	}

	if plan.Logo != "" {
		logo := ffmpeg.Input(plan.Logo).Video().
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:-1", a.cfg.LogoWidth)})
		video = ffmpeg.Filter([]*ffmpeg.Stream{video, logo}, "overlay",
			ffmpeg.Args{fmt.Sprintf("%d:%d", a.cfg.LogoOffset, a.cfg.LogoOffset)})
	}

	if plan.Subtitles != "" {
		video = video.Filter("subtitles",
			ffmpeg.Args{EscapeFilterPath(plan.Subtitles)},
			ffmpeg.KwArgs{"force_style": a.cfg.Subtitle.ForceStyle()})
	}

	return ffmpeg.OutputContext(ctx, []*ffmpeg.Stream{video, audio.Audio()}, outputPath, a.outputArgs()).
		OverWriteOutput().
		SetFfmpegPath(a.cfg.Binary)
}

func (a *Assembler) outputArgs() ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"c:v":    a.cfg.VideoCodec,
		"preset": a.cfg.VideoPreset,
		"crf":    a.cfg.VideoCRF,
		"c:a":    a.cfg.AudioCodec,
		"b:a":    a.cfg.AudioBitrate,
	}
	if a.cfg.Shortest {
		kwargs["shortest"] = ""
	}
	return kwargs
}

// Command compiles the ffmpeg command for req
func (a *Assembler) Command(ctx context.Context, req types.AssemblyRequest) (*exec.Cmd, error) {
	return a.command(ctx, a.Plan(req), req.OutputPath)
}

func (a *Assembler) command(ctx context.Context, plan Plan, outputPath string) (*exec.Cmd, error) {
	if strings.TrimSpace(outputPath) == "" {
		return nil, ErrNoOutput
	}
	return a.Stream(ctx, plan, outputPath).Compile(), nil
}

// Args returns the ffmpeg argument vector for req, without the binary name
func (a *Assembler) Args(req types.AssemblyRequest) ([]string, error) {
	cmd, err := a.Command(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return cmd.Args[1:], nil
}

// Assemble runs ffmpeg for req and waits for it to finish.
// Tool failures are reported in the result, never returned as errors.
// Duration covers the tool run only.
func (a *Assembler) Assemble(ctx context.Context, req types.AssemblyRequest) types.AssemblyResult {
	log.Printf("🚀 Starting assembly: %s", req.OutputPath)

	result := types.AssemblyResult{
		Service:    a.cfg.ServiceName,
		OutputPath: req.OutputPath,
	}

	plan := a.Plan(req)
	if len(plan.Stages) > 0 {
		log.Printf("🎬 Stages: %v", plan.Stages)
	}
	cmd, err := a.command(ctx, plan, req.OutputPath)
	if err != nil {
		return a.failed(result, err)
	}

	start := time.Now()
	err = a.runner.Run(cmd)
	result.Duration = time.Since(start).Seconds()
	if err != nil {
		return a.failed(result, err)
	}

	result.Status = types.StatusSuccess
	log.Printf("✅ Video assembled successfully in %.2fs: %s", result.Duration, req.OutputPath)
	return result
}

func (a *Assembler) failed(result types.AssemblyResult, err error) types.AssemblyResult {
	log.Printf("❌ Error during assembly: %v", err)
	result.Status = types.StatusFailure
	result.Error = err.Error()
	result.ExitCode = -1
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.Code
	}
	return result
}
