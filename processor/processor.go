package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mediaengine/assembly"
	"mediaengine/config"
	"mediaengine/jobs"
	"mediaengine/publish"
	"mediaengine/subtitles"
	"mediaengine/types"

	"github.com/google/uuid"
)

// ErrInvalidJob is returned when a job is missing mandatory inputs
var ErrInvalidJob = errors.New("invalid assembly job")

// Assembler runs one assembly
type Assembler interface {
	Assemble(ctx context.Context, req types.AssemblyRequest) types.AssemblyResult
	Config() config.Assembly
}

// ArtifactStore keeps finished videos and subtitle files
type ArtifactStore interface {
	UploadArtifact(ctx context.Context, jobID, localPath string) (string, error)
}

// Publisher uploads finished videos to a video platform
type Publisher interface {
	UploadVideo(ctx context.Context, videoPath string, metadata publish.VideoMetadata) (string, error)
}

// Deps wires a VideoProcessor. Assembler is required; Store defaults to an
// in-memory store; Artifacts, Publisher and Measurer are optional.
type Deps struct {
	Assembler Assembler
	Store     jobs.Store
	Artifacts ArtifactStore
	Publisher Publisher
	Measurer  assembly.Measurer

	// FitSubtitles rescales estimated cues to the measured audio length
	FitSubtitles bool

	WorkDir       string
	OutputDir     string
	MaxConcurrent int
}

// VideoProcessor runs assembly jobs: subtitles, assembly, upload and publishing
type VideoProcessor struct {
	deps Deps
	sem  chan struct{}
}

// BatchSummary counts the outcome of a batch run
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
}

// New creates a VideoProcessor
func New(deps Deps) *VideoProcessor {
	if deps.Store == nil {
		deps.Store = jobs.NewMemoryStore(config.JobHistoryLimit)
	}
	if deps.WorkDir == "" {
		deps.WorkDir = config.WorkDir
	}
	if deps.OutputDir == "" {
		deps.OutputDir = config.OutputDir
	}
	if deps.MaxConcurrent < 1 {
		deps.MaxConcurrent = config.MaxConcurrentJobs
	}
	return &VideoProcessor{
		deps: deps,
		sem:  make(chan struct{}, deps.MaxConcurrent),
	}
}

// Store returns the job store
func (p *VideoProcessor) Store() jobs.Store {
	return p.deps.Store
}

// Validate checks mandatory fields of a job. A subtitle file that exists
// must parse as SRT.
func Validate(job types.AssemblyJob) error {
	if strings.TrimSpace(job.AvatarPath) == "" {
		return fmt.Errorf("%w: avatar_path is required", ErrInvalidJob)
	}
	if strings.TrimSpace(job.AudioPath) == "" {
		return fmt.Errorf("%w: audio_path is required", ErrInvalidJob)
	}
	if path := job.SubtitlePath; strings.TrimSpace(path) != "" && assembly.FileExists(path) {
		if err := checkSubtitleFile(path); err != nil {
			return fmt.Errorf("%w: subtitle_path: %v", ErrInvalidJob, err)
		}
	}
	return nil
}

func checkSubtitleFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cues, err := subtitles.ParseSRT(f)
	if err != nil {
		return err
	}
	for _, cue := range cues {
		if cue.Duration() < 0 {
			return fmt.Errorf("%w: cue %d ends before it starts", subtitles.ErrMalformedSRT, cue.Index)
		}
	}
	return nil
}

// Submit validates job, assigns its ID and records it as queued
func (p *VideoProcessor) Submit(ctx context.Context, job types.AssemblyJob) (types.AssemblyJob, error) {
	if err := Validate(job); err != nil {
		return job, err
	}
	p.prepare(&job)

	rec := types.Job{ID: job.ID, State: types.JobQueued, Request: job.AssemblyRequest}
	if err := p.deps.Store.Save(ctx, rec); err != nil {
		return job, fmt.Errorf("failed to record job: %w", err)
	}
	log.Printf("📥 Queued job %s", job.ID)
	return job, nil
}

func (p *VideoProcessor) prepare(job *types.AssemblyJob) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if strings.TrimSpace(job.OutputPath) == "" {
		job.OutputPath = filepath.Join(p.deps.OutputDir, job.ID+".mp4")
	}
}

// Process runs one job to completion.
// A failed assembly is reported in the result with a nil error; errors are
// reserved for subtitle, storage and upload failures, and for assemblies
// cut short by ctx.
func (p *VideoProcessor) Process(ctx context.Context, job types.AssemblyJob) (types.AssemblyResult, error) {
	if err := Validate(job); err != nil {
		return types.AssemblyResult{}, err
	}
	p.prepare(&job)

	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-ctx.Done():
		return types.AssemblyResult{}, ctx.Err()
	}

	rec := types.Job{ID: job.ID, State: types.JobRunning, Request: job.AssemblyRequest}
	if err := p.deps.Store.Save(ctx, rec); err != nil {
		return types.AssemblyResult{}, fmt.Errorf("failed to record job: %w", err)
	}
	log.Printf("🚀 Processing job %s", job.ID)

	req := job.AssemblyRequest
	given := strings.TrimSpace(req.SubtitlePath) != ""
	switch {
	case given && assembly.FileExists(req.SubtitlePath):
		// caller-supplied file, already checked by Validate
	case len(job.Script) > 0:
		if given {
			log.Printf("⚠️ Subtitle file %s not found for job %s, generating from script", req.SubtitlePath, job.ID)
		}
		path, err := p.writeSubtitles(job)
		if err != nil {
			return types.AssemblyResult{}, p.fail(ctx, rec, err)
		}
		req.SubtitlePath = path
		rec.SubtitlePath = path
	case given:
		log.Printf("⚠️ Subtitle file %s not found for job %s, assembling without subtitles", req.SubtitlePath, job.ID)
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return types.AssemblyResult{}, p.fail(ctx, rec, fmt.Errorf("failed to create output directory: %w", err))
	}

	result := p.deps.Assembler.Assemble(ctx, req)
	rec.Result = &result
	if !result.Succeeded() && ctx.Err() != nil {
		// the record outlives the cancelled request
		return result, p.fail(context.WithoutCancel(ctx), rec, fmt.Errorf("assembly interrupted: %w", ctx.Err()))
	}
	if !result.Succeeded() {
		rec.State = types.JobFailed
		rec.Error = result.Error
		log.Printf("❌ Job %s failed: %s", job.ID, result.Error)
		return result, p.save(ctx, rec)
	}

	if p.deps.Artifacts != nil {
		key, err := p.deps.Artifacts.UploadArtifact(ctx, job.ID, req.OutputPath)
		if err != nil {
			return result, p.fail(ctx, rec, fmt.Errorf("artifact upload failed: %w", err))
		}
		rec.ObjectKey = key
		if rec.SubtitlePath != "" {
			if _, err := p.deps.Artifacts.UploadArtifact(ctx, job.ID, rec.SubtitlePath); err != nil {
				log.Printf("⚠️ Subtitle upload failed for job %s: %v", job.ID, err)
			}
		}
	}

	if job.Publish != nil {
		if p.deps.Publisher == nil {
			log.Printf("⚠️ Publishing requested for job %s but no publisher is configured", job.ID)
		} else {
			metadata := publish.GenerateMetadata(*job.Publish, req.OutputPath)
			videoID, err := p.deps.Publisher.UploadVideo(ctx, req.OutputPath, metadata)
			if err != nil {
				return result, p.fail(ctx, rec, fmt.Errorf("publish failed: %w", err))
			}
			rec.VideoID = videoID
		}
	}

	rec.State = types.JobSucceeded
	log.Printf("✅ Job %s done: %s", job.ID, req.OutputPath)
	return result, p.save(ctx, rec)
}

// writeSubtitles estimates cues for the job script and writes them to the work dir
func (p *VideoProcessor) writeSubtitles(job types.AssemblyJob) (string, error) {
	if err := os.MkdirAll(p.deps.WorkDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	path := filepath.Join(p.deps.WorkDir, job.ID+".srt")

	cues := subtitles.EstimateCues(job.Script, p.deps.Assembler.Config().SecondsPerWord)

	if p.deps.Measurer != nil {
		audio, err := p.deps.Measurer.Duration(job.AudioPath)
		if err != nil {
			log.Printf("⚠️ Could not measure audio for job %s: %v", job.ID, err)
		} else {
			drift := subtitles.Drift(cues, audio)
			if math.Abs(drift) > config.DriftWarningThreshold {
				log.Printf("⚠️ Subtitle estimate differs from audio by %.2fs (estimate %.2fs, audio %.2fs)",
					drift, subtitles.EstimatedDuration(cues), audio)
			}
			if p.deps.FitSubtitles {
				cues = subtitles.FitToDuration(cues, audio)
			}
		}
	}

	if err := subtitles.WriteSRT(path, cues); err != nil {
		return "", err
	}
	log.Printf("📝 Subtitles written: %s (%d cues)", path, len(cues))
	return path, nil
}

func (p *VideoProcessor) fail(ctx context.Context, rec types.Job, err error) error {
	rec.State = types.JobFailed
	rec.Error = err.Error()
	log.Printf("❌ Job %s failed: %v", rec.ID, err)
	if saveErr := p.save(ctx, rec); saveErr != nil {
		log.Printf("⚠️ %v", saveErr)
	}
	return err
}

func (p *VideoProcessor) save(ctx context.Context, rec types.Job) error {
	if err := p.deps.Store.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to record job %s: %w", rec.ID, err)
	}
	return nil
}

// ProcessFromDirectory runs every *.json job file in dir, bounded by MaxConcurrent.
// Unreadable files are logged and counted as failures.
func (p *VideoProcessor) ProcessFromDirectory(ctx context.Context, dir string) (BatchSummary, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return BatchSummary{}, fmt.Errorf("failed to read job files: %w", err)
	}

	summary := BatchSummary{Total: len(files)}
	if len(files) == 0 {
		log.Printf("No job files found in %s", dir)
		return summary, nil
	}
	log.Printf("Found %d jobs to process", len(files))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i, file := range files {
		wg.Add(1)
		go func(idx int, file string) {
			defer wg.Done()

			ok := p.processFile(ctx, file, idx+1, len(files))

			mu.Lock()
			defer mu.Unlock()
			if ok {
				summary.Succeeded++
			} else {
				summary.Failed++
			}
		}(i, file)
	}
	wg.Wait()

	log.Printf("Batch finished: %d succeeded, %d failed", summary.Succeeded, summary.Failed)
	return summary, nil
}

func (p *VideoProcessor) processFile(ctx context.Context, file string, current, total int) bool {
	log.Printf("[%d/%d] Processing: %s", current, total, filepath.Base(file))

	job, err := LoadJobFile(file)
	if err != nil {
		log.Printf("❌ Skipping %s: %v", file, err)
		return false
	}

	result, err := p.Process(ctx, job)
	if err != nil {
		log.Printf("❌ Failed to process %s: %v", file, err)
		return false
	}
	return result.Succeeded()
}

// LoadJobFile reads an AssemblyJob from a JSON file
func LoadJobFile(path string) (types.AssemblyJob, error) {
	var job types.AssemblyJob

	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("failed to read job file: %w", err)
	}
	if err := json.Unmarshal(data, &job); err != nil {
		return job, fmt.Errorf("failed to parse job file: %w", err)
	}
	return job, nil
}
