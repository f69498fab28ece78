package processor

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"mediaengine/assembly"
	"mediaengine/config"
	"mediaengine/jobs"
	"mediaengine/publish"
	"mediaengine/storage"

	"github.com/robfig/cron/v3"
)

// NewFromConfig wires a VideoProcessor from the service configuration.
// Optional components (S3, Redis, YouTube) are enabled only when configured;
// the returned cleanup func releases them.
func NewFromConfig(ctx context.Context, cfg config.Service) (*VideoProcessor, func(), error) {
	cleanup := func() {}

	deps := Deps{
		Assembler:     assembly.New(cfg.Assembly, nil),
		FitSubtitles:  cfg.FitSubtitlesToAudio,
		Measurer:      assembly.ToolMeasurer{},
		WorkDir:       cfg.WorkDir,
		OutputDir:     cfg.OutputDir,
		MaxConcurrent: cfg.MaxConcurrentJobs,
	}

	if cfg.Redis.Enabled() {
		store, err := jobs.NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, cleanup, err
		}
		deps.Store = store
		cleanup = func() { _ = store.Close() }
		log.Printf("🗄️ Job records stored in Redis at %s (key %s)", cfg.Redis.Addr, cfg.Redis.Key)
	} else {
		deps.Store = jobs.NewMemoryStore(config.JobHistoryLimit)
		log.Println("🗄️ Job records kept in memory")
	}

	if cfg.S3.Enabled() {
		s3, err := storage.NewS3(ctx, cfg.S3)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to initialize s3: %w", err)
		}
		deps.Artifacts = s3
		log.Printf("📤 Artifacts uploaded to s3://%s/%s", s3.Bucket(), cfg.S3.Prefix)
	} else {
		log.Println("S3 not configured; skipping uploads")
	}

	if cfg.YouTubeServiceAccount != "" {
		uploader, err := publish.NewUploader(ctx, cfg.YouTubeServiceAccount)
		if err != nil {
			log.Printf("⚠️ YouTube uploader not initialized: %v", err)
		} else {
			deps.Publisher = uploader
			log.Println("YouTube client initialized")
		}
	} else {
		log.Println("Running in VIDEO-ONLY mode (no YouTube publishing)")
	}

	return New(deps), cleanup, nil
}

// ScheduleBatch runs ProcessFromDirectory on dir at every tick of the cron
// expression. A tick that fires while the previous run is still busy is skipped.
func (p *VideoProcessor) ScheduleBatch(schedule, dir string) (*cron.Cron, error) {
	var busy atomic.Bool
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if !busy.CompareAndSwap(false, true) {
			log.Println("Cron skipped: previous batch still running")
			return
		}
		defer busy.Store(false)

		log.Println("Cron triggered: processing job directory")
		if _, err := p.ProcessFromDirectory(context.Background(), dir); err != nil {
			log.Printf("Cron batch error: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}

	c.Start()
	log.Printf("Cron job started with schedule: %s", schedule)
	return c, nil
}
