package kafka

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mediaengine/config"
	"mediaengine/processor"
	"mediaengine/types"
)

// JobProcessor runs an assembly job to completion
type JobProcessor interface {
	Process(ctx context.Context, job types.AssemblyJob) (types.AssemblyResult, error)
}

// NewJobHandler decodes assembly jobs and runs them.
// Invalid messages and failed assemblies are marked. Infrastructure errors
// (subtitle write, upload, store) and jobs interrupted by shutdown or a
// rebalance leave the message for redelivery.
func NewJobHandler(proc JobProcessor) *TypedMessageHandler[types.AssemblyJob] {
	return &TypedMessageHandler[types.AssemblyJob]{
		Validate: func(job *types.AssemblyJob) bool {
			if err := processor.Validate(*job); err != nil {
				log.Printf("⚠️ Skipping message: %v", err)
				return false
			}
			return true
		},
		Process: func(ctx context.Context, job *types.AssemblyJob) error {
			log.Printf("🎬 Processing assembly job from Kafka: id=%s", job.ID)
			result, err := proc.Process(ctx, *job)
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				log.Printf("⚠️ Job %s interrupted, leaving it for redelivery", job.ID)
				return err
			}
			if !result.Succeeded() {
				log.Printf("⚠️ Assembly failed, not retrying: %s", result.Error)
			}
			return nil
		},
		SkipInvalid: true,
	}
}

// NewJobConsumer creates a consumer that feeds assembly jobs to proc
func NewJobConsumer(cfg config.KafkaConfig, proc JobProcessor) (*Consumer, error) {
	return NewConsumer(ConsumerConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		Handler: NewJobHandler(proc),
	})
}

// StartConsumerWithGracefulShutdown consumes until SIGINT or SIGTERM.
// A job still assembling when the signal arrives is stopped and left
// uncommitted, so another member of the group picks it up again.
func StartConsumerWithGracefulShutdown(cfg config.KafkaConfig, proc JobProcessor) error {
	consumer, err := NewJobConsumer(cfg, proc)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	select {
	case <-ctx.Done():
		log.Println("Received termination signal")
		<-done
	case err := <-done:
		if err != nil {
			log.Printf("❌ Kafka consumer stopped: %v", err)
		}
	}

	return consumer.Close()
}
