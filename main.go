package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mediaengine/api"
	"mediaengine/config"
	"mediaengine/kafka"
	"mediaengine/processor"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	cfg := config.ServiceFromEnv()

	batchMode := flag.Bool("batch", false, "Process every job file in the input directory and exit")
	kafkaMode := flag.Bool("kafka", false, "Consume assembly jobs from Kafka")
	port := flag.String("port", cfg.Port, "API server port")
	schedule := flag.String("schedule", cfg.Schedule, "Cron expression for recurring batch runs in API mode")
	flag.Parse()

	log.Println("🎬 Media Engine - Starting...")

	proc, cleanup, err := processor.NewFromConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize processor: %v", err)
	}
	defer cleanup()

	if *batchMode {
		log.Printf("📁 Running in BATCH mode (%s)", cfg.InputDir)
		summary, err := proc.ProcessFromDirectory(context.Background(), cfg.InputDir)
		if err != nil {
			log.Fatalf("❌ Batch processing failed: %v", err)
		}
		if summary.Failed > 0 {
			cleanup()
			os.Exit(1)
		}
		return
	}

	if *kafkaMode {
		log.Println("📨 Running in KAFKA consumer mode")
		log.Printf("🔗 Kafka Brokers: %v", cfg.Kafka.Brokers)
		log.Printf("📋 Topic: %s", cfg.Kafka.Topic)
		log.Printf("👥 Consumer Group: %s", cfg.Kafka.GroupID)

		if err := kafka.StartConsumerWithGracefulShutdown(cfg.Kafka, proc); err != nil {
			log.Fatalf("❌ Kafka consumer failed: %v", err)
		}
		return
	}

	log.Println("🌐 Running in API mode")

	if *schedule != "" {
		c, err := proc.ScheduleBatch(*schedule, cfg.InputDir)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer c.Stop()
	}

	router := api.NewRouter(api.NewServer(proc, cfg.Assembly.ServiceName, cfg.Assembly.SecondsPerWord))
	server := &http.Server{
		Addr:    ":" + *port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 API Server listening on %s", server.Addr)
		log.Println("📌 Endpoints:")
		log.Println("   GET  /api/health     - Health check")
		log.Println("   POST /api/assemble   - Queue an assembly job")
		log.Println("   GET  /api/jobs       - List jobs")
		log.Println("   GET  /api/jobs/:id   - Job status")
		log.Println("   POST /api/subtitles  - Render SRT for a script")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Received termination signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownGracePeriod)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
}
