package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"ai-studyflow-be/internal/bootstrap"
	"ai-studyflow-be/internal/config"
	"ai-studyflow-be/internal/tracer"
	"ai-studyflow-be/pkg/database"
	"ai-studyflow-be/pkg/queue"
)

const shutdownTimeout = 30 * time.Second

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	runtime := queue.NewRuntime(container.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, name := range cfg.Queue.Workers {
		var (
			subject string
			durable string
			handler queue.HandlerFunc
		)
		switch name {
		case "material":
			subject = queue.SubjectMaterial
			durable = queue.DurableMaterial
			handler = container.MaterialProcessor.Process
		case "plan":
			subject = queue.SubjectPlan
			durable = queue.DurablePlan
			handler = container.PlanGenerator.Process
		default:
			log.Printf("Warn: unknown worker %q, skipping", name)
			continue
		}

		w, err := queue.NewWorker(cfg.App.NatsURL, name, subject, durable, cfg.Queue.Concurrency, handler, container.Logger)
		if err != nil {
			log.Fatalf("Error: failed to create %s worker: %v", name, err)
		}
		if err := w.Start(ctx); err != nil {
			log.Fatalf("Error: failed to start %s worker: %v", name, err)
		}
		runtime.Register(name+"-worker", w)
		log.Printf("Worker %q started (subject=%s concurrency=%d)", name, subject, cfg.Queue.Concurrency)
	}

	runtime.Register("job-queue-publisher", container.JobQueue)

	<-ctx.Done()
	log.Println("Shutdown signal received, draining workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	runtime.Shutdown(shutdownCtx)

	log.Println("Worker shutdown complete")
}
