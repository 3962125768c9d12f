package main

import (
	"context"
	"log"

	"ai-studyflow-be/internal/bootstrap"
	"ai-studyflow-be/internal/config"
	"ai-studyflow-be/internal/server"
	"ai-studyflow-be/internal/tracer"
	"ai-studyflow-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
