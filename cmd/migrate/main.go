package main

import (
	"log"
	"os"

	"ai-studyflow-be/internal/model"
	"ai-studyflow-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("Error: DATABASE_URL is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.MaterialUpload{},
		&model.Material{},
		&model.MaterialChunk{},
		&model.Job{},
		&model.Plan{},
		&model.PlanMaterial{},
		&model.Session{},
		&model.SessionRun{},
		&model.Concept{},
		&model.ReviewSchedule{},
		&model.Notification{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating Partial Indexes...")

	// AutoMigrate cannot express a partial unique index. This one backs the
	// start-or-resume race: at most one RUNNING run per session.
	postMigrationSQL := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_session_runs_one_running
		 ON session_runs (session_id) WHERE status = 'RUNNING';`,

		`CREATE INDEX IF NOT EXISTS idx_review_schedules_due
		 ON review_schedules (user_id, due_at);`,

		`CREATE INDEX IF NOT EXISTS idx_jobs_user_status
		 ON jobs (user_id, status);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
