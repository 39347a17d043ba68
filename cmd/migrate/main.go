package main

import (
	"fmt"
	"log"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/database"
)

func main() {
	// 1. Load Configuration (reads .env, derives the dataset table name)
	cfg := config.Load()

	dsn := cfg.Database.Connection
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Extensions (things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. Chunk table. Created with raw SQL because the table name carries the
	// dataset suffix and the embedding column needs the configured dimension.
	table := cfg.Vector.TableName
	log.Printf("Step 2: Creating chunk table %s (vector dimension %d)...", table, cfg.Vector.Dimension)

	chunkSQL := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			content text NOT NULL,
			embedding vector(%d),
			metadata jsonb,
			source text,
			chunk_index integer,
			created_at timestamptz NOT NULL DEFAULT now()
		);`, table, cfg.Vector.Dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_source ON %s (source);`, table, table),
		// ivfflat needs rows to build useful lists; creating it up front is
		// still fine, Postgres just scans until the index warms up.
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_embedding ON %s USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);`, table, table),
	}
	for _, sql := range chunkSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: Failed to create chunk table: %v", err)
		}
	}

	// 5. AutoMigrate the training store
	log.Println("Step 3: Running AutoMigrate for training pairs...")

	if err := db.AutoMigrate(&model.TrainingPair{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
