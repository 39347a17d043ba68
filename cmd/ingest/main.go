package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/bootstrap"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/pkg/logger"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/pkg/mailer"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/service"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/database"
	pktNats "github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/nats"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

// Bulk-ingests a directory of documents into the configured vector store.
// For big scraped corpora this CLI is the intended path; the REST endpoint
// exists for small incremental batches.
func main() {
	dir := flag.String("dir", "", "directory with documents to ingest (.txt .pdf .csv .xlsx .json)")
	flag.Parse()

	if *dir == "" {
		color.Red("Usage: ingest -dir <directory>")
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		color.Red("Invalid configuration: %v", err)
		os.Exit(1)
	}

	color.Cyan("🚀 Ingesting %s into dataset %q (%s backend)", *dir, cfg.Vector.Dataset, cfg.Vector.Backend)

	var db *gorm.DB
	if cfg.Vector.Backend == "postgres" {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			color.Red("Failed to connect to Postgres: %v", err)
			os.Exit(1)
		}
	}

	store, persister := bootstrap.NewVectorStore(db, cfg)
	provider := bootstrap.NewEmbeddingProvider(cfg)

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password, cfg.SMTP.Email)
	}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] NATS unavailable, skipping ingest events: %v", err)
	}

	ingestService := service.NewIngestService(
		store,
		provider,
		persister,
		cfg,
		emailService,
		natsPub,
		logger.NewIsolatedLogger(cfg.App.IngestLogFilePath),
	)

	report, err := ingestService.IngestDirectory(context.Background(), *dir)
	if err != nil {
		color.Red("Ingest failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Done in %s", report.Duration)
	color.Green("   Files processed: %d", report.FilesProcessed)
	if report.FilesSkipped > 0 {
		color.Yellow("   Files skipped:   %d (unsupported type or oversized)", report.FilesSkipped)
	}
	color.Green("   Chunks added:    %d", report.ChunksAdded)
	color.Green("   Total chunks:    %d", report.TotalChunks)

	if len(report.FailedFiles) > 0 {
		color.Red("   Failed files (%d):", len(report.FailedFiles))
		for _, f := range report.FailedFiles {
			color.Red("     - %s: %s", f.File, f.Error)
		}
		os.Exit(1)
	}
}
