package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/bootstrap"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/database"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

// Answers a single question through the full retrieval pipeline and exits.
// Pipeline logs go to stderr so the answer on stdout stays pipeable.
func main() {
	flag.Parse()
	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		color.Red("Usage: ask <question>")
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		color.Red("Invalid configuration: %v", err)
		os.Exit(1)
	}

	var db *gorm.DB
	if cfg.Vector.Backend == "postgres" {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			color.Red("Failed to connect to Postgres: %v", err)
			os.Exit(1)
		}
	}

	store, _ := bootstrap.NewVectorStore(db, cfg)
	provider := bootstrap.NewEmbeddingProvider(cfg)
	pipeline := bootstrap.NewPipeline(cfg, store, provider, log.New(os.Stderr, "", log.LstdFlags))

	result, err := pipeline.Execute(context.Background(), question, nil)
	if err != nil {
		color.Red("Pipeline failed: %v", err)
		os.Exit(1)
	}

	fmt.Println(result.Answer)

	if len(result.Sources) > 0 {
		color.Yellow("\nSumber (%d):", result.TotalSources)
		for i, src := range result.Sources {
			score := src.Similarity
			if src.RerankScore != nil {
				score = *src.RerankScore
			}
			color.Yellow("  %d. %s (skor %.3f)", i+1, src.Filename, score)
		}
	}
	color.Cyan("\nconfidence=%s time=%s", result.Features.Confidence, result.Features.ResponseTime)
}
