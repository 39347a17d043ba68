package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/bootstrap"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/database"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/embedding"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/expand"

	"gorm.io/gorm"
)

// Prints the raw retrieval picture for a query: every expansion variant, every
// hit with its cosine similarity, and where the threshold would cut. No LLM
// call is made.
func main() {
	topK := flag.Int("k", 10, "hits per variant")
	flag.Parse()
	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		log.Fatal("Usage: debug_retrieval [-k N] <query>")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var db *gorm.DB
	if cfg.Vector.Backend == "postgres" {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Fatal("Error: Failed to connect to database:", err)
		}
	}

	store, _ := bootstrap.NewVectorStore(db, cfg)
	provider := bootstrap.NewEmbeddingProvider(cfg)
	ctx := context.Background()

	log.Printf("🔍 RETRIEVAL DEBUG for: %q", query)
	log.Printf("   threshold=%.2f top_k=%d dataset=%s", cfg.Rag.Threshold, *topK, cfg.Vector.Dataset)

	variants := expand.NewExpander().Expand(query)
	log.Printf("   %d query variants", len(variants))

	for vi, variant := range variants {
		log.Println(strings.Repeat("─", 60))
		log.Printf("[variant %d] %q", vi+1, variant)

		vec, err := embedding.EmbedOne(ctx, provider, variant)
		if err != nil {
			log.Printf("    embedding failed: %v", err)
			continue
		}

		hits, err := store.Search(ctx, vec, *topK)
		if err != nil {
			log.Printf("    search failed: %v", err)
			continue
		}
		if len(hits) == 0 {
			log.Printf("    no hits")
			continue
		}

		for i, hit := range hits {
			marker := "KEEP"
			if hit.Similarity < cfg.Rag.Threshold {
				marker = "CUT"
			}
			preview := strings.ReplaceAll(hit.Text, "\n", " ")
			if len(preview) > 80 {
				preview = preview[:80] + "..."
			}
			log.Printf("    %2d. %.4f [%s] %s", i+1, hit.Similarity, marker, hit.Meta.Source)
			log.Printf("        %s", preview)
		}
	}
}
