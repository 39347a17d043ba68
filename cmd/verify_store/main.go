package main

import (
	"log"
	"sort"
	"strings"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/database"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"
)

// Checks the vector store artifacts and prints chunk statistics. For the
// local backend this validates the positional coupling between the vector
// file and the document index; for Postgres it checks for rows with missing
// embeddings.
func main() {
	cfg := config.Load()

	log.Printf("🔍 STORE VERIFICATION for dataset %q (%s backend)", cfg.Vector.Dataset, cfg.Vector.Backend)

	if cfg.Vector.Backend == "postgres" {
		verifyPostgres(cfg)
		return
	}
	verifyLocal(cfg)
}

func verifyLocal(cfg *config.Config) {
	store := vectorstore.NewLocalStore(cfg.Vector.StorePath, cfg.Vector.DocsPath)
	if err := store.Load(); err != nil {
		log.Fatalf("❌ Store is corrupt or unreadable: %v", err)
	}

	texts, metas := store.Snapshot()
	log.Printf("✅ Artifacts are positionally coupled (%d rows)", len(texts))
	log.Printf("   vectors: %s", cfg.Vector.StorePath)
	log.Printf("   docs:    %s", cfg.Vector.DocsPath)
	log.Printf("   dimension: %d", store.Dimension())

	if len(texts) == 0 {
		log.Println("   store is empty")
		return
	}

	minLen, maxLen, totalLen := len(texts[0]), len(texts[0]), 0
	perSource := make(map[string]int)
	for i, text := range texts {
		if len(text) < minLen {
			minLen = len(text)
		}
		if len(text) > maxLen {
			maxLen = len(text)
		}
		totalLen += len(text)
		perSource[metas[i].Source]++
	}

	log.Println(strings.Repeat("─", 60))
	log.Printf("   chunk length: min=%d avg=%d max=%d", minLen, totalLen/len(texts), maxLen)
	log.Printf("   distinct sources: %d", len(perSource))

	type sourceCount struct {
		source string
		count  int
	}
	counts := make([]sourceCount, 0, len(perSource))
	for src, n := range perSource {
		counts = append(counts, sourceCount{src, n})
	}
	sort.Slice(counts, func(a, b int) bool { return counts[a].count > counts[b].count })

	limit := 10
	if len(counts) < limit {
		limit = len(counts)
	}
	log.Printf("   top sources by chunk count:")
	for _, sc := range counts[:limit] {
		log.Printf("     %4d  %s", sc.count, sc.source)
	}
}

func verifyPostgres(cfg *config.Config) {
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	table := cfg.Vector.TableName

	var total, missing int64
	if err := db.Table(table).Count(&total).Error; err != nil {
		log.Fatalf("❌ Cannot read table %s: %v", table, err)
	}
	if err := db.Table(table).Where("embedding IS NULL").Count(&missing).Error; err != nil {
		log.Fatalf("❌ Embedding check failed: %v", err)
	}

	log.Printf("   table: %s", table)
	log.Printf("   rows: %d", total)
	if missing > 0 {
		log.Fatalf("❌ %d rows have no embedding", missing)
	}
	log.Println("✅ Every row has an embedding")

	var stats struct {
		MinLen int
		AvgLen float64
		MaxLen int
	}
	row := db.Table(table).
		Select("MIN(LENGTH(content)) AS min_len, AVG(LENGTH(content)) AS avg_len, MAX(LENGTH(content)) AS max_len").
		Row()
	if err := row.Scan(&stats.MinLen, &stats.AvgLen, &stats.MaxLen); err == nil {
		log.Printf("   chunk length: min=%d avg=%.0f max=%d", stats.MinLen, stats.AvgLen, stats.MaxLen)
	}

	type sourceCount struct {
		Source string
		Count  int64
	}
	var counts []sourceCount
	if err := db.Table(table).
		Select("source, COUNT(*) AS count").
		Group("source").
		Order("count DESC").
		Limit(10).
		Scan(&counts).Error; err == nil && len(counts) > 0 {
		log.Printf("   top sources by chunk count:")
		for _, sc := range counts {
			log.Printf("     %4d  %s", sc.Count, sc.Source)
		}
	}
}
