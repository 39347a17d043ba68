package search

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/embedding"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/expand"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rerank"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"
)

// Orchestrator handles multi-variant vector search and candidate filtering
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	store             vectorstore.Store
	expander          *expand.Expander
	reranker          rerank.Reranker // nil disables the rerank stage
	logger            *log.Logger
}

// NewOrchestrator creates a new search orchestrator
func NewOrchestrator(
	embeddingProvider embedding.EmbeddingProvider,
	store vectorstore.Store,
	expander *expand.Expander,
	reranker rerank.Reranker,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		store:             store,
		expander:          expander,
		reranker:          reranker,
		logger:            logger,
	}
}

// Config encapsulates search parameters
type Config struct {
	TopK         int     // final number of hits returned
	Threshold    float64 // minimum cosine similarity to keep a hit
	FallbackTopN int     // hits kept when nothing clears the threshold
	RerankTopM   int     // how many leading hits go through the reranker
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		TopK:         8,
		Threshold:    0.30,
		FallbackTopN: 3,
		RerankTopM:   10,
	}
}

// Result carries the hits plus how they were obtained, for diagnostics.
type Result struct {
	Hits         []vectorstore.SearchHit
	Variants     []string
	UsedFallback bool
	Reranked     bool
}

// Execute expands the query, searches every variant, merges and filters the
// hits, and optionally reranks the leading candidates.
func (o *Orchestrator) Execute(ctx context.Context, query string, config Config) (*Result, error) {
	variants := o.expander.Expand(query)
	o.logger.Printf("[DEBUG] Searching with %d query variants", len(variants))

	// Each variant gets a share of the budget, never less than 3.
	variantTopK := config.TopK / len(variants)
	if variantTopK < 3 {
		variantTopK = 3
	}

	merged := make([]vectorstore.SearchHit, 0, config.TopK*2)
	seen := make(map[string]bool)
	searched := 0

	for _, variant := range variants {
		vec, err := embedding.EmbedOne(ctx, o.embeddingProvider, variant)
		if err != nil {
			o.logger.Printf("[WARN] Embedding failed for variant %q: %v", variant, err)
			continue
		}

		hits, err := o.store.Search(ctx, vec, variantTopK)
		if err != nil {
			o.logger.Printf("[WARN] Vector search failed for variant %q: %v", variant, err)
			continue
		}
		searched++

		for _, hit := range hits {
			id := hit.Identity()
			if seen[id] {
				continue
			}
			seen[id] = true
			hit.Variant = variant
			merged = append(merged, hit)
		}
	}

	if searched == 0 {
		return nil, fmt.Errorf("search failed for all %d query variants", len(variants))
	}

	o.logger.Printf("[DEBUG] Raw search results: %d unique hits", len(merged))

	filtered, usedFallback := o.filterByThreshold(merged, config)
	o.logger.Printf("[DEBUG] Filtered candidates: %d hits (fallback=%v)", len(filtered), usedFallback)

	reranked := o.applyReranking(ctx, query, filtered, config)

	// Rerank scores take precedence over cosine similarity for ordering.
	sort.SliceStable(filtered, func(a, b int) bool {
		return filtered[a].Score() > filtered[b].Score()
	})
	if len(filtered) > config.TopK {
		filtered = filtered[:config.TopK]
	}

	return &Result{
		Hits:         filtered,
		Variants:     variants,
		UsedFallback: usedFallback,
		Reranked:     reranked,
	}, nil
}

// filterByThreshold keeps hits at or above the similarity threshold. When the
// threshold wipes everything out, the best FallbackTopN hits are kept instead
// so the caller can still answer with a low-confidence marker.
func (o *Orchestrator) filterByThreshold(hits []vectorstore.SearchHit, config Config) ([]vectorstore.SearchHit, bool) {
	filtered := make([]vectorstore.SearchHit, 0, len(hits))
	for i, hit := range hits {
		if hit.Similarity >= config.Threshold {
			filtered = append(filtered, hit)
			o.logger.Printf("[DEBUG] Candidate %d: Score=%.4f [KEEP]", i+1, hit.Similarity)
		} else {
			o.logger.Printf("[DEBUG] Candidate %d: Score=%.4f [FILTERED]", i+1, hit.Similarity)
		}
	}

	if len(filtered) > 0 || len(hits) == 0 {
		return filtered, false
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})
	if len(hits) > config.FallbackTopN {
		hits = hits[:config.FallbackTopN]
	}
	return hits, true
}

// applyReranking scores the leading candidates with the cross-encoder and
// attaches the scores in place. A rerank failure leaves the hits untouched.
func (o *Orchestrator) applyReranking(ctx context.Context, query string, hits []vectorstore.SearchHit, config Config) bool {
	if o.reranker == nil || len(hits) == 0 {
		return false
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})

	m := config.RerankTopM
	if m > len(hits) {
		m = len(hits)
	}
	top := hits[:m]

	// The scorer sees the source alongside the content for better context.
	documents := make([]string, len(top))
	for i, hit := range top {
		documents[i] = fmt.Sprintf("%s: %s", hit.Meta.Source, hit.Text)
	}

	results, err := o.reranker.Rerank(ctx, query, documents)
	if err != nil {
		o.logger.Printf("[WARN] Reranking failed, keeping similarity order: %v", err)
		return false
	}

	for _, res := range results {
		score := res.Score
		top[res.Index].RerankScore = &score
	}
	o.logger.Printf("[DEBUG] Reranked %d hits", len(top))
	return true
}
