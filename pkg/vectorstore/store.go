package vectorstore

import (
	"context"
	"errors"
	"fmt"
)

// Metadata carries the provenance of a stored chunk. Source is the only
// required field; Extra keeps room for forward-compatible attributes without
// reverting to an untyped bag.
type Metadata struct {
	Source     string         `json:"source"`
	Filename   string         `json:"filename,omitempty"`
	ChunkIndex int            `json:"chunk_index"`
	FileType   string         `json:"file_type,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// SearchHit is one similarity result. RerankScore is attached later by the
// reranker; Variant records which query variant produced the hit (diagnostics
// only, never used for scoring).
type SearchHit struct {
	Text        string   `json:"text"`
	Meta        Metadata `json:"meta"`
	Similarity  float64  `json:"similarity"`
	RerankScore *float64 `json:"rerank_score,omitempty"`
	Variant     string   `json:"query_variant,omitempty"`
}

// Score returns the ordering score for the hit: rerank score when present,
// cosine similarity otherwise.
func (h SearchHit) Score() float64 {
	if h.RerankScore != nil {
		return *h.RerankScore
	}
	return h.Similarity
}

// Identity keys a hit for deduplication across query variants.
func (h SearchHit) Identity() string {
	return h.Meta.Source + "\n" + h.Text
}

// Store is the persistence contract shared by the local flat-file backend and
// the pgvector backend. Add appends, Search runs cosine top-k, Count reports
// the number of stored chunks. An empty store returns an empty result set from
// Search, never an error.
type Store interface {
	Add(ctx context.Context, vectors [][]float32, texts []string, metas []Metadata) error
	Search(ctx context.Context, query []float32, k int) ([]SearchHit, error)
	Count(ctx context.Context) (int64, error)
}

// ErrDimensionMismatch is returned when an incoming vector's length differs
// from the store's established dimension. Mixing dimensions silently would
// poison every later similarity score, so the add fails fast instead.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// ErrCorruptIndex is returned when the persisted vector artifact and the
// document index disagree (row counts out of sync).
var ErrCorruptIndex = errors.New("vector index and document index are out of sync")

func dimensionError(want, got int) error {
	return fmt.Errorf("%w: store dimension %d, incoming vector dimension %d", ErrDimensionMismatch, want, got)
}
