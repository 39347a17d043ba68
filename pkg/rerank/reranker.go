package rerank

import "context"

// Result is one scored document from a rerank call. Index refers back to the
// position in the submitted documents slice.
type Result struct {
	Index int
	Score float64
}

// Reranker scores documents against a query with a cross-encoder style model.
// Implementations return one result per document, in any order.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string) ([]Result, error)
}
