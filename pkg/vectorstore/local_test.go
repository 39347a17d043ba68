package vectorstore

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	dir := t.TempDir()
	return NewLocalStore(filepath.Join(dir, "test_vectors.bin"), filepath.Join(dir, "test_docs.json"))
}

func TestSearchFindsIdenticalVector(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	texts := []string{"perizinan berusaha", "investasi daerah", "pengaduan layanan"}
	metas := []Metadata{{Source: "a.txt"}, {Source: "b.txt"}, {Source: "c.txt"}}

	if err := store.Add(ctx, vectors, texts, metas); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	hits, err := store.Search(ctx, []float32{0, 1, 0}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Text != "investasi daerah" {
		t.Errorf("expected identical vector first, got %q", hits[0].Text)
	}
	if math.Abs(hits[0].Similarity-1.0) > 1e-6 {
		t.Errorf("expected similarity ~1.0 for identical vector, got %f", hits[0].Similarity)
	}
}

func TestSearchOrderingAndClamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	vectors := [][]float32{
		{1, 0},
		{0.8, 0.6},
		{0, 1},
	}
	texts := []string{"first", "second", "third"}
	metas := []Metadata{{Source: "s"}, {Source: "s"}, {Source: "s"}}
	if err := store.Add(ctx, vectors, texts, metas); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	hits, err := store.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected k clamped to store size 3, got %d", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Similarity > hits[i-1].Similarity {
			t.Errorf("similarities not non-increasing at %d: %f > %f", i, hits[i].Similarity, hits[i-1].Similarity)
		}
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Two identical vectors tie exactly; the earlier insertion must win.
	vectors := [][]float32{
		{0, 1},
		{1, 0},
		{1, 0},
	}
	texts := []string{"off-axis", "older", "newer"}
	metas := []Metadata{{Source: "s"}, {Source: "s"}, {Source: "s"}}
	if err := store.Add(ctx, vectors, texts, metas); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	hits, err := store.Search(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if hits[0].Text != "older" || hits[1].Text != "newer" {
		t.Errorf("tie broke insertion order: got %q then %q", hits[0].Text, hits[1].Text)
	}
}

func TestSearchEmptyStore(t *testing.T) {
	store := newTestStore(t)

	hits, err := store.Search(context.Background(), []float32{1, 2, 3}, 5)
	if err != nil {
		t.Fatalf("empty store search should not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits from empty store, got %d", len(hits))
	}
}

func TestAddDimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, [][]float32{{1, 2, 3}}, []string{"a"}, []Metadata{{Source: "a"}}); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}

	err := store.Add(ctx, [][]float32{{1, 2}}, []string{"b"}, []Metadata{{Source: "b"}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}

	_, err = store.Search(ctx, []float32{1, 2, 3, 4}, 1)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch on query, got %v", err)
	}
}

func TestAddMismatchedBatch(t *testing.T) {
	store := newTestStore(t)

	err := store.Add(context.Background(), [][]float32{{1}}, []string{"a", "b"}, []Metadata{{Source: "a"}})
	if err == nil {
		t.Fatal("expected error for mismatched batch lengths")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	vectors := [][]float32{
		{0.5, -1.25, 3},
		{2, 0, -0.75},
	}
	texts := []string{"syarat NIB", "jam pelayanan"}
	metas := []Metadata{
		{Source: "nib.txt", Filename: "nib.txt", ChunkIndex: 0, FileType: "txt"},
		{Source: "layanan.csv", Filename: "layanan.csv", ChunkIndex: 3, FileType: "csv"},
	}
	if err := store.Add(ctx, vectors, texts, metas); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewLocalStore(store.vectorsPath, store.docsPath)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	count, err := reloaded.Count(ctx)
	if err != nil || count != 2 {
		t.Fatalf("expected count 2 after reload, got %d (err %v)", count, err)
	}
	if reloaded.Dimension() != 3 {
		t.Fatalf("expected dimension 3 after reload, got %d", reloaded.Dimension())
	}

	hits, err := reloaded.Search(ctx, []float32{0.5, -1.25, 3}, 1)
	if err != nil {
		t.Fatalf("Search after reload failed: %v", err)
	}
	if hits[0].Text != "syarat NIB" {
		t.Errorf("expected reloaded text coupling to hold, got %q", hits[0].Text)
	}
	if hits[0].Meta.Filename != "nib.txt" || hits[0].Meta.ChunkIndex != 0 {
		t.Errorf("metadata lost in round trip: %+v", hits[0].Meta)
	}
}

func TestLoadMissingFilesLeavesStoreEmpty(t *testing.T) {
	store := newTestStore(t)
	if err := store.Load(); err != nil {
		t.Fatalf("missing artifacts should not error: %v", err)
	}
	count, _ := store.Count(context.Background())
	if count != 0 {
		t.Errorf("expected empty store, got %d entries", count)
	}
}

func TestLoadDetectsDesyncedArtifacts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, [][]float32{{1, 0}, {0, 1}}, []string{"a", "b"}, []Metadata{{Source: "a"}, {Source: "b"}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Rewrite the document index with one entry missing.
	if err := os.WriteFile(store.docsPath, []byte(`{"texts":["a"],"meta":[{"source":"a"}]}`), 0o644); err != nil {
		t.Fatalf("rewrite docs: %v", err)
	}

	reloaded := NewLocalStore(store.vectorsPath, store.docsPath)
	err := reloaded.Load()
	if !errors.Is(err, ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex, got %v", err)
	}
}

func TestScorePrefersRerank(t *testing.T) {
	score := 0.9
	hit := SearchHit{Similarity: 0.4, RerankScore: &score}
	if hit.Score() != 0.9 {
		t.Errorf("expected rerank score to win, got %f", hit.Score())
	}
	plain := SearchHit{Similarity: 0.4}
	if plain.Score() != 0.4 {
		t.Errorf("expected similarity fallback, got %f", plain.Score())
	}
}
