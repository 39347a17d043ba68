package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProviderEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("expected 2 inputs, got %d", len(req.Input))
		}
		json.NewEncoder(w).Encode(ollamaEmbeddingResponse{
			Embeddings: [][]float64{{3, 4}, {0, 5}},
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "nomic-embed-text")
	vectors, err := provider.Embed(context.Background(), []string{"syarat izin usaha", "jam pelayanan"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}

	// Vectors come back unit-normalized.
	for i, v := range vectors {
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		if math.Abs(math.Sqrt(norm)-1.0) > 1e-6 {
			t.Errorf("vector %d not normalized, |v| = %f", i, math.Sqrt(norm))
		}
	}
}

func TestOllamaProviderCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbeddingResponse{
			Embeddings: [][]float64{{1, 0}},
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "nomic-embed-text")
	_, err := provider.Embed(context.Background(), []string{"a", "b", "c"})
	if err == nil {
		t.Fatal("expected error when provider returns fewer embeddings than inputs")
	}
}

func TestOpenAIProviderEmbedRestoresOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		// Entries deliberately out of order; Index must restore them.
		w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0,1]},
			{"index":0,"embedding":[1,0]}
		]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", server.URL, "text-embedding-3-small")
	vectors, err := provider.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Errorf("order not restored by index: %v", vectors)
	}
}

func TestOpenAIProviderAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("bad-key", server.URL, "")
	_, err := provider.Embed(context.Background(), []string{"a"})
	if err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestGeminiProviderEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/text-embedding-004:batchEmbedContents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header, got %q", r.Header.Get("x-goog-api-key"))
		}
		var req geminiBatchEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Requests) != 2 {
			t.Errorf("expected 2 batched requests, got %d", len(req.Requests))
		}
		if req.Requests[0].Model != "models/text-embedding-004" {
			t.Errorf("unexpected model reference %q", req.Requests[0].Model)
		}
		w.Write([]byte(`{"embeddings":[{"values":[3,4]},{"values":[0,5]}]}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider("test-key", server.URL, "")
	vectors, err := provider.Embed(context.Background(), []string{"syarat izin usaha", "jam pelayanan"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}

	// Vectors come back unit-normalized.
	for i, v := range vectors {
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		if math.Abs(math.Sqrt(norm)-1.0) > 1e-6 {
			t.Errorf("vector %d not normalized, |v| = %f", i, math.Sqrt(norm))
		}
	}
}

func TestGeminiProviderAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider("bad-key", server.URL, "")
	_, err := provider.Embed(context.Background(), []string{"a"})
	if err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestEmbedEmptyBatch(t *testing.T) {
	provider := NewOpenAIProvider("key", "http://unused.invalid", "")
	vectors, err := provider.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty batch should not call the API: %v", err)
	}
	if len(vectors) != 0 {
		t.Errorf("expected empty result, got %d vectors", len(vectors))
	}
}

func TestNormalizeVector(t *testing.T) {
	normalized := normalizeVector([]float32{3, 4})
	if math.Abs(float64(normalized[0])-0.6) > 1e-6 || math.Abs(float64(normalized[1])-0.8) > 1e-6 {
		t.Errorf("unexpected normalization result: %v", normalized)
	}

	zero := normalizeVector([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector should pass through unchanged: %v", zero)
	}
}
