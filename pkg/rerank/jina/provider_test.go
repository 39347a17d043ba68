package jina

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRerankScoresDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "syarat izin usaha" {
			t.Errorf("query not forwarded, got %q", req.Query)
		}
		if len(req.Documents) != 2 {
			t.Errorf("expected 2 documents, got %d", len(req.Documents))
		}
		w.Write([]byte(`{"results":[
			{"index":1,"relevance_score":0.91},
			{"index":0,"relevance_score":0.12}
		]}`))
	}))
	defer server.Close()

	reranker := NewJinaReranker("key")
	reranker.baseURL = server.URL

	results, err := reranker.Rerank(context.Background(), "syarat izin usaha", []string{
		"jadwal car free day",
		"persyaratan izin usaha perdagangan",
	})
	if err != nil {
		t.Fatalf("Rerank failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Index != 1 || results[0].Score != 0.91 {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestRerankEmptyDocuments(t *testing.T) {
	reranker := NewJinaReranker("key")
	results, err := reranker.Rerank(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("empty documents should not call the API: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRerankAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	reranker := NewJinaReranker("key")
	reranker.baseURL = server.URL

	_, err := reranker.Rerank(context.Background(), "q", []string{"doc"})
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestRerankRejectsOutOfRangeIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"index":5,"relevance_score":0.5}]}`))
	}))
	defer server.Close()

	reranker := NewJinaReranker("key")
	reranker.baseURL = server.URL

	_, err := reranker.Rerank(context.Background(), "q", []string{"doc"})
	if err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}
