package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rerank"
)

type JinaReranker struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ rerank.Reranker = (*JinaReranker)(nil)

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaReranker(apiKey string) *JinaReranker {
	return &JinaReranker{
		apiKey:  apiKey,
		baseURL: "https://api.jina.ai/v1/rerank",
		model:   "jina-reranker-v2-base-multilingual",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *JinaReranker) Rerank(ctx context.Context, query string, documents []string) ([]rerank.Result, error) {
	if len(documents) == 0 {
		return []rerank.Result{}, nil
	}

	reqBody := rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: documents,
		TopN:      len(documents),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jina rerank api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var jinaResp rerankResponse
	if err := json.Unmarshal(bodyBytes, &jinaResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if jinaResp.Error != nil {
		return nil, fmt.Errorf("jina rerank api returned error: %s", jinaResp.Error.Message)
	}

	results := make([]rerank.Result, 0, len(jinaResp.Results))
	for _, res := range jinaResp.Results {
		if res.Index < 0 || res.Index >= len(documents) {
			return nil, fmt.Errorf("jina rerank api returned out-of-range index %d", res.Index)
		}
		results = append(results, rerank.Result{
			Index: res.Index,
			Score: res.RelevanceScore,
		})
	}
	return results, nil
}
