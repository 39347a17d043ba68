package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GeminiProvider implements EmbeddingProvider against the Google Generative
// Language REST API (batchEmbedContents).
type GeminiProvider struct {
	ApiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

var _ EmbeddingProvider = (*GeminiProvider)(nil)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiBatchEmbedRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiBatchEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func NewGeminiProvider(apiKey string, baseURL string, model string) *GeminiProvider {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1"
	}
	if model == "" {
		model = "text-embedding-004"
	}
	return &GeminiProvider{
		ApiKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *GeminiProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	reqBody := geminiBatchEmbedRequest{
		Requests: make([]geminiEmbedRequest, 0, len(texts)),
	}
	for _, text := range texts {
		reqBody.Requests = append(reqBody.Requests, geminiEmbedRequest{
			Model:   "models/" + p.Model,
			Content: geminiContent{Parts: []geminiPart{{Text: text}}},
		})
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:batchEmbedContents", p.BaseURL, p.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.ApiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini embedding api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var geminiResp geminiBatchEmbedResponse
	if err := json.Unmarshal(bodyBytes, &geminiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(geminiResp.Embeddings) != len(texts) {
		return nil, countMismatch("gemini", len(texts), len(geminiResp.Embeddings))
	}

	// text-embedding-004 vectors are not unit length; normalize them the same
	// way the Ollama provider does so cosine scores stay comparable.
	vectors := make([][]float32, len(geminiResp.Embeddings))
	for i, emb := range geminiResp.Embeddings {
		vectors[i] = normalizeVector(emb.Values)
	}
	return vectors, nil
}
