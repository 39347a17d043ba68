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

// OpenAIProvider implements EmbeddingProvider for OpenAI-compatible embedding
// APIs (OpenAI, vLLM, LM Studio and friends).
type OpenAIProvider struct {
	ApiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

var _ EmbeddingProvider = (*OpenAIProvider)(nil)

type openAIEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenAIProvider(apiKey string, baseURL string, model string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIProvider{
		ApiKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	reqBody := openAIEmbeddingRequest{
		Model: p.Model,
		Input: texts,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.ApiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai embedding api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var openaiResp openAIEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &openaiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if openaiResp.Error != nil {
		return nil, fmt.Errorf("openai embedding api returned error: %s", openaiResp.Error.Message)
	}
	if len(openaiResp.Data) != len(texts) {
		return nil, countMismatch("openai", len(texts), len(openaiResp.Data))
	}

	// The API may reorder entries; data[i].Index restores input order.
	vectors := make([][]float32, len(texts))
	for _, data := range openaiResp.Data {
		if data.Index < 0 || data.Index >= len(vectors) {
			return nil, fmt.Errorf("openai embedding api returned out-of-range index %d", data.Index)
		}
		vectors[data.Index] = data.Embedding
	}
	return vectors, nil
}
