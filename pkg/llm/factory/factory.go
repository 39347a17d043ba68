package factory

import (
	"fmt"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm/ollama"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm/openrouter"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openrouter":
		if modelName == "" {
			modelName = "mistralai/mistral-small"
		}
		return openrouter.NewOpenRouterProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
