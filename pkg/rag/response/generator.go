package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/prompt"
)

// Generation parameters tuned for complete Indonesian answers. The
// temperature keeps phrasing natural without drifting from the context, and
// the token ceiling leaves room for procedure listings.
const (
	generationTemperature = 0.4
	generationMaxTokens   = 1500
)

// Generator turns a question plus assembled document context into the final
// answer via the configured LLM provider.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewGenerator creates a new response generator
func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate produces the answer for a question given the document context.
// Conversation history slots in between the system instruction and the
// current question so follow-ups keep their thread. The caller decides how to
// handle a returned error; this method never substitutes canned text.
func (g *Generator) Generate(ctx context.Context, question, docContext string, history []llm.Message) (string, error) {
	promptText := prompt.NewContextualBuilder(question, docContext).Build()

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: prompt.SystemInstruction})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: promptText})

	answer, err := g.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(generationTemperature),
		llm.WithMaxTokens(generationMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	answer = EnsureComplete(answer)

	g.logger.Printf("[GENERATION] Answer generated (%d characters, %d history messages)",
		len(answer), len(history))

	return answer, nil
}
