package memory

import (
	"sync"
	"time"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm"

	"github.com/patrickmn/go-cache"
)

// ConversationRepository keeps per-conversation chat history in memory with a
// TTL, so idle conversations age out on their own. History is only context
// for the LLM; losing it degrades answers, never correctness.
type ConversationRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewConversationRepository creates a repository whose conversations expire
// after an hour of inactivity, purged every 10 minutes.
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

// Append adds messages to a conversation and refreshes its TTL.
func (r *ConversationRepository) Append(conversationID string, messages ...llm.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.history(conversationID)
	history = append(history, messages...)
	r.cache.Set(conversationID, history, cache.DefaultExpiration)
}

// History returns up to limit most recent messages in chronological order.
// limit <= 0 returns everything.
func (r *ConversationRepository) History(conversationID string, limit int) []llm.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.history(conversationID)
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	out := make([]llm.Message, len(history))
	copy(out, history)
	return out
}

// Clear drops a conversation.
func (r *ConversationRepository) Clear(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(conversationID)
}

func (r *ConversationRepository) history(conversationID string) []llm.Message {
	if x, found := r.cache.Get(conversationID); found {
		return x.([]llm.Message)
	}
	return nil
}
