package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const answerKeyPrefix = "ptsp:answer:"

// AnswerCache shares final answers across instances through Redis, keyed by a
// hash of the normalized question. It is strictly best-effort: a nil client
// or an unreachable Redis degrades to cache misses, never to errors.
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnswerCache(client *redis.Client, ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AnswerCache{
		client: client,
		ttl:    ttl,
	}
}

// Enabled reports whether a Redis client is actually attached.
func (c *AnswerCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached answer for a question, if any.
func (c *AnswerCache) Get(ctx context.Context, question string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	answer, err := c.client.Get(ctx, answerKey(question)).Result()
	if err != nil {
		return "", false
	}
	return answer, true
}

// Set stores an answer under the question's key.
func (c *AnswerCache) Set(ctx context.Context, question, answer string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, answerKey(question), answer, c.ttl)
}

func answerKey(question string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(question)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return answerKeyPrefix + hex.EncodeToString(sum[:])
}
