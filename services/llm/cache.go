package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"concierge/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "concierge:llmcache:"
	// Only the head of the retrieval context feeds the key, so small tail
	// differences do not fragment the cache.
	contextHashLength = 500
)

// CachedClient wraps a Client with a Redis answer cache keyed by the
// normalized question plus a hash of the retrieval context. Cache backend
// failures are logged and fall through to the wrapped client.
type CachedClient struct {
	inner Client
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedClient(inner Client, rdb *redis.Client, ttl time.Duration) *CachedClient {
	return &CachedClient{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedClient) Complete(ctx context.Context, systemPrompt, contextText, userMessage string, temperature float64, maxTokens int) (string, error) {
	logger := utils.GetLogger()
	key := cacheKey(userMessage, contextText)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if err != redis.Nil {
		logger.Warn("llm cache read failed", zap.Error(err))
	}

	answer, err := c.inner.Complete(ctx, systemPrompt, contextText, userMessage, temperature, maxTokens)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, answer, c.ttl).Err(); err != nil {
		logger.Warn("llm cache write failed", zap.Error(err))
	}
	return answer, nil
}

// cacheKey hashes the lowercased, whitespace-collapsed question together
// with a digest of the context head. Identical re-asks against the same
// evidence hit the same entry.
func cacheKey(userMessage, contextText string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(userMessage)), " ")
	snippet := contextText
	if len(snippet) > contextHashLength {
		snippet = snippet[:contextHashLength]
	}
	ctxDigest := sha256.Sum256([]byte(snippet))
	sum := sha256.Sum256([]byte(normalized + "|" + hex.EncodeToString(ctxDigest[:])[:12]))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])[:32]
}
