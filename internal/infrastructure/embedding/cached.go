package embedding

import (
	"context"
	"encoding/hex"
	"time"

	"freelance-match/internal/domain/matching"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

type VectorCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedEncoder memoises vectors by model and text digest. Cache errors never fail an encode.
type CachedEncoder struct {
	next   matching.TextEncoder
	cache  VectorCache
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedEncoder(next matching.TextEncoder, cache VectorCache, model string, ttl time.Duration, logger *zap.Logger) *CachedEncoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEncoder{next: next, cache: cache, model: model, ttl: ttl, logger: logger}
}

// CachedFactory wraps whatever the inner factory builds.
func CachedFactory(inner Factory, cache VectorCache, model string, ttl time.Duration, logger *zap.Logger) Factory {
	if cache == nil {
		return inner
	}
	return func(ctx context.Context) (matching.TextEncoder, error) {
		enc, err := inner(ctx)
		if err != nil {
			return nil, err
		}
		return NewCachedEncoder(enc, cache, model, ttl, logger), nil
	}
}

func CacheKey(model, text string) string {
	sum := blake2b.Sum256([]byte(text))
	return "emb:" + model + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(c.model, text)

	var vec []float32
	if ok, err := c.cache.GetJSON(ctx, key, &vec); err != nil {
		c.logger.Debug("embedding cache read failed", zap.Error(err))
	} else if ok && len(vec) > 0 {
		return vec, nil
	}

	vec, err := c.next.Encode(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetJSON(ctx, key, vec, c.ttl); err != nil {
		c.logger.Debug("embedding cache write failed", zap.Error(err))
	}
	return vec, nil
}
