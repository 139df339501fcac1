package signature

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/albanecoiffe/health-data-coach/core/agg"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// FreshnessToken identifies the history a signature was computed from.
// It changes whenever a session is ingested, including backfilled ones older
// than the latest known session.
func FreshnessToken(userID string, latest time.Time, count int) string {
	key := fmt.Sprintf("%s:%d:%d", userID, latest.UTC().UnixNano(), count)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// CachedBuilder serves signatures from a SignatureCache and recomputes them
// when they are missing, flagged for recompute, or built from older history.
type CachedBuilder struct {
	builder *Builder
	cache   contract.SignatureCache
}

// NewCachedBuilder wraps a Builder with the given cache. A nil cache disables caching.
func NewCachedBuilder(builder *Builder, cache contract.SignatureCache) *CachedBuilder {
	return &CachedBuilder{builder: builder, cache: cache}
}

// Get returns the signature of userID and whether it was served from the cache.
// refresh forces a recomputation.
func (c *CachedBuilder) Get(ctx context.Context, userID string, sessions []schema.RawSession, refresh bool) (schema.RunnerSignature, bool, error) {
	token := FreshnessToken(userID, agg.LatestStart(sessions), len(sessions))

	if c.cache != nil && !refresh {
		if sig, ok := c.checkCacheHit(ctx, userID, token); ok {
			return sig, true, nil
		}
	}

	sig, err := c.builder.Build(sessions)
	if err != nil {
		return schema.RunnerSignature{}, false, err
	}

	if c.cache != nil {
		// A failed write only costs a recomputation next time.
		_ = c.cache.Put(ctx, schema.SignatureRecord{
			UserID:         userID,
			Signature:      sig,
			FreshnessToken: token,
			NeedsRecompute: false,
			ComputedAt:     time.Now().UTC(),
		})
	}
	return sig, false, nil
}

// checkCacheHit returns the stored signature when it is still valid.
func (c *CachedBuilder) checkCacheHit(ctx context.Context, userID, token string) (schema.RunnerSignature, bool) {
	rec, found, err := c.cache.Get(ctx, userID)
	if err != nil || !found {
		return schema.RunnerSignature{}, false
	}
	if rec.NeedsRecompute || rec.FreshnessToken != token {
		return schema.RunnerSignature{}, false
	}
	return rec.Signature, true
}
