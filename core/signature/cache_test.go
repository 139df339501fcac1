package signature

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albanecoiffe/health-data-coach/core/agg"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// recordCache is a SignatureCache holding one record per user.
type recordCache struct {
	records map[string]schema.SignatureRecord
}

func newRecordCache() *recordCache {
	return &recordCache{records: make(map[string]schema.SignatureRecord)}
}

func (c *recordCache) Get(_ context.Context, userID string) (schema.SignatureRecord, bool, error) {
	rec, ok := c.records[userID]
	return rec, ok, nil
}

func (c *recordCache) Put(_ context.Context, rec schema.SignatureRecord) error {
	c.records[rec.UserID] = rec
	return nil
}

func (c *recordCache) MarkStale(_ context.Context, userID string) error {
	if rec, ok := c.records[userID]; ok {
		rec.NeedsRecompute = true
		c.records[userID] = rec
	}
	return nil
}

func (c *recordCache) Close() error { return nil }

func history(weeks int) []schema.RawSession {
	current := agg.WeekOf(fixedNow)
	var sessions []schema.RawSession
	for i := weeks; i >= 1; i-- {
		sessions = append(sessions, sessionInWeek(weekBefore(current, i), 10, 60, 6))
	}
	return sessions
}

func TestFreshnessToken(t *testing.T) {
	latest := fixedNow.Add(-24 * time.Hour)
	base := FreshnessToken(testUser, latest, 10)

	assert.Equal(t, base, FreshnessToken(testUser, latest.In(time.FixedZone("CEST", 2*3600)), 10))
	assert.NotEqual(t, base, FreshnessToken(testUser, latest, 11))
	assert.NotEqual(t, base, FreshnessToken(testUser, latest.Add(time.Second), 10))
	assert.NotEqual(t, base, FreshnessToken("someone-else", latest, 10))
}

func TestCachedBuilderGet(t *testing.T) {
	ctx := context.Background()
	cache := newRecordCache()
	cb := NewCachedBuilder(newTestBuilder(), cache)
	sessions := history(8)

	_, cached, err := cb.Get(ctx, testUser, sessions, false)
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = cb.Get(ctx, testUser, sessions, false)
	require.NoError(t, err)
	assert.True(t, cached)

	_, cached, err = cb.Get(ctx, testUser, sessions, true)
	require.NoError(t, err)
	assert.False(t, cached, "refresh recomputes")

	require.NoError(t, cache.MarkStale(ctx, testUser))
	_, cached, err = cb.Get(ctx, testUser, sessions, false)
	require.NoError(t, err)
	assert.False(t, cached, "a stale record is recomputed")
	assert.False(t, cache.records[testUser].NeedsRecompute)
}

func TestCachedBuilderBackfilledSession(t *testing.T) {
	ctx := context.Background()
	cache := newRecordCache()
	cb := NewCachedBuilder(newTestBuilder(), cache)
	sessions := history(8)

	before, _, err := cb.Get(ctx, testUser, sessions, false)
	require.NoError(t, err)

	// An older session lands without moving the latest start time, and the
	// stale bit set by its import was lost to a concurrent recompute.
	older := sessionInWeek(weekBefore(agg.WeekOf(fixedNow), 20), 30, 180, 60)
	backfilled := append([]schema.RawSession{older}, sessions...)
	require.Equal(t, agg.LatestStart(sessions), agg.LatestStart(backfilled))
	require.False(t, cache.records[testUser].NeedsRecompute)

	after, cached, err := cb.Get(ctx, testUser, backfilled, false)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotEqual(t, before.Volume, after.Volume)
}
