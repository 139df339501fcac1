package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/albanecoiffe/health-data-coach/core/agg"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/internal/iocache"
	"github.com/albanecoiffe/health-data-coach/internal/models"
	"github.com/albanecoiffe/health-data-coach/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUser = "3f1c2a8e-9b7d-4c1e-8a2f-6d5e4c3b2a10"

var fixedNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

type recordingObserver struct {
	mu     sync.Mutex
	events []contract.UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e contract.UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

// history returns three easy runs per week for the given number of completed weeks.
func history(weeks int) []schema.RawSession {
	monday := agg.WeekStart(agg.WeekOf(fixedNow))
	var out []schema.RawSession
	for k := weeks; k >= 1; k-- {
		for _, day := range []int{1, 3, 5} {
			out = append(out, schema.RawSession{
				UserID:      "someone-else",
				StartTime:   monday.AddDate(0, 0, -7*k+day).Add(7 * time.Hour),
				DistanceKm:  8.3,
				DurationMin: 53,
				ZoneMin:     [5]float64{0, 49, 0, 4, 0},
			})
		}
	}
	return out
}

func newTestService(t *testing.T, obs contract.UseCaseObserver) *Service {
	t.Helper()
	stores, err := iocache.NewStores(schema.NoneBackend, "")
	require.NoError(t, err)
	bundle, err := models.Default()
	require.NoError(t, err)
	return NewService(stores, bundle, WithClock(func() time.Time { return fixedNow }), WithObserver(obs))
}

func TestServiceIngest(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	summary, err := svc.Ingest(ctx, testUser, history(10))
	require.NoError(t, err)
	assert.Equal(t, schema.IngestSummary{UserID: testUser, Read: 30, Inserted: 30, Weeks: 10}, summary)

	// Sessions are immutable, so a second import changes nothing
	summary, err = svc.Ingest(ctx, testUser, history(10))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 30, summary.Duplicates)
	assert.Equal(t, 10, summary.Weeks)

	weeks, err := svc.Weeks(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, weeks, 10)
	for _, w := range weeks {
		assert.Equal(t, testUser, w.UserID, "sessions are owned by the ingesting user")
		assert.Equal(t, 3, w.Sessions)
	}

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, status.TotalSessions)
	assert.Equal(t, 1, status.TotalUsers)
}

func TestServiceRecommend(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	_, err := svc.Recommend(ctx, testUser)
	assert.ErrorIs(t, err, schema.ErrInsufficientHistory)

	_, err = svc.Ingest(ctx, testUser, history(10))
	require.NoError(t, err)

	rec, err := svc.Recommend(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.TargetSessions)
	assert.Equal(t, 3, rec.RemainingSessionsCount)
	assert.Len(t, rec.RemainingSessions, 3)
	assert.Empty(t, rec.DoneSessions)
	assert.False(t, rec.WeekComplete)
	assert.True(t, rec.PreviousWeekHadSessions)
	assert.Equal(t, 3, rec.PreviousWeekSummary.Sessions)
	assert.InDelta(t, 24.9, rec.PreviousWeekSummary.DistanceKm, 1e-9)
}

func TestServiceSignatureCache(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := newTestService(t, obs)

	_, _, err := svc.Signature(ctx, testUser, false)
	assert.ErrorIs(t, err, schema.ErrInsufficientHistory)

	_, err = svc.Ingest(ctx, testUser, history(10))
	require.NoError(t, err)

	first, cached, err := svc.Signature(ctx, testUser, false)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.InDelta(t, 24.9, first.Volume.WeeklyAvgKm, 1e-9)

	second, cached, err := svc.Signature(ctx, testUser, false)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)

	_, cached, err = svc.Signature(ctx, testUser, true)
	require.NoError(t, err)
	assert.False(t, cached, "refresh bypasses the cache")

	// A new session invalidates the stored signature
	newRun := schema.RawSession{StartTime: fixedNow.Add(-2 * time.Hour), DistanceKm: 5, DurationMin: 30}
	_, err = svc.Ingest(ctx, testUser, []schema.RawSession{newRun})
	require.NoError(t, err)
	_, cached, err = svc.Signature(ctx, testUser, false)
	require.NoError(t, err)
	assert.False(t, cached)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.NotEmpty(t, obs.events)
	assert.Equal(t, "signature", obs.events[0].Name)
	assert.False(t, obs.events[0].Success)
	assert.ErrorIs(t, obs.events[0].Err, schema.ErrInsufficientHistory)
	last := obs.events[len(obs.events)-1]
	assert.Equal(t, "signature", last.Name)
	assert.True(t, last.Success)
	assert.Equal(t, false, last.Fields["cached"])
}

func TestServiceIngestWithMocks(t *testing.T) {
	ctx := context.Background()
	bundle, err := models.Default()
	require.NoError(t, err)

	t.Run("no new sessions keep the signature", func(t *testing.T) {
		store := &iocache.MockSessionStore{}
		cache := &iocache.MockSignatureCache{}
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetSessionStore").Return(store)
		mgr.On("GetWeekStore").Return(store)
		mgr.On("GetSignatureCache").Return(cache)

		store.On("AddSessions", mock.Anything, mock.Anything).Return(0, nil)
		store.On("ListSessions", mock.Anything, testUser).Return([]schema.RawSession(nil), nil)
		store.On("UpsertWeeks", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(mgr, bundle)
		summary, err := svc.Ingest(ctx, testUser, history(1))
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Duplicates)
		cache.AssertNotCalled(t, "MarkStale", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &iocache.MockSessionStore{}
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetSessionStore").Return(store)
		store.On("AddSessions", mock.Anything, mock.Anything).Return(0, errors.New("disk full"))

		svc := NewService(mgr, bundle)
		_, err := svc.Ingest(ctx, testUser, history(1))
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("stale flag failure", func(t *testing.T) {
		store := &iocache.MockSessionStore{}
		cache := &iocache.MockSignatureCache{}
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetSessionStore").Return(store)
		mgr.On("GetWeekStore").Return(store)
		mgr.On("GetSignatureCache").Return(cache)

		store.On("AddSessions", mock.Anything, mock.Anything).Return(3, nil)
		store.On("ListSessions", mock.Anything, testUser).Return(history(1), nil)
		store.On("UpsertWeeks", mock.Anything, mock.Anything).Return(nil)
		cache.On("MarkStale", mock.Anything, testUser).Return(errors.New("locked"))

		svc := NewService(mgr, bundle)
		_, err := svc.Ingest(ctx, testUser, history(1))
		assert.ErrorContains(t, err, "locked")
	})
}
