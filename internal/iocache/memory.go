package iocache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
)

type sessionKey struct {
	userID string
	start  int64
}

type weekKey struct {
	userID string
	key    schema.WeekKey
}

// MemorySessionStore keeps sessions and weeks in process memory.
// It backs the none backend, so nothing survives the process.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]schema.RawSession
	weeks    map[weekKey]schema.WeekAggregate
}

var (
	_ contract.SessionStore = &MemorySessionStore{} // Compile-time check
	_ contract.WeekStore    = &MemorySessionStore{} // Compile-time check
)

// NewMemorySessionStore returns an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[sessionKey]schema.RawSession),
		weeks:    make(map[weekKey]schema.WeekAggregate),
	}
}

// AddSessions stores new sessions and returns how many were inserted.
func (ms *MemorySessionStore) AddSessions(_ context.Context, sessions []schema.RawSession) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	inserted := 0
	for _, s := range sessions {
		k := sessionKey{userID: s.UserID, start: toMicros(s.StartTime)}
		if _, ok := ms.sessions[k]; ok {
			continue
		}
		s.StartTime = fromMicros(k.start)
		ms.sessions[k] = s
		inserted++
	}
	return inserted, nil
}

// ListSessions returns the user's sessions ordered by start time.
func (ms *MemorySessionStore) ListSessions(_ context.Context, userID string) ([]schema.RawSession, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var out []schema.RawSession
	for k, s := range ms.sessions {
		if k.userID == userID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b schema.RawSession) int { return a.StartTime.Compare(b.StartTime) })
	return out, nil
}

// ListUsers returns every user id with at least one stored session.
func (ms *MemorySessionStore) ListUsers(_ context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var users []string
	for k := range ms.sessions {
		if !slices.Contains(users, k.userID) {
			users = append(users, k.userID)
		}
	}
	slices.Sort(users)
	return users, nil
}

// UpsertWeeks inserts or replaces the weekly aggregates.
func (ms *MemorySessionStore) UpsertWeeks(_ context.Context, weeks []schema.WeekAggregate) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, w := range weeks {
		ms.weeks[weekKey{userID: w.UserID, key: w.Key()}] = w
	}
	return nil
}

// ListWeeks returns the user's weekly aggregates in chronological order.
func (ms *MemorySessionStore) ListWeeks(_ context.Context, userID string) ([]schema.WeekAggregate, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var out []schema.WeekAggregate
	for k, w := range ms.weeks {
		if k.userID == userID {
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b schema.WeekAggregate) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return a.Week - b.Week
	})
	return out, nil
}

// GetStatus returns status information about the store.
func (ms *MemorySessionStore) GetStatus(_ context.Context) (schema.StoreStatus, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	status := schema.StoreStatus{
		Backend:       string(schema.NoneBackend),
		Connected:     true,
		TotalSessions: len(ms.sessions),
		TableSizes: map[string]int64{
			sessionsTable: int64(len(ms.sessions)),
			weeksTable:    int64(len(ms.weeks)),
		},
	}
	users := make(map[string]struct{})
	var oldest, latest time.Time
	for k, s := range ms.sessions {
		users[k.userID] = struct{}{}
		if oldest.IsZero() || s.StartTime.Before(oldest) {
			oldest = s.StartTime
		}
		if s.StartTime.After(latest) {
			latest = s.StartTime
		}
	}
	status.TotalUsers = len(users)
	status.OldestSessionTime = oldest
	status.LatestSessionTime = latest
	return status, nil
}

// Close is a no-op.
func (ms *MemorySessionStore) Close() error { return nil }

// MemorySignatureCache keeps signatures in process memory.
type MemorySignatureCache struct {
	mu      sync.RWMutex
	records map[string]schema.SignatureRecord
}

var _ contract.SignatureCache = &MemorySignatureCache{} // Compile-time check

// NewMemorySignatureCache returns an empty in-memory signature cache.
func NewMemorySignatureCache() *MemorySignatureCache {
	return &MemorySignatureCache{records: make(map[string]schema.SignatureRecord)}
}

// Get returns the stored signature record for the user.
func (mc *MemorySignatureCache) Get(_ context.Context, userID string) (schema.SignatureRecord, bool, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	rec, ok := mc.records[userID]
	return rec, ok, nil
}

// Put stores the record, replacing any previous signature of the user.
func (mc *MemorySignatureCache) Put(_ context.Context, rec schema.SignatureRecord) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.records[rec.UserID] = rec
	return nil
}

// MarkStale flags the user's signature for recomputation.
func (mc *MemorySignatureCache) MarkStale(_ context.Context, userID string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if rec, ok := mc.records[userID]; ok {
		rec.NeedsRecompute = true
		mc.records[userID] = rec
	}
	return nil
}

// Close is a no-op.
func (mc *MemorySignatureCache) Close() error { return nil }
