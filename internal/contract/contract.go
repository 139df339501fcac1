// Package contract provides interfaces and shared utilities for the coach CLI's internal architecture.
package contract

import (
	"context"

	"github.com/albanecoiffe/health-data-coach/schema"
)

// SessionStore persists raw running sessions. Sessions are immutable once stored.
type SessionStore interface {
	// AddSessions stores new sessions and returns how many were inserted.
	// A session already stored for the same user and start time is ignored.
	AddSessions(ctx context.Context, sessions []schema.RawSession) (int, error)
	ListSessions(ctx context.Context, userID string) ([]schema.RawSession, error)
	ListUsers(ctx context.Context) ([]string, error)
	GetStatus(ctx context.Context) (schema.StoreStatus, error)
	Close() error
}

// WeekStore persists weekly aggregates keyed by user and ISO week.
type WeekStore interface {
	UpsertWeeks(ctx context.Context, weeks []schema.WeekAggregate) error
	ListWeeks(ctx context.Context, userID string) ([]schema.WeekAggregate, error)
	Close() error
}

// SignatureCache stores at most one computed signature per user.
type SignatureCache interface {
	Get(ctx context.Context, userID string) (schema.SignatureRecord, bool, error)
	Put(ctx context.Context, rec schema.SignatureRecord) error
	// MarkStale flags the stored signature so the next read recomputes it.
	MarkStale(ctx context.Context, userID string) error
	Close() error
}

// StoreManager defines the interface for managing the persistent stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetSessionStore() SessionStore
	GetWeekStore() WeekStore
	GetSignatureCache() SignatureCache
}
