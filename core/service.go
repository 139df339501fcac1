// Package core wires the stores and the models into the coach use cases:
// ingesting sessions, listing weeks, reading the runner signature and
// recommending the sessions of the current week.
package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/albanecoiffe/health-data-coach/core/agg"
	"github.com/albanecoiffe/health-data-coach/core/recommend"
	"github.com/albanecoiffe/health-data-coach/core/signature"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/internal/ingest"
	"github.com/albanecoiffe/health-data-coach/internal/models"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// Service runs the coach use cases against a StoreManager.
type Service struct {
	stores   contract.StoreManager
	builder  *signature.Builder
	engine   *recommend.Engine
	observer contract.UseCaseObserver
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used to find the current ISO week.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithObserver sets the observer notified after every use case.
func WithObserver(obs contract.UseCaseObserver) Option {
	return func(s *Service) {
		s.observer = contract.ObserverOrNoop(obs)
	}
}

// NewService returns a Service reading and writing through stores.
func NewService(stores contract.StoreManager, bundle *models.Bundle, opts ...Option) *Service {
	s := &Service{
		stores:   stores,
		observer: contract.NoopUseCaseObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = signature.NewBuilder(signature.WithClock(s.now))
	s.engine = recommend.NewEngine(bundle, recommend.WithClock(s.now))
	return s
}

// Ingest stores new sessions of userID, rebuilds the user's weekly aggregates
// and flags the stored signature for recomputation.
func (s *Service) Ingest(ctx context.Context, userID string, sessions []schema.RawSession) (summary schema.IngestSummary, err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "ingest", start, err, map[string]any{
			"user_id":  userID,
			"read":     summary.Read,
			"inserted": summary.Inserted,
		})
	}()

	owned := make([]schema.RawSession, len(sessions))
	for i, rs := range sessions {
		rs.UserID = userID
		owned[i] = rs
	}

	summary = schema.IngestSummary{UserID: userID, Read: len(owned)}
	summary.Inserted, err = s.stores.GetSessionStore().AddSessions(ctx, owned)
	if err != nil {
		return summary, fmt.Errorf("failed to store sessions: %w", err)
	}
	summary.Duplicates = summary.Read - summary.Inserted

	weeks, err := s.rebuildWeeks(ctx, userID)
	if err != nil {
		return summary, err
	}
	summary.Weeks = len(weeks)

	if summary.Inserted > 0 {
		if err = s.stores.GetSignatureCache().MarkStale(ctx, userID); err != nil {
			return summary, fmt.Errorf("failed to invalidate signature: %w", err)
		}
	}
	return summary, nil
}

// IngestFile reads a CSV export and stores its sessions for userID.
func (s *Service) IngestFile(ctx context.Context, userID, path string) (schema.IngestSummary, error) {
	sessions, err := ingest.ReadSessionsFile(path, userID)
	if err != nil {
		return schema.IngestSummary{}, err
	}
	summary, err := s.Ingest(ctx, userID, sessions)
	if err != nil {
		return summary, err
	}
	summary.Source = filepath.Base(path)
	return summary, nil
}

// Weeks rebuilds and returns the weekly aggregates of userID in chronological order.
// Rebuilding is idempotent.
func (s *Service) Weeks(ctx context.Context, userID string) (weeks []schema.WeekAggregate, err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "weeks", start, err, map[string]any{"user_id": userID, "weeks": len(weeks)})
	}()

	return s.rebuildWeeks(ctx, userID)
}

// Signature returns the runner signature of userID and whether it came from the cache.
// refresh forces a recomputation.
func (s *Service) Signature(ctx context.Context, userID string, refresh bool) (sig schema.RunnerSignature, cached bool, err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "signature", start, err, map[string]any{"user_id": userID, "cached": cached, "refresh": refresh})
	}()

	sessions, err := s.stores.GetSessionStore().ListSessions(ctx, userID)
	if err != nil {
		return sig, false, fmt.Errorf("failed to load sessions: %w", err)
	}
	cb := signature.NewCachedBuilder(s.builder, s.stores.GetSignatureCache())
	return cb.Get(ctx, userID, sessions, refresh)
}

// Recommend returns the plan of the current ISO week for userID.
func (s *Service) Recommend(ctx context.Context, userID string) (rec schema.WeekRecommendation, err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "recommend", start, err, map[string]any{
			"user_id":    userID,
			"risk_level": rec.RiskLevel,
			"remaining":  rec.RemainingSessionsCount,
		})
	}()

	sessions, err := s.stores.GetSessionStore().ListSessions(ctx, userID)
	if err != nil {
		return rec, fmt.Errorf("failed to load sessions: %w", err)
	}
	weeks, err := s.stores.GetWeekStore().ListWeeks(ctx, userID)
	if err != nil {
		return rec, fmt.Errorf("failed to load weeks: %w", err)
	}
	if len(weeks) == 0 && len(sessions) > 0 {
		// Sessions imported before the weeks table existed
		if weeks, err = s.rebuildWeeks(ctx, userID); err != nil {
			return rec, err
		}
	}
	return s.engine.Compute(weeks, sessions)
}

// Status returns the status of the session store.
func (s *Service) Status(ctx context.Context) (schema.StoreStatus, error) {
	return s.stores.GetSessionStore().GetStatus(ctx)
}

// rebuildWeeks recomputes every weekly aggregate of userID from the stored sessions.
func (s *Service) rebuildWeeks(ctx context.Context, userID string) ([]schema.WeekAggregate, error) {
	sessions, err := s.stores.GetSessionStore().ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	weeks := agg.RebuildWeekAggregates(userID, sessions)
	if err := s.stores.GetWeekStore().UpsertWeeks(ctx, weeks); err != nil {
		return nil, fmt.Errorf("failed to store weeks: %w", err)
	}
	return weeks, nil
}

func (s *Service) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, contract.UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}
