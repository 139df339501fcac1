package core

import (
	"context"
	"fmt"
	"os"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/internal/ingest"
	"github.com/albanecoiffe/health-data-coach/internal/iocache"
	"github.com/albanecoiffe/health-data-coach/internal/models"
	"github.com/albanecoiffe/health-data-coach/internal/outwriter"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// ExecutorFunc defines the function signature for executing a CLI use case.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// NewServiceFromConfig builds a Service over stores using the models and logging of cfg.
func NewServiceFromConfig(cfg *contract.Config, stores contract.StoreManager) (*Service, error) {
	bundle, err := models.Load(cfg.ModelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}
	logger := contract.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return NewService(stores, bundle,
		WithClock(cfg.Clock()),
		WithObserver(contract.NewLogUseCaseObserver(logger)),
	), nil
}

// ExecuteIngest imports one CSV export for the configured user and prints a summary.
func ExecuteIngest(ctx context.Context, cfg *contract.Config, path string) error {
	svc, err := NewServiceFromConfig(cfg, iocache.Manager)
	if err != nil {
		return err
	}
	summary, err := svc.IngestFile(ctx, cfg.UserID, path)
	if err != nil {
		return err
	}
	return outwriter.PrintIngestSummary(summary, cfg)
}

// ExecuteWeeks rebuilds and prints the weekly aggregates of the configured user.
func ExecuteWeeks(ctx context.Context, cfg *contract.Config) error {
	svc, err := NewServiceFromConfig(cfg, iocache.Manager)
	if err != nil {
		return err
	}
	weeks, err := svc.Weeks(ctx, cfg.UserID)
	if err != nil {
		return err
	}
	return outwriter.PrintWeeks(weeks, cfg)
}

// ExecuteSignature prints the runner signature of the configured user.
func ExecuteSignature(ctx context.Context, cfg *contract.Config, refresh bool) error {
	svc, err := NewServiceFromConfig(cfg, iocache.Manager)
	if err != nil {
		return err
	}
	sig, cached, err := svc.Signature(ctx, cfg.UserID, refresh)
	if err != nil {
		return err
	}
	return outwriter.PrintSignature(sig, cached, cfg)
}

// ExecuteRecommend prints the recommendation of the current week for the configured user.
func ExecuteRecommend(ctx context.Context, cfg *contract.Config) error {
	svc, err := NewServiceFromConfig(cfg, iocache.Manager)
	if err != nil {
		return err
	}
	rec, err := svc.Recommend(ctx, cfg.UserID)
	if err != nil {
		return err
	}
	return outwriter.PrintRecommendation(rec, cfg)
}

// ExecuteWatch imports every CSV export written into dir until ctx is canceled.
// Files matching excludes are skipped.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, dir string, excludes []string) error {
	svc, err := NewServiceFromConfig(cfg, iocache.Manager)
	if err != nil {
		return err
	}
	logger := contract.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	w, err := ingest.NewWatcher(dir, func(ctx context.Context, path string) error {
		summary, err := svc.IngestFile(ctx, cfg.UserID, path)
		if err != nil {
			return err
		}
		return outwriter.PrintIngestSummary(summary, cfg)
	}, ingest.WithLogger(logger), ingest.WithExcludes(excludes...))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Watching %s for CSV exports (Ctrl+C to stop)\n", dir)
	return w.Run(ctx)
}

// ExecuteStoreStatus prints the status of the configured store.
func ExecuteStoreStatus(ctx context.Context, cfg *contract.Config) error {
	status, err := iocache.Manager.GetSessionStore().GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if cfg.Output == schema.TextOut {
		iocache.PrintStoreStatus(status)
		return nil
	}
	return outwriter.PrintStoreStatus(status, cfg)
}
