package iocache

import (
	"context"
	"errors"
	"fmt"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/internal/parquet"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// ExecuteStoreExport exports every stored session and week to Parquet files.
func ExecuteStoreExport(ctx context.Context, mgr contract.StoreManager, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	sessionStore := mgr.GetSessionStore()
	status, err := sessionStore.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalSessions == 0 {
		return errors.New("no session data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total users: %d\n", status.TotalUsers)
	fmt.Printf("Total sessions: %d\n", status.TotalSessions)

	users, err := sessionStore.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	var sessions []schema.RawSession
	var weeks []schema.WeekAggregate
	for _, userID := range users {
		userSessions, err := sessionStore.ListSessions(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to retrieve sessions of %s: %w", userID, err)
		}
		sessions = append(sessions, userSessions...)

		userWeeks, err := mgr.GetWeekStore().ListWeeks(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to retrieve weeks of %s: %w", userID, err)
		}
		weeks = append(weeks, userWeeks...)
	}

	parquetSessions := parquet.ConvertSessions(sessions)
	sessionsFile := outputFile + ".sessions.parquet"
	if err := parquet.WriteSessionsParquet(parquetSessions, sessionsFile); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	fmt.Printf("Exported %d sessions to: %s\n", len(parquetSessions), sessionsFile)

	parquetWeeks := parquet.ConvertWeeks(weeks)
	weeksFile := outputFile + ".weeks.parquet"
	if err := parquet.WriteWeeksParquet(parquetWeeks, weeksFile); err != nil {
		return fmt.Errorf("failed to write weeks: %w", err)
	}
	fmt.Printf("Exported %d weeks to: %s\n", len(parquetWeeks), weeksFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
