package iocache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// SessionStoreImpl stores raw sessions and weekly aggregates in a SQL database.
type SessionStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var (
	_ contract.SessionStore = &SessionStoreImpl{} // Compile-time check
	_ contract.WeekStore    = &SessionStoreImpl{} // Compile-time check
)

// sessionColumns is the column list shared by inserts and selects.
const sessionColumns = `user_id, start_time, distance_km, duration_min, avg_hr,
	z1_min, z2_min, z3_min, z4_min, z5_min, elevation_gain_m, active_energy_kcal`

// weekColumns is the column list shared by upserts and selects.
const weekColumns = `user_id, iso_year, iso_week, week_start, week_end, sessions_count,
	total_distance_km, total_duration_min, z1_z3_pct, z4_z5_pct, weekly_load, last_session_at`

// AddSessions inserts the sessions and skips the ones already stored.
func (ss *SessionStoreImpl) AddSessions(ctx context.Context, sessions []schema.RawSession) (int, error) {
	if len(sessions) == 0 {
		return 0, nil
	}

	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin session insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, ss.getInsertIgnoreQuery())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare session insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, s := range sessions {
		res, err := stmt.ExecContext(ctx,
			s.UserID, toMicros(s.StartTime), s.DistanceKm, s.DurationMin, s.AvgHeartRate,
			s.ZoneMin[0], s.ZoneMin[1], s.ZoneMin[2], s.ZoneMin[3], s.ZoneMin[4],
			s.ElevationGainM, s.ActiveEnergyKcal)
		if err != nil {
			return 0, fmt.Errorf("failed to insert session %s: %w", s.StartTime.Format("2006-01-02 15:04"), err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sessions: %w", err)
	}
	return inserted, nil
}

// ListSessions returns the user's sessions ordered by start time.
func (ss *SessionStoreImpl) ListSessions(ctx context.Context, userID string) ([]schema.RawSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? ORDER BY start_time`,
		sessionColumns, quoteTableName(sessionsTable, ss.backend))
	rows, err := ss.db.QueryContext(ctx, rebind(query, ss.backend), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RawSession
	for rows.Next() {
		var s schema.RawSession
		var start int64
		if err := rows.Scan(&s.UserID, &start, &s.DistanceKm, &s.DurationMin, &s.AvgHeartRate,
			&s.ZoneMin[0], &s.ZoneMin[1], &s.ZoneMin[2], &s.ZoneMin[3], &s.ZoneMin[4],
			&s.ElevationGainM, &s.ActiveEnergyKcal); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.StartTime = fromMicros(start)
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return results, nil
}

// ListUsers returns every user id with at least one stored session.
func (ss *SessionStoreImpl) ListUsers(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT user_id FROM %s ORDER BY user_id`, quoteTableName(sessionsTable, ss.backend))
	rows, err := ss.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpsertWeeks inserts or replaces the weekly aggregates.
func (ss *SessionStoreImpl) UpsertWeeks(ctx context.Context, weeks []schema.WeekAggregate) error {
	if len(weeks) == 0 {
		return nil
	}

	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin week upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, ss.getWeekUpsertQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare week upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, w := range weeks {
		if _, err := stmt.ExecContext(ctx,
			w.UserID, w.Year, w.Week, toMicros(w.StartDate), toMicros(w.EndDate), w.Sessions,
			w.DistanceKm, w.DurationMin, w.LowFraction, w.HighFraction, w.WeeklyLoad,
			toMicros(w.LastSessionAt)); err != nil {
			return fmt.Errorf("failed to upsert week %d-W%02d: %w", w.Year, w.Week, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit weeks: %w", err)
	}
	return nil
}

// ListWeeks returns the user's weekly aggregates in chronological order.
func (ss *SessionStoreImpl) ListWeeks(ctx context.Context, userID string) ([]schema.WeekAggregate, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? ORDER BY iso_year, iso_week`,
		weekColumns, quoteTableName(weeksTable, ss.backend))
	rows, err := ss.db.QueryContext(ctx, rebind(query, ss.backend), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.WeekAggregate
	for rows.Next() {
		var w schema.WeekAggregate
		var start, end, last int64
		if err := rows.Scan(&w.UserID, &w.Year, &w.Week, &start, &end, &w.Sessions,
			&w.DistanceKm, &w.DurationMin, &w.LowFraction, &w.HighFraction, &w.WeeklyLoad, &last); err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		w.StartDate = fromMicros(start)
		w.EndDate = fromMicros(end)
		w.LastSessionAt = fromMicros(last)
		results = append(results, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weeks: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the store.
func (ss *SessionStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ss.db == nil {
		return status, nil
	}

	quotedSessions := quoteTableName(sessionsTable, ss.backend)
	countQuery := fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT user_id) FROM %s", quotedSessions)
	if err := ss.db.QueryRowContext(ctx, countQuery).Scan(&status.TotalSessions, &status.TotalUsers); err != nil {
		return status, fmt.Errorf("failed to get total sessions: %w", err)
	}

	if status.TotalSessions > 0 {
		var oldest, latest int64
		rangeQuery := fmt.Sprintf("SELECT MIN(start_time), MAX(start_time) FROM %s", quotedSessions)
		if err := ss.db.QueryRowContext(ctx, rangeQuery).Scan(&oldest, &latest); err != nil {
			return status, fmt.Errorf("failed to get session time range: %w", err)
		}
		status.OldestSessionTime = fromMicros(oldest)
		status.LatestSessionTime = fromMicros(latest)
	}

	staleQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE needs_recompute = 1", quoteTableName(signaturesTable, ss.backend))
	if err := ss.db.QueryRowContext(ctx, staleQuery).Scan(&status.StaleSignatures); err != nil {
		return status, fmt.Errorf("failed to count stale signatures: %w", err)
	}

	for _, table := range allTables {
		var rows int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ss.backend))
		if err := ss.db.QueryRowContext(ctx, query).Scan(&rows); err != nil {
			return status, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		status.TableSizes[table] = rows
	}

	return status, nil
}

// Close closes the underlying DB connection.
func (ss *SessionStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// getInsertIgnoreQuery returns the session INSERT that skips existing keys.
func (ss *SessionStoreImpl) getInsertIgnoreQuery() string {
	quotedTableName := quoteTableName(sessionsTable, ss.backend)
	values := "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	switch ss.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT IGNORE INTO %s (%s) VALUES %s`, quotedTableName, sessionColumns, values)

	case schema.PostgreSQLBackend:
		return rebind(fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s
			ON CONFLICT (user_id, start_time) DO NOTHING`, quotedTableName, sessionColumns, values), ss.backend)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s) VALUES %s`, quotedTableName, sessionColumns, values)
	}
}

// getWeekUpsertQuery returns the UPSERT query for weekly aggregates.
func (ss *SessionStoreImpl) getWeekUpsertQuery() string {
	quotedTableName := quoteTableName(weeksTable, ss.backend)
	values := "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	switch ss.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s AS new
			ON DUPLICATE KEY UPDATE week_start = new.week_start, week_end = new.week_end,
			sessions_count = new.sessions_count, total_distance_km = new.total_distance_km,
			total_duration_min = new.total_duration_min, z1_z3_pct = new.z1_z3_pct,
			z4_z5_pct = new.z4_z5_pct, weekly_load = new.weekly_load, last_session_at = new.last_session_at`,
			quotedTableName, weekColumns, values)

	case schema.PostgreSQLBackend:
		return rebind(fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s
			ON CONFLICT (user_id, iso_year, iso_week) DO UPDATE SET week_start = EXCLUDED.week_start,
			week_end = EXCLUDED.week_end, sessions_count = EXCLUDED.sessions_count,
			total_distance_km = EXCLUDED.total_distance_km, total_duration_min = EXCLUDED.total_duration_min,
			z1_z3_pct = EXCLUDED.z1_z3_pct, z4_z5_pct = EXCLUDED.z4_z5_pct,
			weekly_load = EXCLUDED.weekly_load, last_session_at = EXCLUDED.last_session_at`,
			quotedTableName, weekColumns, values), ss.backend)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES %s`, quotedTableName, weekColumns, values)
	}
}
