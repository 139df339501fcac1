package iocache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// SignatureCacheImpl keeps one serialized signature per user in a SQL database.
type SignatureCacheImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SignatureCache = &SignatureCacheImpl{} // Compile-time check

// Get returns the stored signature record for the user.
// The boolean is false when no signature has been stored yet.
func (sc *SignatureCacheImpl) Get(ctx context.Context, userID string) (schema.SignatureRecord, bool, error) {
	query := fmt.Sprintf(`SELECT signature_json, freshness_token, needs_recompute, computed_at FROM %s WHERE user_id = ?`,
		quoteTableName(signaturesTable, sc.backend))

	var payload string
	var needsRecompute int
	var computedAt int64
	rec := schema.SignatureRecord{UserID: userID}
	err := sc.db.QueryRowContext(ctx, rebind(query, sc.backend), userID).
		Scan(&payload, &rec.FreshnessToken, &needsRecompute, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.SignatureRecord{}, false, nil
	}
	if err != nil {
		return schema.SignatureRecord{}, false, fmt.Errorf("failed to read signature: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &rec.Signature); err != nil {
		return schema.SignatureRecord{}, false, fmt.Errorf("failed to decode stored signature: %w", err)
	}
	rec.NeedsRecompute = needsRecompute != 0
	rec.ComputedAt = fromMicros(computedAt)
	return rec, true, nil
}

// Put stores the record, replacing any previous signature of the user.
func (sc *SignatureCacheImpl) Put(ctx context.Context, rec schema.SignatureRecord) error {
	payload, err := json.Marshal(rec.Signature)
	if err != nil {
		return fmt.Errorf("failed to encode signature: %w", err)
	}
	if _, err := sc.db.ExecContext(ctx, sc.getUpsertQuery(),
		rec.UserID, string(payload), rec.FreshnessToken, boolToInt(rec.NeedsRecompute), toMicros(rec.ComputedAt)); err != nil {
		return fmt.Errorf("failed to store signature: %w", err)
	}
	return nil
}

// MarkStale flags the user's signature for recomputation. It is a no-op when none is stored.
func (sc *SignatureCacheImpl) MarkStale(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET needs_recompute = 1 WHERE user_id = ?`, quoteTableName(signaturesTable, sc.backend))
	if _, err := sc.db.ExecContext(ctx, rebind(query, sc.backend), userID); err != nil {
		return fmt.Errorf("failed to mark signature stale: %w", err)
	}
	return nil
}

// Close closes the underlying DB connection.
func (sc *SignatureCacheImpl) Close() error {
	if sc.db != nil {
		return sc.db.Close()
	}
	return nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (sc *SignatureCacheImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(signaturesTable, sc.backend)
	switch sc.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (user_id, signature_json, freshness_token, needs_recompute, computed_at) VALUES (?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE signature_json = new.signature_json, freshness_token = new.freshness_token,
			needs_recompute = new.needs_recompute, computed_at = new.computed_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (user_id, signature_json, freshness_token, needs_recompute, computed_at) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE SET signature_json = EXCLUDED.signature_json, freshness_token = EXCLUDED.freshness_token,
			needs_recompute = EXCLUDED.needs_recompute, computed_at = EXCLUDED.computed_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (user_id, signature_json, freshness_token, needs_recompute, computed_at) VALUES (?, ?, ?, ?, ?)`, quotedTableName)
	}
}
