package schema

import "time"

// StoreStatus represents the status of the session store.
type StoreStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalSessions     int              `json:"total_sessions"`
	TotalUsers        int              `json:"total_users"`
	OldestSessionTime time.Time        `json:"oldest_session_time"`
	LatestSessionTime time.Time        `json:"latest_session_time"`
	StaleSignatures   int              `json:"stale_signatures"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// SignatureRecord is a row of the signature cache.
type SignatureRecord struct {
	UserID         string
	Signature      RunnerSignature
	FreshnessToken string
	NeedsRecompute bool
	ComputedAt     time.Time
}

// IngestSummary reports the outcome of importing a batch of sessions.
type IngestSummary struct {
	UserID     string `json:"user_id"`
	Source     string `json:"source,omitempty"`
	Read       int    `json:"read"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Weeks      int    `json:"weeks"`
}
