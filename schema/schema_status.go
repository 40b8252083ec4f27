package schema

import "time"

// StoreStatus represents the status of the log store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	SchemaVersion    int              `json:"schema_version"`
	TotalRevisions   int              `json:"total_revisions"`
	FirstRevision    int64            `json:"first_revision"`
	LastRevision     int64            `json:"last_revision"`
	FirstCommitTime  time.Time        `json:"first_commit_time"`
	LastCommitTime   time.Time        `json:"last_commit_time"`
	TotalDetails     int              `json:"total_details"`
	SyntheticDetails int              `json:"synthetic_details"`
	StaleDetails     int              `json:"stale_details"`
	TotalPaths       int              `json:"total_paths"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
