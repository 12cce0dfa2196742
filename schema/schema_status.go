package schema

import "time"

// HistoryStatus represents the status of the audit history store.
type HistoryStatus struct {
	Backend       string    `json:"backend"`
	Connected     bool      `json:"connected"`
	TotalRuns     int       `json:"total_runs"`
	LastRunTime   time.Time `json:"last_run_time"`
	OldestRunTime time.Time `json:"oldest_run_time"`
}

// AuditRunRecord represents a row from the plugcheck_audit_runs table.
type AuditRunRecord struct {
	ID              int64
	PluginName      string
	PluginPath      string
	AuditTime       time.Time
	ValidationScore float64
	TestPassRate    *float64
	CoveragePct     *float64
	OverallHealth   string
}
