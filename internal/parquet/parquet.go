// Package parquet exports audit history to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/plugcheck/plugcheck/schema"
)

// AuditRun represents a single plugin audit run.
// This struct maps to the plugcheck_audit_runs database table.
type AuditRun struct {
	// AuditID is the unique identifier for this audit run
	AuditID int64 `parquet:"audit_id,snappy"`

	// PluginName is the audited package's declared name
	PluginName string `parquet:"plugin_name,snappy"`

	// PluginPath is the absolute path of the audited package
	PluginPath string `parquet:"plugin_path,snappy"`

	// AuditTime is when the audit ran (stored as TIMESTAMP with nanosecond precision)
	AuditTime time.Time `parquet:"audit_time,snappy"`

	// ValidationScore is the 0-100 static validation score
	ValidationScore float64 `parquet:"validation_score,snappy"`

	// TestPassRate is the 0-100 test pass rate (nullable, absent when tests were skipped)
	TestPassRate *float64 `parquet:"test_pass_rate,optional,snappy"`

	// CoveragePct is the line coverage percentage (nullable)
	CoveragePct *float64 `parquet:"coverage_pct,optional,snappy"`

	// OverallHealth is the composite health tier label
	OverallHealth string `parquet:"overall_health,snappy"`
}

// WriteAuditRunsParquet writes a slice of AuditRun structs to a Parquet file.
func WriteAuditRunsParquet(data []AuditRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the AuditRun struct tags
	writer := parquet.NewGenericWriter[AuditRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertAuditRunRecords converts schema.AuditRunRecord to AuditRun for Parquet export.
func ConvertAuditRunRecords(records []schema.AuditRunRecord) []AuditRun {
	result := make([]AuditRun, len(records))
	for i, record := range records {
		result[i] = AuditRun{
			AuditID:         record.ID,
			PluginName:      record.PluginName,
			PluginPath:      record.PluginPath,
			AuditTime:       record.AuditTime,
			ValidationScore: record.ValidationScore,
			TestPassRate:    record.TestPassRate,
			CoveragePct:     record.CoveragePct,
			OverallHealth:   record.OverallHealth,
		}
	}
	return result
}
