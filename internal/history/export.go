package history

import (
	"errors"
	"fmt"

	"github.com/plugcheck/plugcheck/internal/parquet"
)

// ExecuteHistoryExport exports the recorded audit runs to a Parquet file.
func ExecuteHistoryExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetAuditStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no audit history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total audit runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllAuditRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve audit runs: %w", err)
	}

	rows := parquet.ConvertAuditRunRecords(runs)
	exportFile := outputFile + ".audit_runs.parquet"
	if err := parquet.WriteAuditRunsParquet(rows, exportFile); err != nil {
		return fmt.Errorf("failed to write audit runs: %w", err)
	}
	fmt.Printf("Exported %d audit runs to: %s\n", len(rows), exportFile)

	return nil
}
