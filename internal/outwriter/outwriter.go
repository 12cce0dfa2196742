// Package outwriter renders validation and audit reports in the
// configured output format.
package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteValidation prints a validation report using the configured output format.
func (ow *OutWriter) WriteValidation(report *schema.ValidationReport, cfg *contract.Config) error {
	return WriteValidationReport(report, cfg)
}

// WriteAudit prints an audit report using the configured output format.
func (ow *OutWriter) WriteAudit(report *schema.AuditReport, cfg *contract.Config) error {
	return WriteAuditReport(report, cfg)
}

// writeWithFile handles the common pattern of opening a file, writing to it,
// and cleaning up.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// pathDisplayWidth returns the character budget for plugin paths in
// table headers, derived from the terminal width.
func pathDisplayWidth() int {
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		detectedWidth = 80 // Conservative default for narrow terminals and CI
	}
	width := detectedWidth - 25 // Reserve space for the surrounding text
	if width < 30 {
		width = 30
	}
	return width
}

// fmtScore formats a 0-100 score at the configured precision.
func fmtScore(score float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, score)
}

// severityLabel picks the plain or colored severity label per config.
func severityLabel(sev schema.Severity, useColors bool) string {
	if useColors {
		return contract.GetColorSeverityLabel(sev)
	}
	return contract.GetPlainSeverityLabel(sev)
}

// healthLabel picks the plain or colored health tier label per config.
func healthLabel(tier schema.HealthTier, useColors bool) string {
	if useColors {
		return contract.GetColorHealthLabel(tier)
	}
	return string(tier)
}
