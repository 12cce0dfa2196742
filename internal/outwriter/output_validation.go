package outwriter

import (
	"fmt"
	"io"

	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteValidationReport outputs a validation report, dispatching on the
// configured output format.
func WriteValidationReport(report *schema.ValidationReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeValidationMarkdown(w, report, cfg)
		}, "Wrote markdown")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeValidationTable(w, report, cfg)
		}, "Wrote table")
	}
}

// orderedResults returns the report's check results in catalog order so
// output is stable across runs regardless of map iteration.
func orderedResults(report *schema.ValidationReport) []schema.CheckResult {
	results := make([]schema.CheckResult, 0, len(report.Checks))
	for _, name := range schema.AllChecks {
		if result, ok := report.Checks[name]; ok {
			results = append(results, result)
		}
	}
	return results
}

// checkStatus summarizes one check for table and markdown rows.
func checkStatus(result schema.CheckResult) string {
	if result.Passed {
		return "PASS"
	}
	return "FAIL"
}

// checkDetails condenses a check's findings into one cell.
func checkDetails(result schema.CheckResult) string {
	fails := 0
	warns := 0
	for _, f := range result.Findings {
		switch f.Severity {
		case schema.SeverityFail:
			fails++
		case schema.SeverityWarn:
			warns++
		}
	}
	return fmt.Sprintf("%d findings (%d fail, %d warn)", len(result.Findings), fails, warns)
}

// writeValidationTable renders the human-readable finding listing plus
// the per-check summary table.
func writeValidationTable(w io.Writer, report *schema.ValidationReport, cfg *contract.Config) error {
	fmt.Fprintf(w, "Validation report for %s\n\n", contract.TruncatePath(report.PluginPath, pathDisplayWidth()))

	for _, result := range orderedResults(report) {
		fmt.Fprintf(w, "[%s]\n", result.Category)
		for _, f := range result.Findings {
			fmt.Fprintf(w, "  %s %s\n", severityLabel(f.Severity, cfg.UseColors), f.Message)
			if f.Detail != "" {
				fmt.Fprintf(w, "       %s\n", f.Detail)
			}
		}
		fmt.Fprintln(w)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Check", "Status", "Details"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, result := range orderedResults(report) {
		data = append(data, []string{
			string(result.Category),
			checkStatus(result),
			checkDetails(result),
		})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error adding table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("error rendering table: %w", err)
	}

	fmt.Fprintf(w, "\nChecks passed: %d/%d\n", report.PassedChecks, report.TotalChecks)
	fmt.Fprintf(w, "Quality score: %s%%\n", fmtScore(report.OverallScore, cfg.Precision))
	return nil
}

// writeValidationMarkdown renders the report as a markdown document.
func writeValidationMarkdown(w io.Writer, report *schema.ValidationReport, cfg *contract.Config) error {
	fmt.Fprintf(w, "# Validation Report\n\n")
	fmt.Fprintf(w, "Plugin: `%s`\n\n", report.PluginPath)

	fmt.Fprintln(w, "| Check | Status | Details |")
	fmt.Fprintln(w, "|-------|--------|---------|")
	for _, result := range orderedResults(report) {
		fmt.Fprintf(w, "| %s | %s | %s |\n",
			result.Category, checkStatus(result), checkDetails(result))
	}

	fmt.Fprintf(w, "\n**Checks passed:** %d/%d\n\n", report.PassedChecks, report.TotalChecks)
	fmt.Fprintf(w, "**Quality score:** %s%%\n", fmtScore(report.OverallScore, cfg.Precision))

	for _, result := range orderedResults(report) {
		if len(result.Findings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n## %s\n\n", result.Category)
		for _, f := range result.Findings {
			fmt.Fprintf(w, "- **%s** %s", contract.GetPlainSeverityLabel(f.Severity), f.Message)
			if f.Detail != "" {
				fmt.Fprintf(w, " (%s)", f.Detail)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
