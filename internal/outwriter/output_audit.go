package outwriter

import (
	"fmt"
	"io"

	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAuditReport outputs an audit report, dispatching on the configured
// output format.
func WriteAuditReport(report *schema.AuditReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAuditMarkdown(w, report, cfg)
		}, "Wrote markdown")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAuditTable(w, report, cfg)
		}, "Wrote table")
	}
}

// auditStepRow summarizes one orchestrator step for display.
type auditStepRow struct {
	name   string
	status string
	detail string
}

// auditRows flattens the audit results into display rows in pipeline order.
func auditRows(report *schema.AuditReport, cfg *contract.Config) []auditStepRow {
	r := report.Results

	rows := []auditStepRow{
		{
			name:   "validation",
			status: stepStatusText(r.Validation.FailFindings == 0, false),
			detail: fmt.Sprintf("score %s%%, %d/%d checks passed",
				fmtScore(r.Validation.OverallScore, cfg.Precision),
				r.Validation.PassedChecks, r.Validation.TotalChecks),
		},
		{"linting", stepStatus(r.Linting), r.Linting.Note},
		{"formatting", stepStatus(r.Formatting), r.Formatting.Note},
	}

	testDetail := r.Tests.Note
	if !r.Tests.Skipped && r.Tests.Stats.Total > 0 {
		testDetail = fmt.Sprintf("%d passed, %d failed", r.Tests.Stats.Passed, r.Tests.Stats.Failed)
	}
	rows = append(rows, auditStepRow{"tests", stepStatus(r.Tests.StepResult), testDetail})

	covDetail := r.Coverage.Note
	if r.Coverage.Percentage != nil {
		covDetail = fmt.Sprintf("%s%% lines", fmtScore(*r.Coverage.Percentage, cfg.Precision))
	}
	rows = append(rows, auditStepRow{"coverage", stepStatus(r.Coverage.StepResult), covDetail})

	for i, fix := range r.Fixes {
		rows = append(rows, auditStepRow{
			name:   fmt.Sprintf("fix %d", i+1),
			status: stepStatus(fix),
			detail: fix.Note,
		})
	}
	return rows
}

func stepStatus(step schema.StepResult) string {
	return stepStatusText(step.Passed, step.Skipped)
}

func stepStatusText(passed, skipped bool) string {
	switch {
	case skipped:
		return "SKIP"
	case passed:
		return "PASS"
	default:
		return "FAIL"
	}
}

// writeAuditTable renders the human-readable audit summary.
func writeAuditTable(w io.Writer, report *schema.AuditReport, cfg *contract.Config) error {
	fmt.Fprintf(w, "Audit report for %s (%s)\n\n",
		report.PluginName, contract.TruncatePath(report.PluginPath, pathDisplayWidth()))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Step", "Status", "Details"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, row := range auditRows(report, cfg) {
		data = append(data, []string{row.name, row.status, row.detail})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error adding table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("error rendering table: %w", err)
	}

	fmt.Fprintf(w, "\nOverall Health: %s\n", healthLabel(report.OverallHealth, cfg.UseColors))
	return nil
}

// writeAuditMarkdown renders the audit report as a markdown document.
func writeAuditMarkdown(w io.Writer, report *schema.AuditReport, cfg *contract.Config) error {
	fmt.Fprintf(w, "# Audit Report: %s\n\n", report.PluginName)
	fmt.Fprintf(w, "Plugin: `%s`\n\n", report.PluginPath)

	fmt.Fprintln(w, "| Step | Status | Details |")
	fmt.Fprintln(w, "|------|--------|---------|")
	for _, row := range auditRows(report, cfg) {
		fmt.Fprintf(w, "| %s | %s | %s |\n", row.name, row.status, row.detail)
	}

	fmt.Fprintf(w, "\n**Overall Health:** %s\n", report.OverallHealth)
	return nil
}
