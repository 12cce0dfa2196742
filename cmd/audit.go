package cmd

import (
	"os"

	"github.com/plugcheck/plugcheck/core"
	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/internal/history"
	"github.com/plugcheck/plugcheck/internal/outwriter"
	"github.com/plugcheck/plugcheck/schema"
	"github.com/spf13/cobra"
)

// auditCmd runs the full audit pipeline against a plugin package.
var auditCmd = &cobra.Command{
	Use:   "audit [plugin-path]",
	Short: "Run the full audit pipeline and report overall health.",
	Long: `Run the complete audit pipeline against a plugin package.

The pipeline runs in order:
- Static validation checks (structure, docs, manifest, patterns)
- The package's own lint script
- The package's own format check script
- The package's own test suite
- Coverage measurement against the configured threshold

Each step records pass/fail without halting the pipeline, and the
combined signals produce an overall health tier (EXCELLENT, GOOD,
FAIR, NEEDS IMPROVEMENT, POOR). Every audit run is recorded in the
history store unless tracking is disabled.

Exits nonzero when overall health is POOR.

Examples:
  # Audit the package in the current directory
  plugcheck audit

  # Apply the package's autofix scripts first
  plugcheck audit ./my-plugin --fix

  # Audit without recording history
  plugcheck audit ./my-plugin --history-backend none`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		report, err := core.ExecuteAudit(rootCtx, cfg, runner, history.Manager)
		if err != nil {
			contract.LogFatal("Cannot run audit", err)
		}
		if err := outwriter.NewOutWriter().WriteAudit(report, cfg); err != nil {
			contract.LogFatal("Cannot write audit report", err)
		}
		if report.OverallHealth == schema.PoorHealth {
			os.Exit(1)
		}
	},
}
