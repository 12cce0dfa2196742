package cmd

import (
	"os"

	"github.com/plugcheck/plugcheck/core"
	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/internal/outwriter"
	"github.com/spf13/cobra"
)

// validateCmd runs the selected quality checks against a plugin package.
var validateCmd = &cobra.Command{
	Use:   "validate [plugin-path]",
	Short: "Run quality checks against a plugin package.",
	Long: `Inspect a plugin package and score it against quality conventions.

Checks cover:
- Required and recommended file structure
- README documentation sections
- package.json manifest completeness
- Suspicious patterns (eval, exec, hardcoded secrets)
- Synchronous I/O inside the plugin function
- JSDoc coverage of exported functions
- Plugin factory and pipeline conventions

By default all checks run statically without executing any package code.
With --functional, the package's own test and coverage scripts run too.

Exits nonzero when any check reports a failing finding, making it
suitable for CI gates.

Examples:
  # Validate the package in the current directory
  plugcheck validate

  # Only structural and documentation checks
  plugcheck validate ./my-plugin --checks structure,docs

  # Run the package's own tests as part of validation
  plugcheck validate ./my-plugin --functional

  # Machine-readable report for CI
  plugcheck validate ./my-plugin --output json --output-file report.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		report, err := core.ExecuteValidation(rootCtx, cfg, runner)
		if err != nil {
			contract.LogFatal("Cannot run validation", err)
		}
		if err := outwriter.NewOutWriter().WriteValidation(report, cfg); err != nil {
			contract.LogFatal("Cannot write validation report", err)
		}
		if report.FailFindingCount() > 0 {
			os.Exit(1)
		}
	},
}
