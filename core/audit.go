package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/plugcheck/plugcheck/internal/analyzer"
	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/internal/parse"
	"github.com/plugcheck/plugcheck/internal/ruleset"
	"github.com/plugcheck/plugcheck/schema"
)

// auditValidationChecks is the static subset the audit embeds. Tests and
// coverage are excluded here because the orchestrator runs them as its
// own steps and would otherwise count them twice.
var auditValidationChecks = []schema.CheckName{
	schema.StructureCheck,
	schema.DocsCheck,
	schema.PackageJSONCheck,
	schema.SecurityCheck,
	schema.PerformanceCheck,
	schema.JSDocCheck,
	schema.MetalsmithCheck,
}

// ExecuteAudit runs the full health pipeline: static validation, then the
// lint, format, test and coverage steps in fixed order. Individual step
// failures are recorded and never halt the pipeline; only a malformed
// request aborts.
func ExecuteAudit(ctx context.Context, cfg *contract.Config, runner contract.CommandRunner, mgr contract.HistoryManager) (*schema.AuditReport, error) {
	valCfg := cfg.Clone()
	valCfg.Checks = auditValidationChecks

	valReport, err := ExecuteValidation(ctx, valCfg, runner)
	if err != nil {
		return nil, err
	}

	rules, rulesErr := ruleset.Load(cfg.PluginPath)
	if rulesErr != nil {
		contract.LogWarn("ignoring malformed rule overrides", rulesErr)
	}
	target := analyzer.LoadTarget(cfg.PluginPath, rules)

	report := &schema.AuditReport{
		PluginName: pluginName(target, cfg.PluginPath),
		PluginPath: cfg.PluginPath,
	}
	report.Results.Validation = valReport.Summary()

	if cfg.Fix {
		report.Results.Fixes = runFixSteps(ctx, cfg, runner, target)
	}

	report.Results.Linting = runScriptStep(ctx, cfg, runner, target, "lint", "npm run lint")
	report.Results.Formatting = runScriptStep(ctx, cfg, runner, target, "format:check", "npm run format:check")
	report.Results.Tests = runTestStep(ctx, cfg, runner, target)
	report.Results.Coverage = runCoverageStep(ctx, cfg, runner, target, rules)

	report.OverallHealth = ComputeOverallHealth(
		&report.Results.Validation.OverallScore,
		testStepPassRate(report.Results.Tests),
		report.Results.Coverage.Percentage,
	)

	recordAuditRun(mgr, report)
	return report, nil
}

// runScriptStep runs one npm script step, skipping cleanly when the
// package does not declare the script.
func runScriptStep(ctx context.Context, cfg *contract.Config, runner contract.CommandRunner, target *analyzer.Target, script, command string) schema.StepResult {
	if target.Manifest == nil {
		return schema.StepResult{Skipped: true, Note: "no readable package.json"}
	}
	if _, ok := target.Manifest.Script(script); !ok {
		return schema.StepResult{Skipped: true, Note: fmt.Sprintf("no %s script declared", script)}
	}

	out, err := runner.Run(ctx, command, target.Dir, cfg.Timeout)
	if err != nil {
		return schema.StepResult{Note: err.Error()}
	}
	return schema.StepResult{
		Passed: out.ExitCode == 0,
		Output: out.Stdout + out.Stderr,
	}
}

// runTestStep executes the package's test script and scrapes pass/fail stats.
func runTestStep(ctx context.Context, cfg *contract.Config, runner contract.CommandRunner, target *analyzer.Target) schema.TestStepResult {
	step := runScriptStep(ctx, cfg, runner, target, "test", "npm test")
	result := schema.TestStepResult{StepResult: step}
	if step.Skipped || step.Output == "" {
		return result
	}

	result.Stats = parse.ParseTestStats(step.Output)
	if result.Stats.Failed > 0 {
		result.Passed = false
	}
	return result
}

// runCoverageStep derives a coverage percentage from a prior report or,
// failing that, by running the coverage script and scraping its output.
func runCoverageStep(ctx context.Context, cfg *contract.Config, runner contract.CommandRunner, target *analyzer.Target, rules ruleset.Rules) schema.CoverageStepResult {
	pct := readCoverageSummary(target.Dir)
	var step schema.StepResult

	if pct == nil {
		step = runScriptStep(ctx, cfg, runner, target, "coverage", "npm run coverage")
		if step.Skipped {
			return schema.CoverageStepResult{StepResult: step}
		}
		pct = parse.ParseCoveragePercentage(step.Output)
	}

	if pct == nil {
		step.Passed = false
		step.Note = "no usable coverage signal"
		return schema.CoverageStepResult{StepResult: step}
	}

	step.Passed = *pct >= rules.CoverageThreshold
	return schema.CoverageStepResult{StepResult: step, Percentage: pct}
}

// runFixSteps applies the package's own autofix scripts before the
// read-only steps run. Missing scripts skip; fixes never fail the audit.
func runFixSteps(ctx context.Context, cfg *contract.Config, runner contract.CommandRunner, target *analyzer.Target) []schema.StepResult {
	return []schema.StepResult{
		runScriptStep(ctx, cfg, runner, target, "lint:fix", "npm run lint:fix"),
		runScriptStep(ctx, cfg, runner, target, "format", "npm run format"),
	}
}

// testStepPassRate converts the test step into a 0-100 signal, nil when
// the step was skipped or no tests ran.
func testStepPassRate(step schema.TestStepResult) *float64 {
	if step.Skipped || step.Stats.Total == 0 {
		return nil
	}
	rate := 100.0 * float64(step.Stats.Passed) / float64(step.Stats.Total)
	return &rate
}

// pluginName prefers the manifest name, falling back to the directory name.
func pluginName(target *analyzer.Target, path string) string {
	if target.Manifest != nil && target.Manifest.Name != "" {
		return target.Manifest.Name
	}
	return filepath.Base(path)
}

// recordAuditRun persists the run to the configured history store.
// Persistence failures degrade to a warning; the report is already built.
func recordAuditRun(mgr contract.HistoryManager, report *schema.AuditReport) {
	if mgr == nil {
		return
	}
	store := mgr.GetAuditStore()
	if store == nil {
		return
	}

	rec := &schema.AuditRunRecord{
		PluginName:      report.PluginName,
		PluginPath:      report.PluginPath,
		AuditTime:       time.Now().UTC(),
		ValidationScore: report.Results.Validation.OverallScore,
		TestPassRate:    testStepPassRate(report.Results.Tests),
		CoveragePct:     report.Results.Coverage.Percentage,
		OverallHealth:   string(report.OverallHealth),
	}
	if _, err := store.InsertAuditRun(rec); err != nil {
		contract.LogWarn("could not record audit run", err)
	}
}
