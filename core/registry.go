package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plugcheck/plugcheck/internal/analyzer"
	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/internal/parse"
	"github.com/plugcheck/plugcheck/internal/ruleset"
	"github.com/plugcheck/plugcheck/schema"
)

// checkEnv bundles the per-run state every check runner consumes.
// It is assembled once per validation run and read-only afterward.
type checkEnv struct {
	cfg    *contract.Config
	rules  ruleset.Rules
	target *analyzer.Target
	runner contract.CommandRunner
}

// checkFn evaluates one category. The optional score is an extra numeric
// signal (e.g. coverage percentage) carried into the CheckResult.
type checkFn func(ctx context.Context, env *checkEnv) ([]schema.Finding, *float64)

// static wraps an analyzer that needs no command execution.
func static(fn func(env *checkEnv) []schema.Finding) checkFn {
	return func(_ context.Context, env *checkEnv) ([]schema.Finding, *float64) {
		return fn(env), nil
	}
}

// checkRegistry is the static mapping from check name to analyzer
// invocation. Adding a category means adding an entry here; the
// dispatcher never special-cases categories.
var checkRegistry = map[schema.CheckName]checkFn{
	schema.StructureCheck: static(func(env *checkEnv) []schema.Finding {
		return analyzer.AnalyzeStructure(env.target, env.rules)
	}),
	schema.DocsCheck: static(func(env *checkEnv) []schema.Finding {
		return analyzer.AnalyzeDocs(env.target, env.rules.DocSections)
	}),
	schema.PackageJSONCheck: static(func(env *checkEnv) []schema.Finding {
		return analyzer.AnalyzePackageManifest(env.target)
	}),
	schema.SecurityCheck: static(func(env *checkEnv) []schema.Finding {
		return analyzer.AnalyzeSecurity(env.target)
	}),
	schema.PerformanceCheck: static(func(env *checkEnv) []schema.Finding {
		return analyzer.AnalyzePerformance(env.target)
	}),
	schema.JSDocCheck: static(func(env *checkEnv) []schema.Finding {
		return analyzer.AnalyzeJSDoc(env.target)
	}),
	schema.MetalsmithCheck: static(func(env *checkEnv) []schema.Finding {
		return analyzer.AnalyzeMetalsmith(env.target)
	}),
	schema.TestsCheck:    runTestsCheck,
	schema.CoverageCheck: runCoverageCheck,
}

// runTestsCheck verifies test scaffolding structurally and, in functional
// mode, executes the package's own test script.
func runTestsCheck(ctx context.Context, env *checkEnv) ([]schema.Finding, *float64) {
	var findings []schema.Finding

	if dirExists(filepath.Join(env.target.Dir, "test")) || dirExists(filepath.Join(env.target.Dir, "tests")) {
		findings = append(findings, schema.Finding{
			Category: schema.TestsCheck,
			Severity: schema.SeverityPass,
			Message:  "Test directory present",
		})
	} else {
		findings = append(findings, schema.Finding{
			Category: schema.TestsCheck,
			Severity: schema.SeverityFail,
			Message:  "Missing test directory",
		})
	}

	if env.target.Manifest == nil {
		findings = append(findings, schema.Finding{
			Category: schema.TestsCheck,
			Severity: schema.SeverityFail,
			Message:  "Cannot inspect test script without a readable package.json",
		})
		return findings, nil
	}

	script, hasScript := env.target.Manifest.Script("test")
	if !hasScript {
		findings = append(findings, schema.Finding{
			Category: schema.TestsCheck,
			Severity: schema.SeverityFail,
			Message:  "No test script declared in package.json",
		})
		return findings, nil
	}
	findings = append(findings, schema.Finding{
		Category: schema.TestsCheck,
		Severity: schema.SeverityPass,
		Message:  "Test script declared",
		Detail:   script,
	})

	if !env.cfg.Functional {
		return findings, nil
	}

	out, err := env.runner.Run(ctx, "npm test", env.target.Dir, env.cfg.Timeout)
	if err != nil {
		findings = append(findings, schema.Finding{
			Category: schema.TestsCheck,
			Severity: schema.SeverityFail,
			Message:  "Test command could not complete",
			Detail:   err.Error(),
		})
		return findings, nil
	}

	stats := parse.ParseTestStats(out.Stdout + "\n" + out.Stderr)
	passRate := testPassRate(stats)
	switch {
	case out.ExitCode != 0:
		findings = append(findings, schema.Finding{
			Category: schema.TestsCheck,
			Severity: schema.SeverityFail,
			Message:  fmt.Sprintf("Test command exited with code %d", out.ExitCode),
			Detail:   fmt.Sprintf("%d passed, %d failed", stats.Passed, stats.Failed),
		})
	case stats.Failed > 0:
		findings = append(findings, schema.Finding{
			Category: schema.TestsCheck,
			Severity: schema.SeverityFail,
			Message:  fmt.Sprintf("%d of %d tests failed", stats.Failed, stats.Total),
		})
	default:
		findings = append(findings, schema.Finding{
			Category: schema.TestsCheck,
			Severity: schema.SeverityPass,
			Message:  fmt.Sprintf("All %d tests passed", stats.Passed),
		})
	}
	return findings, passRate
}

// runCoverageCheck reads the prior coverage summary report and, when
// functional mode is on and no report exists, runs the coverage script
// and scrapes its output. A package with no coverage signal at all still
// counts toward the total; it just fails this category.
func runCoverageCheck(ctx context.Context, env *checkEnv) ([]schema.Finding, *float64) {
	pct := readCoverageSummary(env.target.Dir)

	if pct == nil && env.cfg.Functional && env.target.Manifest != nil {
		if _, ok := env.target.Manifest.Script("coverage"); ok {
			out, err := env.runner.Run(ctx, "npm run coverage", env.target.Dir, env.cfg.Timeout)
			if err == nil {
				pct = parse.ParseCoveragePercentage(out.Stdout + "\n" + out.Stderr)
			}
		}
	}

	if pct == nil {
		return []schema.Finding{{
			Category: schema.CoverageCheck,
			Severity: schema.SeverityFail,
			Message:  "No coverage report found",
			Detail:   "Expected coverage/coverage-summary.json or a coverage script",
		}}, nil
	}

	threshold := env.rules.CoverageThreshold
	if *pct < threshold {
		return []schema.Finding{{
			Category: schema.CoverageCheck,
			Severity: schema.SeverityFail,
			Message:  fmt.Sprintf("Coverage %.1f%% below threshold %.0f%%", *pct, threshold),
		}}, pct
	}
	return []schema.Finding{{
		Category: schema.CoverageCheck,
		Severity: schema.SeverityPass,
		Message:  fmt.Sprintf("Coverage %.1f%% meets threshold %.0f%%", *pct, threshold),
	}}, pct
}

// readCoverageSummary extracts total line coverage from a prior
// istanbul-style coverage-summary.json. Any read or shape problem
// degrades to nil, never to an error.
func readCoverageSummary(dir string) *float64 {
	data, err := os.ReadFile(filepath.Join(dir, "coverage", "coverage-summary.json"))
	if err != nil {
		return nil
	}
	var summary struct {
		Total struct {
			Lines struct {
				Pct *float64 `json:"pct"`
			} `json:"lines"`
		} `json:"total"`
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}
	return summary.Total.Lines.Pct
}

// testPassRate converts stats into a 0-100 rate, nil when no tests ran.
func testPassRate(stats schema.TestStats) *float64 {
	if stats.Total == 0 {
		return nil
	}
	rate := 100.0 * float64(stats.Passed) / float64(stats.Total)
	return &rate
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
