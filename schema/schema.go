// Package schema has configs, models and global variables for all parts of plugcheck.
package schema

// Finding is one atomic observation produced by an analyzer rule.
// Findings are append-only within a run and never mutated after creation.
type Finding struct {
	Category CheckName `json:"category"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Detail   string    `json:"detail,omitempty"`
}

// CheckResult holds the per-category aggregate of one check run.
type CheckResult struct {
	Category CheckName `json:"category"`
	Passed   bool      `json:"passed"`
	Findings []Finding `json:"findings"`
	Score    *float64  `json:"score,omitempty"` // optional numeric signal (e.g. coverage %)
}

// ValidationReport holds the outcome of one validation run.
// It is owned exclusively by that run and never shared across runs.
type ValidationReport struct {
	PluginPath   string                    `json:"plugin_path"`
	Checks       map[CheckName]CheckResult `json:"checks"`
	OverallScore float64                   `json:"overall_score"`
	TotalChecks  int                       `json:"total_checks"`
	PassedChecks int                       `json:"passed_checks"`
}

// TestStats holds the numbers scraped from a test runner's output.
type TestStats struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// StepResult records one orchestrator step (lint, format, test, coverage).
// Skipped steps carry a note instead of output.
type StepResult struct {
	Passed  bool   `json:"passed"`
	Skipped bool   `json:"skipped"`
	Note    string `json:"note,omitempty"`
	Output  string `json:"output,omitempty"`
}

// TestStepResult is a StepResult enriched with scraped test stats.
type TestStepResult struct {
	StepResult
	Stats TestStats `json:"stats"`
}

// CoverageStepResult is a StepResult enriched with a coverage percentage.
// Percentage is nil when no usable coverage signal was found.
type CoverageStepResult struct {
	StepResult
	Percentage *float64 `json:"percentage,omitempty"`
}

// AuditResults groups the individual signals of one audit run.
type AuditResults struct {
	Validation ValidationSummary  `json:"validation"`
	Linting    StepResult         `json:"linting"`
	Formatting StepResult         `json:"formatting"`
	Tests      TestStepResult     `json:"tests"`
	Coverage   CoverageStepResult `json:"coverage"`
	Fixes      []StepResult       `json:"fixes,omitempty"`
}

// ValidationSummary condenses a ValidationReport for embedding in an AuditReport.
type ValidationSummary struct {
	OverallScore float64 `json:"overall_score"`
	TotalChecks  int     `json:"total_checks"`
	PassedChecks int     `json:"passed_checks"`
	FailFindings int     `json:"fail_findings"`
}

// AuditReport is the top-level health report produced by the audit orchestrator.
// It composes, but does not own, a validation run.
type AuditReport struct {
	PluginName    string       `json:"plugin_name"`
	PluginPath    string       `json:"plugin_path"`
	Results       AuditResults `json:"results"`
	OverallHealth HealthTier   `json:"overall_health"`
}

// NewCheckResult creates a sealed CheckResult from a finding list.
// Passed is a pure function of the findings: no fail-severity finding means passed.
func NewCheckResult(category CheckName, findings []Finding) CheckResult {
	return CheckResult{
		Category: category,
		Passed:   !HasFailure(findings),
		Findings: findings,
	}
}

// HasFailure reports whether any finding carries fail severity.
func HasFailure(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityFail {
			return true
		}
	}
	return false
}

// FailFindingCount returns the number of fail-severity findings across all checks.
func (r *ValidationReport) FailFindingCount() int {
	count := 0
	for _, c := range r.Checks {
		for _, f := range c.Findings {
			if f.Severity == SeverityFail {
				count++
			}
		}
	}
	return count
}

// Summary condenses the report for embedding in an AuditReport.
func (r *ValidationReport) Summary() ValidationSummary {
	return ValidationSummary{
		OverallScore: r.OverallScore,
		TotalChecks:  r.TotalChecks,
		PassedChecks: r.PassedChecks,
		FailFindings: r.FailFindingCount(),
	}
}
