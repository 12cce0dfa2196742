package outwriter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/plugcheck/plugcheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAuditReport() *schema.AuditReport {
	pct := 85.5
	return &schema.AuditReport{
		PluginName: "metalsmith-sample",
		PluginPath: "/tmp/metalsmith-sample",
		Results: schema.AuditResults{
			Validation: schema.ValidationSummary{
				OverallScore: 100.0,
				TotalChecks:  7,
				PassedChecks: 7,
				FailFindings: 0,
			},
			Linting:    schema.StepResult{Passed: true},
			Formatting: schema.StepResult{Skipped: true, Note: "no format:check script declared"},
			Tests: schema.TestStepResult{
				StepResult: schema.StepResult{Passed: true},
				Stats:      schema.TestStats{Passed: 12, Failed: 0, Total: 12},
			},
			Coverage: schema.CoverageStepResult{
				StepResult: schema.StepResult{Passed: true},
				Percentage: &pct,
			},
		},
		OverallHealth: schema.GoodHealth,
	}
}

func TestWriteAuditTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeAuditTable(&buf, sampleAuditReport(), plainConfig(schema.TextOut))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Audit report for metalsmith-sample")
	assert.Contains(t, out, "12 passed, 0 failed")
	assert.Contains(t, out, "85.5% lines")
	assert.Contains(t, out, "SKIP")
	assert.Contains(t, out, "Overall Health: GOOD")
}

func TestWriteAuditMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAuditMarkdown(&buf, sampleAuditReport(), plainConfig(schema.MarkdownOut)))

	out := buf.String()
	assert.Contains(t, out, "# Audit Report: metalsmith-sample")
	assert.Contains(t, out, "| Step | Status | Details |")
	assert.Contains(t, out, "| linting | PASS |")
	assert.Contains(t, out, "| formatting | SKIP | no format:check script declared |")
	assert.Contains(t, out, "**Overall Health:** GOOD")
}

func TestWriteAuditJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, sampleAuditReport()))

	var decoded schema.AuditReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *sampleAuditReport(), decoded)
}

func TestAuditRowsPipelineOrder(t *testing.T) {
	report := sampleAuditReport()
	report.Results.Fixes = []schema.StepResult{
		{Passed: true},
		{Skipped: true, Note: "no format script declared"},
	}

	rows := auditRows(report, plainConfig(schema.TextOut))

	var names []string
	for _, row := range rows {
		names = append(names, row.name)
	}
	assert.Equal(t, []string{
		"validation", "linting", "formatting", "tests", "coverage", "fix 1", "fix 2",
	}, names)
}

func TestStepStatusText(t *testing.T) {
	assert.Equal(t, "SKIP", stepStatusText(true, true))
	assert.Equal(t, "PASS", stepStatusText(true, false))
	assert.Equal(t, "FAIL", stepStatusText(false, false))
}

func TestAuditRowsFailedValidation(t *testing.T) {
	report := sampleAuditReport()
	report.Results.Validation.FailFindings = 3

	rows := auditRows(report, plainConfig(schema.TextOut))
	assert.Equal(t, "FAIL", rows[0].status)
}
