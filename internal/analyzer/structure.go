package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/plugcheck/plugcheck/internal/ruleset"
	"github.com/plugcheck/plugcheck/schema"
)

var functionDeclRe = regexp.MustCompile(`(?m)\bfunction\b|=>`)

// AnalyzeStructure checks presence of required and recommended files and
// directories, then runs the complexity heuristic on the entry source.
// Required entries that are absent fail the check; recommended entries
// only ever warn.
func AnalyzeStructure(t *Target, rules ruleset.Rules) []schema.Finding {
	var findings []schema.Finding

	for _, entry := range rules.RequiredFiles {
		if entryExists(t.Dir, entry) {
			findings = append(findings, schema.Finding{
				Category: schema.StructureCheck,
				Severity: schema.SeverityPass,
				Message:  "Found required: " + entry,
			})
		} else {
			findings = append(findings, schema.Finding{
				Category: schema.StructureCheck,
				Severity: schema.SeverityFail,
				Message:  "Missing required: " + entry,
			})
		}
	}

	for _, entry := range rules.RecommendedFiles {
		if entryExists(t.Dir, entry) {
			findings = append(findings, schema.Finding{
				Category: schema.StructureCheck,
				Severity: schema.SeverityPass,
				Message:  "Found recommended: " + entry,
			})
		} else {
			findings = append(findings, schema.Finding{
				Category: schema.StructureCheck,
				Severity: schema.SeverityWarn,
				Message:  "Consider adding " + entry,
			})
		}
	}

	findings = append(findings, analyzeComplexity(t, rules.Complexity)...)

	return findings
}

// analyzeComplexity runs a lightweight heuristic over the entry source:
// maximum brace nesting depth and function count against two thresholds.
// Absence of the source degrades to a single informational finding.
func analyzeComplexity(t *Target, rules ruleset.ComplexityRules) []schema.Finding {
	if !t.HasSource() {
		return []schema.Finding{{
			Category: schema.StructureCheck,
			Severity: schema.SeverityInfo,
			Message:  "No entry source found; complexity heuristic skipped",
		}}
	}

	var findings []schema.Finding

	depth := maxNestingDepth(t.Source)
	switch {
	case depth >= rules.HighNestingDepth:
		findings = append(findings, schema.Finding{
			Category: schema.StructureCheck,
			Severity: schema.SeverityWarn,
			Message:  fmt.Sprintf("Very deep nesting in %s (depth %d, threshold %d); refactoring strongly recommended", t.SourcePath, depth, rules.HighNestingDepth),
		})
	case depth >= rules.WarnNestingDepth:
		findings = append(findings, schema.Finding{
			Category: schema.StructureCheck,
			Severity: schema.SeverityWarn,
			Message:  fmt.Sprintf("Deep nesting in %s (depth %d, threshold %d)", t.SourcePath, depth, rules.WarnNestingDepth),
		})
	}

	funcs := len(functionDeclRe.FindAllString(t.Source, -1))
	switch {
	case funcs >= rules.HighFunctions:
		findings = append(findings, schema.Finding{
			Category: schema.StructureCheck,
			Severity: schema.SeverityWarn,
			Message:  fmt.Sprintf("%s declares %d functions (threshold %d); consider splitting the module", t.SourcePath, funcs, rules.HighFunctions),
		})
	case funcs >= rules.WarnFunctions:
		findings = append(findings, schema.Finding{
			Category: schema.StructureCheck,
			Severity: schema.SeverityWarn,
			Message:  fmt.Sprintf("%s declares %d functions (threshold %d)", t.SourcePath, funcs, rules.WarnFunctions),
		})
	}

	if len(findings) == 0 {
		findings = append(findings, schema.Finding{
			Category: schema.StructureCheck,
			Severity: schema.SeverityPass,
			Message:  fmt.Sprintf("Complexity of %s within thresholds", t.SourcePath),
		})
	}

	return findings
}

// maxNestingDepth tracks brace depth line by line. String and comment
// contents are not excluded; this is an accepted imprecision of the
// textual heuristic.
func maxNestingDepth(source string) int {
	depth, maxDepth := 0, 0
	for _, line := range strings.Split(source, "\n") {
		for _, r := range line {
			switch r {
			case '{':
				depth++
				if depth > maxDepth {
					maxDepth = depth
				}
			case '}':
				if depth > 0 {
					depth--
				}
			}
		}
	}
	return maxDepth
}
