// Package parse extracts structured numeric facts from free-form command
// output. All parsers are pure functions: unparsable input degrades to
// zero values or nil, never to an error.
package parse

import (
	"regexp"
	"strconv"

	"github.com/plugcheck/plugcheck/schema"
)

// Recognized output shapes of common test and coverage runners.
var (
	mochaPassingRe = regexp.MustCompile(`(?m)(\d+)\s+passing`)
	mochaFailingRe = regexp.MustCompile(`(?m)(\d+)\s+failing`)
	jestTestsRe    = regexp.MustCompile(`(?m)Tests:\s+(?:(\d+)\s+failed,\s+)?(\d+)\s+passed,\s+(\d+)\s+total`)

	coverageTableRe   = regexp.MustCompile(`(?m)All files\s*\|\s*([0-9]+(?:\.[0-9]+)?)`)
	coverageSummaryRe = regexp.MustCompile(`(?m)Lines\s*:\s*([0-9]+(?:\.[0-9]+)?)\s*%`)

	qualityScoreRe = regexp.MustCompile(`(?m)Quality score:\s*([0-9]+(?:\.[0-9]+)?)\s*%`)
)

// ParseTestStats extracts pass/fail counts from test runner output.
// It recognizes mocha-style "<n> passing[, <m> failing]" lines and
// jest-style "Tests: ... passed, ... total" summaries. When no pattern
// matches it returns zeros, not an error.
func ParseTestStats(text string) schema.TestStats {
	if m := jestTestsRe.FindStringSubmatch(text); m != nil {
		failed := atoiSafe(m[1])
		passed := atoiSafe(m[2])
		total := atoiSafe(m[3])
		if total == 0 {
			total = passed + failed
		}
		return schema.TestStats{Passed: passed, Failed: failed, Total: total}
	}

	var stats schema.TestStats
	if m := mochaPassingRe.FindStringSubmatch(text); m != nil {
		stats.Passed = atoiSafe(m[1])
	}
	if m := mochaFailingRe.FindStringSubmatch(text); m != nil {
		stats.Failed = atoiSafe(m[1])
	}
	stats.Total = stats.Passed + stats.Failed
	return stats
}

// ParseCoveragePercentage extracts a coverage percentage from runner output.
// It recognizes istanbul table rows ("All files | 85.71 |") and text
// summaries ("Lines: 95% (19/20)"). It returns nil on no match.
func ParseCoveragePercentage(text string) *float64 {
	for _, re := range []*regexp.Regexp{coverageTableRe, coverageSummaryRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &pct
			}
		}
	}
	return nil
}

// ParseQualityScore extracts a "Quality score: <n>%" value from output.
// It returns nil on no match.
func ParseQualityScore(text string) *float64 {
	if m := qualityScoreRe.FindStringSubmatch(text); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &score
		}
	}
	return nil
}

// atoiSafe converts a captured digit group, treating an absent group as zero.
func atoiSafe(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
