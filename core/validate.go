// Package core runs the plugin validation and audit pipelines.
package core

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/plugcheck/plugcheck/internal/analyzer"
	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/internal/ruleset"
	"github.com/plugcheck/plugcheck/schema"
)

// namedResult pairs a finished check with its category for aggregation.
type namedResult struct {
	name   schema.CheckName
	result schema.CheckResult
}

// ExecuteValidation runs the requested checks against one plugin package
// and aggregates them into a report. Request problems (unknown check,
// missing path) surface as RequestError before any check runs; everything
// downstream of that point is reported in-band as findings.
func ExecuteValidation(ctx context.Context, cfg *contract.Config, runner contract.CommandRunner) (*schema.ValidationReport, error) {
	// Validate the request fully before touching the target tree.
	for _, name := range cfg.Checks {
		if _, ok := checkRegistry[name]; !ok {
			return nil, contract.NewRequestError("unknown check name %q", name)
		}
	}
	info, err := os.Stat(cfg.PluginPath)
	if err != nil {
		return nil, contract.NewRequestError("plugin path %q is not accessible: %v", cfg.PluginPath, err)
	}
	if !info.IsDir() {
		return nil, contract.NewRequestError("plugin path %q is not a directory", cfg.PluginPath)
	}

	rules, err := ruleset.Load(cfg.PluginPath)
	if err != nil {
		// A broken override file falls back to defaults; the run proceeds.
		contract.LogWarn("ignoring malformed rule overrides", err)
	}

	env := &checkEnv{
		cfg:    cfg,
		rules:  rules,
		target: analyzer.LoadTarget(cfg.PluginPath, rules),
		runner: runner,
	}

	results := runChecks(ctx, cfg, env)

	report := &schema.ValidationReport{
		PluginPath:  cfg.PluginPath,
		Checks:      make(map[schema.CheckName]schema.CheckResult, len(results)),
		TotalChecks: len(results),
	}
	for _, r := range results {
		report.Checks[r.name] = r.result
		if r.result.Passed {
			report.PassedChecks++
		}
	}
	report.OverallScore = ComputeOverallScore(report.PassedChecks, report.TotalChecks)
	return report, nil
}

// runChecks fans the requested checks out over a bounded worker pool.
// Every check produces exactly one result; a panicking check is converted
// into a fail finding so one bad analyzer cannot sink the run.
func runChecks(ctx context.Context, cfg *contract.Config, env *checkEnv) []namedResult {
	checkCh := make(chan schema.CheckName, len(cfg.Checks))
	resultCh := make(chan namedResult, len(cfg.Checks))
	var wg sync.WaitGroup

	// At least one worker regardless of the configured count, so direct
	// callers bypassing config validation still get a full report.
	workers := max(1, min(cfg.Workers, len(cfg.Checks)))
	for range workers {
		wg.Go(func() {
			for name := range checkCh {
				resultCh <- runOneCheck(ctx, name, env)
			}
		})
	}

	for _, name := range cfg.Checks {
		checkCh <- name
	}
	close(checkCh)

	wg.Wait()
	close(resultCh)

	results := make([]namedResult, 0, len(cfg.Checks))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// runOneCheck executes one category with panic isolation.
func runOneCheck(ctx context.Context, name schema.CheckName, env *checkEnv) (out namedResult) {
	out.name = name
	defer func() {
		if r := recover(); r != nil {
			out.result = schema.NewCheckResult(name, []schema.Finding{{
				Category: name,
				Severity: schema.SeverityFail,
				Message:  fmt.Sprintf("Check crashed: %v", r),
			}})
		}
	}()

	findings, score := checkRegistry[name](ctx, env)
	out.result = schema.NewCheckResult(name, findings)
	out.result.Score = score
	return out
}
