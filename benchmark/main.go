// Package main provides a performance benchmarking tool for the plugcheck CLI.
// It measures execution times of the validate and audit commands across a set
// of plugin packages, running each test multiple times and averaging the runs,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - plugcheck binary installed and available in PATH
// - Plugin packages checked out under the specified base directory
//
// Usage: go run benchmark/main.go [plugin-base-dir]
//
//	plugin-base-dir: Directory containing plugin packages to benchmark
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (static average and functional average).
type BenchmarkResult struct {
	Plugin         string
	Command        string
	StaticTime     string
	FunctionalTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	PluginBase string
	Timeout    time.Duration
	Runs       int
	Plugins    []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [plugin-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	pluginBase := os.Args[1]

	config := BenchmarkConfig{
		PluginBase: pluginBase,
		Timeout:    5 * time.Minute,
		Runs:       3,
	}

	if err := discoverPlugins(&config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// discoverPlugins verifies the plugcheck binary and collects plugin packages
// under the base directory (any subdirectory with a package.json).
func discoverPlugins(config *BenchmarkConfig) error {
	// Check if plugcheck is available
	if _, err := exec.LookPath("plugcheck"); err != nil {
		return fmt.Errorf("plugcheck binary not found in PATH")
	}

	entries, err := os.ReadDir(config.PluginBase)
	if err != nil {
		return fmt.Errorf("cannot read plugin base directory %s: %w", config.PluginBase, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest := filepath.Join(config.PluginBase, entry.Name(), "package.json")
		if _, err := os.Stat(manifest); err == nil {
			config.Plugins = append(config.Plugins, entry.Name())
		}
	}
	if len(config.Plugins) == 0 {
		return fmt.Errorf("no plugin packages found under %s", config.PluginBase)
	}
	return nil
}

// runBenchmarks executes all benchmark tests across discovered plugins
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d plugins, %v timeout, %d runs per phase\n",
		len(config.Plugins), config.Timeout, config.Runs)

	for _, plugin := range config.Plugins {
		fmt.Printf("Benchmarking %s\n", plugin)

		pluginPath := filepath.Join(config.PluginBase, plugin)

		results = append(results, runBenchmarkSuite(config, plugin, pluginPath, "validate"))
		results = append(results, runBenchmarkSuite(config, plugin, pluginPath, "audit"))
	}

	return results
}

// runBenchmarkSuite runs both static and functional benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, plugin, pluginPath, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, plugin)

	// Helper to run a benchmark phase
	runPhase := func(functional bool, phaseName string) string {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, config.Runs)
		times := runBenchmark(config, pluginPath, command, functional)
		if len(times) == 0 {
			return "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	// Phase 1: static checks only
	staticAvg := runPhase(false, "Static")

	// Phase 2: run the package's own test tooling too (validate only)
	functionalAvg := "N/A"
	if command == "validate" {
		functionalAvg = runPhase(true, "Functional")
	}

	fmt.Printf("  Static average: %s, Functional average: %s\n", staticAvg, functionalAvg)

	return BenchmarkResult{
		Plugin:         plugin,
		Command:        command,
		StaticTime:     staticAvg,
		FunctionalTime: functionalAvg,
	}
}

// runBenchmark executes a plugcheck command multiple times and returns the wall times
func runBenchmark(config BenchmarkConfig, pluginPath, command string, functional bool) []float64 {
	args := []string{command, pluginPath, "--history-backend", "none"}
	if functional {
		args = append(args, "--functional")
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("plugcheck", args...)

		done := make(chan bool)
		var cmdErr error

		go func() {
			_, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			// Failing findings exit nonzero; the run still counts as long
			// as the process itself completed.
			if cmdErr == nil || isExitError(cmdErr) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	return times
}

// isExitError reports whether the error is a normal nonzero exit.
func isExitError(err error) bool {
	_, ok := err.(*exec.ExitError)
	return ok
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/plugcheck_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"plugin", "cmd", "static_avg", "functional_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Plugin, result.Command, result.StaticTime, result.FunctionalTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "validate", "Validation:")
	printCommandSummary(results, "audit", "Audit:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-24s: Static: %s, Functional: %s\n", result.Plugin, result.StaticTime, result.FunctionalTime)
		}
	}
}
