// Package main times the svnplot reports against converted stores.
// For every store it runs each aggregate report several times, treating the
// first successful run as cold and averaging the rest as warm, and writes the
// timings to a CSV file.
//
// Prerequisites:
// - svnplot binary installed and available in PATH
// - SQLite stores produced by "svnplot convert" in the given directory
//
// Usage: go run benchmark/main.go [store-dir]
//
//	store-dir: Directory containing *.db stores
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of one report on one store.
type BenchmarkResult struct {
	Store    string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout    time.Duration
	Runs       int
	Stores     []string
	Aggregates []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [store-dir]\n", os.Args[0])
		os.Exit(1)
	}

	stores, err := filepath.Glob(filepath.Join(os.Args[1], "*.db"))
	if err != nil {
		fmt.Printf("Invalid store directory: %v\n", err)
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Timeout:    5 * time.Minute,
		Runs:       4,
		Stores:     stores,
		Aggregates: []string{"weekday", "hour", "loc", "loc-by-author", "files", "avg-file-size", "authors", "commit-scatter", "dirs"},
	}

	if err := checkPrerequisites(config); err != nil {
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

// checkPrerequisites verifies that the svnplot binary and at least one store exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("svnplot"); err != nil {
		return errors.New("svnplot binary not found in PATH")
	}
	if len(config.Stores) == 0 {
		return errors.New("no *.db stores found")
	}
	return nil
}

// runBenchmarks times every aggregate report and the chart rendering on every store
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d stores, %v timeout, %d runs\n", len(config.Stores), config.Timeout, config.Runs)

	for _, store := range config.Stores {
		name := strings.TrimSuffix(filepath.Base(store), ".db")
		fmt.Printf("Benchmarking %s\n", name)

		for _, agg := range config.Aggregates {
			results = append(results, runBenchmarkSuite(config, name, "report "+agg,
				[]string{"report", agg, "--output", "json", store}))
		}

		chartDir, err := os.MkdirTemp("", "svnplot-bench-*")
		if err != nil {
			fmt.Printf("  Skipping charts: %v\n", err)
			continue
		}
		results = append(results, runBenchmarkSuite(config, name, "charts", []string{"charts", store, chartDir}))
		_ = os.RemoveAll(chartDir)
	}

	return results
}

// runBenchmarkSuite runs one command several times and summarizes the timings
func runBenchmarkSuite(config BenchmarkConfig, store, command string, args []string) BenchmarkResult {
	fmt.Printf("  %s\n", command)

	var times []float64
	for range config.Runs {
		if d, ok := runOnce(config.Timeout, args); ok {
			times = append(times, d.Seconds())
		}
	}

	result := BenchmarkResult{Store: store, Command: command, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if warm := times[min(1, len(times)):]; len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}
	fmt.Printf("    Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

// runOnce executes svnplot once and reports whether it finished in time
func runOnce(timeout time.Duration, args []string) (time.Duration, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := exec.CommandContext(ctx, "svnplot", args...).Run(); err != nil {
		return 0, false
	}
	return time.Since(start), true
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/svnplot_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"store", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Store, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-12s %-22s Cold: %s, Warm: %s\n", result.Store, result.Command, result.ColdTime, result.WarmTime)
	}
}
