// Package main provides a performance benchmarking tool for the coach CLI.
// It generates synthetic training histories of increasing length, imports each
// one into a fresh SQLite store and times the commands that read it. The first
// signature run is cold and the following runs are served from the store.
//
// Prerequisites:
// - coach binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for fixtures and stores (defaults to a temp dir)
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one history size.
type BenchmarkResult struct {
	History       string
	Sessions      int
	IngestTime    string
	ColdSignature string
	WarmSignature string
	RecommendTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir   string
	Timeout   time.Duration
	WarmRuns  int
	Years     []int
	RunsPerWk int
	Now       time.Time
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "coach-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:   workDir,
		Timeout:   2 * time.Minute,
		WarmRuns:  4,
		Years:     []int{1, 5, 10},
		RunsPerWk: 4,
		Now:       time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC),
	}

	if _, err := exec.LookPath("coach"); err != nil {
		fmt.Printf("Prerequisites check failed: coach binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes the suite for every configured history length.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %v years of history, %v timeout, %d warm runs\n",
		config.Years, config.Timeout, config.WarmRuns)

	for _, years := range config.Years {
		name := fmt.Sprintf("%dy", years)
		fixture := filepath.Join(config.WorkDir, name+".csv")
		sessions, err := writeHistory(fixture, years, config.RunsPerWk, config.Now)
		if err != nil {
			fmt.Printf("Failed to write %s history: %v\n", name, err)
			continue
		}
		fmt.Printf("Benchmarking %s (%d sessions)\n", name, sessions)

		env := []string{
			"COACH_STORE_BACKEND=sqlite",
			"COACH_STORE_DB_CONNECT=" + filepath.Join(config.WorkDir, name+".db"),
			"COACH_NOW=" + config.Now.Format(time.RFC3339),
		}
		result := BenchmarkResult{History: name, Sessions: sessions}
		result.IngestTime = formatTimes(runCommand(config, env, 1, "ingest", fixture))
		result.ColdSignature = formatTimes(runCommand(config, env, 1, "signature", "--refresh"))
		result.WarmSignature = formatTimes(runCommand(config, env, config.WarmRuns, "signature"))
		result.RecommendTime = formatTimes(runCommand(config, env, config.WarmRuns, "recommend"))

		fmt.Printf("  Ingest: %s, Cold signature: %s, Warm signature: %s, Recommend: %s\n",
			result.IngestTime, result.ColdSignature, result.WarmSignature, result.RecommendTime)
		results = append(results, result)
	}

	return results
}

// writeHistory writes a CSV export with runsPerWeek runs for every week of
// the given number of years before now and returns the number of sessions.
func writeHistory(path string, years, runsPerWeek int, now time.Time) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := strings.Split("start_time,distance_km,duration_min,avg_hr,z1_min,z2_min,z3_min,z4_min,z5_min,elevation_gain_m,active_energy_kcal", ",")
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	rng := rand.New(rand.NewPCG(uint64(years), uint64(runsPerWeek)))
	weeks := years * 52
	start := now.AddDate(0, 0, -7*weeks)
	count := 0
	for w := range weeks {
		for r := range runsPerWeek {
			day := start.AddDate(0, 0, 7*w+2*r).Add(7 * time.Hour)
			duration := 35 + rng.Float64()*55
			high := duration * rng.Float64() * 0.3
			rec := []string{
				day.Format("2006-01-02 15:04:05"),
				fmt.Sprintf("%.2f", duration/6.2),
				fmt.Sprintf("%.1f", duration),
				fmt.Sprintf("%.0f", 135+rng.Float64()*30),
				"0",
				fmt.Sprintf("%.1f", duration-high),
				"0",
				fmt.Sprintf("%.1f", high),
				"0",
				fmt.Sprintf("%.0f", rng.Float64()*200),
				fmt.Sprintf("%.0f", duration*10),
			}
			if err := writer.Write(rec); err != nil {
				return count, fmt.Errorf("failed to write CSV record: %w", err)
			}
			count++
		}
	}
	return count, nil
}

// runCommand executes a coach command numRuns times and returns the successful durations.
func runCommand(config BenchmarkConfig, env []string, numRuns int, args ...string) []float64 {
	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("coach", args...)
		cmd.Env = append(os.Environ(), env...)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}
	return times
}

// formatTimes renders the average duration, or TIMEOUT when nothing succeeded.
func formatTimes(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/coach_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"history", "sessions", "ingest", "signature_cold", "signature_warm_avg", "recommend_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		if err := writer.Write([]string{r.History, fmt.Sprint(r.Sessions), r.IngestTime, r.ColdSignature, r.WarmSignature, r.RecommendTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-4s (%6d sessions): Ingest: %s, Signature cold: %s, warm: %s, Recommend: %s\n",
			r.History, r.Sessions, r.IngestTime, r.ColdSignature, r.WarmSignature, r.RecommendTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
