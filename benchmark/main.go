// Package main provides a performance benchmarking tool for the burndown CLI.
// It generates synthetic releases of increasing size, imports each one into an
// isolated SQLite data store and times the chart command. Each size runs with the
// cache disabled and then with the SQLite bundle cache, treating the first cached
// run as cold and averaging the rest as warm. Results are written as CSV.
//
// Prerequisites:
// - burndown binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated fixtures and stores (default: a temp dir)
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

	"github.com/huangsam/burndown/schema"
	"gopkg.in/yaml.v3"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Size        string
	Sprints     int
	Stories     int
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkSize describes one synthetic release.
type BenchmarkSize struct {
	Name             string
	Sprints          int
	StoriesPerSprint int
	BacklogStories   int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Sizes       []BenchmarkSize
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "burndown-bench-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Sizes: []BenchmarkSize{
			{Name: "small", Sprints: 6, StoriesPerSprint: 10, BacklogStories: 20},
			{Name: "medium", Sprints: 26, StoriesPerSprint: 40, BacklogStories: 200},
			{Name: "large", Sprints: 104, StoriesPerSprint: 80, BacklogStories: 1000},
			{Name: "huge", Sprints: 260, StoriesPerSprint: 150, BacklogStories: 5000},
		},
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

// checkPrerequisites verifies that the burndown binary and work dir exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("burndown"); err != nil {
		return fmt.Errorf("burndown binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// generateFixture builds a release whose sprints are two weeks apart. Every sprint
// closes most of its stories, adds a few mid-release stories and leaves the rest open.
func generateFixture(size BenchmarkSize, rng *rand.Rand) schema.ReleaseFixture {
	start := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14*(size.Sprints+1))
	initial := float64(size.Sprints * size.StoriesPerSprint * 3)
	releaseID := "bench-" + size.Name
	projectID := "bench-project-" + size.Name

	fixture := schema.ReleaseFixture{
		Release: schema.ReleaseRecord{
			ID:                 releaseID,
			ProjectID:          projectID,
			Name:               size.Name,
			StartDate:          start,
			EndDate:            end,
			InitialStoryPoints: &initial,
		},
	}

	for s := range size.Sprints {
		sprintStart := start.AddDate(0, 0, 14*s)
		effective := sprintStart.AddDate(0, 0, 11)
		sprintID := fmt.Sprintf("%s-sp-%d", releaseID, s+1)
		fixture.Sprints = append(fixture.Sprints, schema.SprintRecord{
			ID:            sprintID,
			ProjectID:     projectID,
			Name:          fmt.Sprintf("Sprint %d", s+1),
			Status:        schema.SprintClosed,
			StartDate:     sprintStart,
			EffectiveDate: &effective,
		})

		for n := range size.StoriesPerSprint {
			created := start.AddDate(0, 0, -rng.IntN(30))
			if rng.IntN(5) == 0 {
				created = sprintStart.AddDate(0, 0, rng.IntN(10))
			}
			story := schema.StoryRecord{
				ID:        fmt.Sprintf("%s-st-%d-%d", releaseID, s+1, n+1),
				ProjectID: projectID,
				SprintID:  sprintID,
				Subject:   fmt.Sprintf("Story %d.%d", s+1, n+1),
				Points:    float64(1 + rng.IntN(8)),
				CreatedOn: created,
			}
			if rng.IntN(10) < 8 {
				closed := sprintStart.AddDate(0, 0, 1+rng.IntN(10))
				story.ClosedOn = &closed
			}
			fixture.Stories = append(fixture.Stories, story)
		}
	}

	for n := range size.BacklogStories {
		fixture.Stories = append(fixture.Stories, schema.StoryRecord{
			ID:        fmt.Sprintf("%s-bl-%d", releaseID, n+1),
			ProjectID: projectID,
			Subject:   fmt.Sprintf("Backlog %d", n+1),
			Points:    float64(1 + rng.IntN(13)),
			CreatedOn: start.AddDate(0, 0, rng.IntN(14*size.Sprints+1)),
		})
	}
	return fixture
}

// writeFixture encodes the fixture as YAML for 'burndown data import'.
func writeFixture(path string, fixture schema.ReleaseFixture) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(file)
	if err := enc.Encode(fixture); err != nil {
		_ = file.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// runBenchmarks executes all benchmark tests across configured release sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	rng := rand.New(rand.NewPCG(42, 7))
	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %s\n", size.Name)

		home := filepath.Join(config.WorkDir, size.Name)
		if err := os.MkdirAll(home, 0o755); err != nil {
			fmt.Printf("  Skipping %s: %v\n", size.Name, err)
			continue
		}

		fixture := generateFixture(size, rng)
		fixturePath := filepath.Join(home, "release.yaml")
		if err := writeFixture(fixturePath, fixture); err != nil {
			fmt.Printf("  Skipping %s: failed to write fixture: %v\n", size.Name, err)
			continue
		}
		if output, err := runCommand(home, config.Timeout, "data", "import", fixturePath); err != nil {
			fmt.Printf("  Skipping %s: import failed: %v\nOutput: %s\n", size.Name, err, string(output))
			continue
		}

		result := runBenchmarkSuite(config, home, fixture.Release.ID)
		result.Size = size.Name
		result.Sprints = len(fixture.Sprints)
		result.Stories = len(fixture.Stories)
		results = append(results, result)
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for one release
func runBenchmarkSuite(config BenchmarkConfig, home, releaseID string) BenchmarkResult {
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, home, releaseID, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	if output, err := runCommand(home, config.Timeout, "cache", "clear"); err != nil {
		fmt.Printf("  Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes the chart command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, home, releaseID, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		output, err := runCommand(home, config.Timeout, "chart", releaseID, "--cache-backend", cacheBackend, "--color", "no")
		if err == nil && isSuccess(output) {
			times = append(times, time.Since(start).Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// runCommand runs burndown with HOME pointed at the benchmark dir so the default
// SQLite stores of each size stay separate.
func runCommand(home string, timeout time.Duration, args ...string) ([]byte, error) {
	cmd := exec.Command("burndown", args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home)

	done := make(chan struct{})
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		close(done)
	}()

	select {
	case <-done:
		return output, cmdErr
	case <-time.After(timeout):
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-done
		return output, fmt.Errorf("timed out after %v", timeout)
	}
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Burndown computed in") ||
		strings.Contains(outputStr, "Burndown cached in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("burndown_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"size", "sprints", "stories", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Size,
			fmt.Sprint(result.Sprints),
			fmt.Sprint(result.Stories),
			result.NoCacheTime,
			result.ColdTime,
			result.WarmTime,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	fmt.Printf("Chart:\n")
	for _, result := range results {
		fmt.Printf("  %-8s (%4d sprints, %6d stories): No-cache: %s, Cold: %s, Warm: %s\n",
			result.Size, result.Sprints, result.Stories, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
