// Package scorecheck drives an end-to-end verification run against a running
// tally service: it generates randomized score reports, recomputes each
// expected score locally, submits everything over HTTP, and then checks that
// the ranks and leaderboard the service returns agree with the local math.
package scorecheck

import (
	"context"
	"fmt"
	"log"
	"time"
)

// waitForProcessing is how long the runner waits after submission for the
// async pipeline to drain before reading ranks back.
const waitForProcessing = 2 * time.Second

// Run executes a full verification pass and returns aggregate statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}()

	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service not healthy: %w", err)
	}

	reports, err := generateReports(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("report generation failed: %w", err)
	}

	if err := submitReports(ctx, config, reports, stats); err != nil {
		return stats, fmt.Errorf("report submission failed: %w", err)
	}

	log.Printf("waiting %s for the pipeline to drain...", waitForProcessing)
	select {
	case <-ctx.Done():
		return stats, fmt.Errorf("context cancelled while waiting: %w", ctx.Err())
	case <-time.After(waitForProcessing):
	}

	ranks, err := fetchRanks(ctx, config, reports, stats)
	if err != nil {
		return stats, fmt.Errorf("rank retrieval failed: %w", err)
	}

	if err := verifyScores(config, reports, ranks, stats); err != nil {
		return stats, err
	}

	entries, err := fetchLeaderboard(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	if err := verifyLeaderboard(entries, ranks); err != nil {
		return stats, err
	}

	return stats, nil
}

// PrintSummary logs the run statistics.
func PrintSummary(stats *Stats) {
	log.Printf("=== verification summary ===")
	log.Printf("reports generated:  %d", stats.ReportsGenerated)
	log.Printf("reports submitted:  %d", stats.ReportsSubmitted)
	log.Printf("  successful:       %d", stats.ReportsSuccessful)
	log.Printf("  duplicate:        %d", stats.ReportsDuplicate)
	log.Printf("  failed:           %d", stats.ReportsFailed)
	log.Printf("ranks retrieved:    %d", stats.RanksRetrieved)
	log.Printf("score mismatches:   %d", stats.ScoreMismatches)
	log.Printf("leaderboard size:   %d", stats.LeaderboardEntries)
	log.Printf("duration:           %s", stats.Duration.Round(time.Millisecond))
}
