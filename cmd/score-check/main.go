package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/tally/internal/scorecheck"
)

// Default configuration constants.
const (
	defaultNumReports = 5000
	defaultTopN       = 50
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numReports = flag.Int("reports", defaultNumReports, "Number of score reports to generate and submit")
		topN       = flag.Int("top", defaultTopN, "Number of top entries to fetch from leaderboard")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "Log file for run output (default: score_check_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Log every mismatch individually")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		scorecheck.ShowHelp()
		return
	}

	if err := scorecheck.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &scorecheck.Config{
		BaseURL:    *baseURL,
		NumReports: *numReports,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	stats, err := scorecheck.Run(ctx, config)
	scorecheck.PrintSummary(stats)
	if err != nil {
		os.Stderr.WriteString("Verification failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
