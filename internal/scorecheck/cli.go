package scorecheck

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/tally/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "score_check_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the score check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Tally Score Check Tool
======================

A concurrent tool that submits randomized score reports to a running tally
service and verifies the returned ranks and leaderboard against locally
computed scores.

Usage:
  go run cmd/score-check/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -reports int
        Number of score reports to generate and submit (default 5000)
  -top int
        Number of top entries to fetch from the leaderboard (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for run output (default: score_check_TIMESTAMP.log)
  -verbose
        Log every mismatch individually
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/score-check/main.go

  # Run with custom parameters
  go run cmd/score-check/main.go -reports 50000 -workers 16 -url http://localhost:8080

  # Log every mismatch
  go run cmd/score-check/main.go -verbose -reports 10000
`)
}
