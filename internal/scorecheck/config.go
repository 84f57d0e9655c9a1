package scorecheck

import "time"

// Config holds configuration for a verification run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumReports int           // Number of reports to generate
	TopN       int           // Number of top entries to fetch
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Report mirrors the JSON schema for POST /scores.
type Report struct {
	ReportID  string     `json:"report_id"`
	AccountID string     `json:"account_id"`
	Tier      string     `json:"tier"`
	CreatedAt string     `json:"created_at"`
	AsOf      string     `json:"as_of"`
	Events    []RawEvent `json:"events"`

	// Expected is the locally recomputed score; not submitted.
	Expected float64 `json:"-"`
}

// RawEvent is one loosely typed event in a report.
type RawEvent struct {
	Value  any `json:"value"`
	Weight any `json:"weight"`
}

// Entry represents a scoreboard entry.
type Entry struct {
	Rank      int     `json:"rank"`
	AccountID string  `json:"account_id"`
	Score     float64 `json:"score"`
}

// AckResponse represents the response from report submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	ReportsGenerated   int
	ReportsSubmitted   int
	ReportsSuccessful  int
	ReportsDuplicate   int
	ReportsFailed      int
	RanksRetrieved     int
	ScoreMismatches    int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
