// Package repository defines the scoreboard store interface and errors.
package repository

import "context"

// Entry represents a scoreboard row.
type Entry struct {
	Rank      int
	AccountID string
	Score     float64
	ReportID  string
}

// Store provides read/write access to the scoreboard state.
type Store interface {
	// SetScore records the latest computed score for an account.
	// Returns true if the stored score changed.
	SetScore(ctx context.Context, accountID string, score float64, reportID string) (bool, error)

	// Rank returns the current rank and score for an account.
	// Returns ErrNotFound if the account is unknown.
	Rank(ctx context.Context, accountID string) (Entry, error)

	// TopN returns the top-N entries ordered by score desc, account id asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of accounts tracked on the scoreboard.
	Count(ctx context.Context) int
}
