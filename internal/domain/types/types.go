// Package types contains common types used across the application
package types

// Entry represents a scoreboard entry
type Entry struct {
	Rank      int     `json:"rank"`
	AccountID string  `json:"account_id"`
	Score     float64 `json:"score"`
}
