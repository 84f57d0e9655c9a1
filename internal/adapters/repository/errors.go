package repository

import "errors"

// Sentinel kinds for scoreboard errors.
var (
	ErrNotFound     = errors.New("account not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
