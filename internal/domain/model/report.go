// Package model contains domain models passed between layers.
package model

import "time"

// RawEvent is one scored activity as submitted by clients. Value and Weight
// are deliberately loose: clients send whatever they have and the scoring
// layer coerces or discards per its fallback rules.
type RawEvent struct {
	Value  any `json:"value"`
	Weight any `json:"weight"`
}

// Account carries the subscription fields that influence scoring.
type Account struct {
	Tier      string // "free", "pro", "vip", or anything else
	CreatedAt string // calendar date, YYYY-MM-DD; may be malformed or empty
}

// Report is a scoring request for one account.
// Fields mirror the JSON schema for POST /scores.
type Report struct {
	ReportID  string     // unique id for idempotency
	AccountID string     // subject account identifier
	Tier      string     // subscription tier
	CreatedAt string     // account creation date, YYYY-MM-DD
	Events    []RawEvent // ordered; accumulation order is significant
	AsOf      time.Time  // reference time; zero means "now"
}

// Account returns the report's account view used by the calculator.
func (r *Report) Account() Account {
	return Account{Tier: r.Tier, CreatedAt: r.CreatedAt}
}

// ReferenceTime resolves the report's scoring instant, defaulting to the
// current UTC time when the client did not pin one.
func (r *Report) ReferenceTime() time.Time {
	if r.AsOf.IsZero() {
		return time.Now().UTC()
	}
	return r.AsOf
}
