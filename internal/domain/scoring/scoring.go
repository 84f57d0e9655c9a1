// Package scoring computes account scores from raw event reports.
//
// The arithmetic here is a pinned contract: downstream consumers compare
// against recorded score vectors, so the quirks (the subtracted loyalty
// adjustment, the two rounding passes) must not be "fixed".
package scoring

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/okian/tally/internal/domain/model"
)

// Default scoring configuration constants.
const (
	dateLayout        = "2006-01-02"
	daysPerYear       = 365
	defaultBonusRate  = 0.005
	defaultYearCap    = 6
	defaultMultiplier = 1.0
	scoreDecimals     = 2
)

// defaultTierMultipliers is the factory tier table.
func defaultTierMultipliers() map[string]float64 {
	return map[string]float64{
		"vip": 1.2,
		"pro": 1.1,
	}
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithTierMultipliersFromConfig sets tier multipliers from a configuration map.
func WithTierMultipliersFromConfig(multipliers map[string]float64, defaultMult float64) Option {
	return func(c *Calculator) {
		// Copy the map to avoid external modifications
		c.tierMultipliers = make(map[string]float64)
		for tier, m := range multipliers {
			if m > 0 {
				c.tierMultipliers[tier] = m
			}
		}
		if defaultMult > 0 {
			c.defaultMult = defaultMult
		}
	}
}

// WithLoyaltyBonus sets the per-year adjustment rate and the year cap.
func WithLoyaltyBonus(rate float64, yearCap int) Option {
	return func(c *Calculator) {
		if rate >= 0 {
			c.bonusRate = rate
		}
		if yearCap >= 0 {
			c.yearCap = yearCap
		}
	}
}

// Input abstracts the report fields needed for scoring.
type Input struct {
	AccountID string
	Events    []model.RawEvent
	Account   model.Account
	AsOf      time.Time
}

// Result contains the computed score for an account.
type Result struct {
	AccountID string
	Score     float64
}

// Scorer computes a score from an input. Implementations must absorb
// malformed event data rather than surface it; a returned error means the
// computation itself could not run (e.g. cancelled context).
type Scorer interface {
	// Score computes a score, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (Result, error)
}

// Calculator implements Scorer as a pure in-process computation.
type Calculator struct {
	tierMultipliers map[string]float64
	defaultMult     float64
	bonusRate       float64
	yearCap         int
}

// NewCalculator creates a new calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		tierMultipliers: defaultTierMultipliers(),
		defaultMult:     defaultMultiplier,
		bonusRate:       defaultBonusRate,
		yearCap:         defaultYearCap,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Score computes the score for the given input.
func (c *Calculator) Score(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}

	now := in.AsOf
	if now.IsZero() {
		now = time.Now().UTC()
	}

	return Result{
		AccountID: in.AccountID,
		Score:     c.Calculate(in.Events, in.Account, now),
	}, nil
}

// Calculate maps an ordered event list and an account to a score.
// Deterministic for identical inputs and now; never panics or errors for
// malformed values, weights, or creation dates.
func (c *Calculator) Calculate(events []model.RawEvent, acct model.Account, now time.Time) float64 {
	total := 0.0

	for _, e := range events {
		v := lossyFloat(e.Value)

		w := intOrDefault(e.Weight, 1)
		if w < 0 {
			w = 0
		}

		// Accumulation order is part of the contract: it fixes the
		// floating-point rounding error bit-for-bit.
		total = total + v*float64(w)
	}

	// Loyalty adjustment. An unparseable creation date means no adjustment.
	bonus := 0.0
	if created, err := time.Parse(dateLayout, acct.CreatedAt); err == nil {
		years := wholeDays(now.Sub(created)) / daysPerYear
		if years > c.yearCap {
			years = c.yearCap
		}
		if years < 0 {
			years = 0
		}
		bonus = float64(years) * c.bonusRate
	}

	// The adjustment is subtracted, not multiplied in. Pinned behavior.
	total = total - total*bonus

	mult := c.defaultMult
	if m, ok := c.tierMultipliers[acct.Tier]; ok {
		mult = m
	}
	total = total * mult

	// Two rounding passes. The second is almost always a no-op but is
	// observable for values that re-round after the first pass, and the
	// recorded vectors were produced with both.
	total = roundDecimals(total, scoreDecimals)
	return roundDecimals(total, scoreDecimals)
}

// wholeDays converts a duration to whole days, rounding toward negative
// infinity so that any future-dated span shorter than a day counts as -1.
func wholeDays(d time.Duration) int {
	const day = 24 * time.Hour
	days := d / day
	if d%day < 0 {
		days--
	}
	return int(days)
}

// roundDecimals rounds half-to-even at the given number of decimal places.
// Going through the decimal string form gives correctly-rounded results for
// every representable float64, which math.Round-based scaling does not.
func roundDecimals(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return f
}
