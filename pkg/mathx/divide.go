// Package mathx provides small arithmetic helpers with explicit error
// contracts.
package mathx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel kinds for division errors.
var (
	ErrNonNumeric      = errors.New("inputs must be numeric")
	ErrZeroDenominator = errors.New("denominator must not be zero")
)

// Quotient safely divides two numbers. Inputs may be any numeric Go type or
// a numeric string; anything else returns ErrNonNumeric. A zero denominator
// returns ErrZeroDenominator before any division happens.
func Quotient(numerator, denominator any) (float64, error) {
	num, ok := toFloat(numerator)
	if !ok {
		return 0, fmt.Errorf("numerator %v: %w", numerator, ErrNonNumeric)
	}
	den, ok := toFloat(denominator)
	if !ok {
		return 0, fmt.Errorf("denominator %v: %w", denominator, ErrNonNumeric)
	}
	if den == 0 {
		return 0, ErrZeroDenominator
	}
	return num / den, nil
}

// toFloat accepts the numeric types callers actually pass plus numeric
// strings. Unlike the scoring layer's lossy parsing, failure here is an
// error, not a fallback.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
