package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/tally/pkg/metrics"
)

// lossyFloat interprets v as a float64. Direct numeric conversion is tried
// first, then conversion through v's textual form; anything that survives
// neither stage counts as 0. Malformed input never produces an error here;
// the fallback chain absorbs it.
func lossyFloat(v any) float64 {
	if f, ok := directFloat(v); ok {
		return f
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(v)), 64); err == nil {
		metrics.RecordParseFallback("value_text")
		return f
	}
	metrics.RecordParseFallback("value_zero")
	return 0.0
}

// directFloat handles the types a JSON decoder (or a caller building events
// in Go) can hand us without going through a string.
func directFloat(v any) (float64, bool) {
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
	case bool:
		if n {
			return 1.0, true
		}
		return 0.0, true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// intOrDefault interprets v as an integer, falling back to def on any
// failure. Fractional numeric weights truncate toward zero; fractional
// strings (e.g. "2.5") do not parse as integers and take the default.
func intOrDefault(v any, def int) int {
	switch n := v.(type) {
	case nil:
		return def
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			metrics.RecordParseFallback("weight_default")
			return def
		}
		return int(n)
	case float32:
		return intOrDefault(float64(n), def)
	case bool:
		if n {
			return 1
		}
		return 0
	case json.Number:
		if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return intOrDefault(f, def)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	metrics.RecordParseFallback("weight_default")
	return def
}
