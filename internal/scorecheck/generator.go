package scorecheck

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/tally/internal/domain/model"
	"github.com/okian/tally/internal/domain/scoring"
	"github.com/okian/tally/pkg/logger"
)

// Event shape distribution cases.
const (
	caseStringValue = iota
	caseFloatValue
	caseIntValue
	caseNullValue
	caseJunkValue
	valueCaseCount
)

const (
	maxEventsPerReport = 8
	valueSpan          = 200.0
	weightSpan         = 5
	tierCount          = 4
	yearSpan           = 12
)

// generateReports creates reports with unique account ids and mixed-type
// event payloads, and records the locally computed score for each so the
// verification step can compare against the service.
func generateReports(ctx context.Context, config *Config, stats *Stats) ([]Report, error) {
	logger.Get().Info(ctx, "generating reports", logger.Int("numReports", config.NumReports))

	calc := scoring.NewCalculator()
	asOf := time.Now().UTC().Truncate(time.Second)
	rng := rand.New(rand.NewSource(asOf.UnixNano())) //nolint:gosec // load-generation randomness

	reports := make([]Report, config.NumReports)
	for i := range reports {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during report generation: %w", ctx.Err())
		default:
		}
		reports[i] = generateSingleReport(rng, i, asOf, calc)
	}

	stats.ReportsGenerated = len(reports)
	logger.Get().Info(ctx, "generated reports successfully", logger.Int("count", len(reports)))

	return reports, nil
}

// generateSingleReport builds one report and its expected score.
func generateSingleReport(rng *rand.Rand, index int, asOf time.Time, calc *scoring.Calculator) Report {
	accountID := uuid.New().String()
	events := make([]RawEvent, 1+rng.Intn(maxEventsPerReport))
	for i := range events {
		events[i] = generateEvent(rng)
	}

	tier := generateTier(rng)
	createdAt := generateCreatedAt(rng, asOf)

	// Recompute locally with the exact payload the service will see.
	modelEvents := make([]model.RawEvent, len(events))
	for i, e := range events {
		modelEvents[i] = model.RawEvent{Value: e.Value, Weight: e.Weight}
	}
	expected := calc.Calculate(modelEvents, model.Account{Tier: tier, CreatedAt: createdAt}, asOf)

	return Report{
		ReportID:  "report_" + strconv.Itoa(index) + "_" + uuid.New().String(),
		AccountID: accountID,
		Tier:      tier,
		CreatedAt: createdAt,
		AsOf:      asOf.Format(time.RFC3339),
		Events:    events,
		Expected:  expected,
	}
}

// generateEvent picks one of the value/weight shapes clients actually send,
// including malformed ones the scoring layer must absorb.
func generateEvent(rng *rand.Rand) RawEvent {
	value := any(nil)
	switch rng.Intn(valueCaseCount) {
	case caseStringValue:
		value = strconv.FormatFloat(rng.Float64()*valueSpan, 'f', 2, 64)
	case caseFloatValue:
		value = rng.Float64() * valueSpan
	case caseIntValue:
		value = rng.Intn(int(valueSpan))
	case caseNullValue:
		value = nil
	case caseJunkValue:
		value = "not-a-number"
	}

	weight := any(nil)
	switch rng.Intn(valueCaseCount) {
	case caseStringValue:
		weight = strconv.Itoa(rng.Intn(weightSpan))
	case caseFloatValue:
		weight = float64(rng.Intn(weightSpan)) + rng.Float64()
	case caseIntValue:
		weight = rng.Intn(2*weightSpan) - weightSpan // negatives clamp to 0
	case caseNullValue:
		weight = nil
	case caseJunkValue:
		weight = "heavy"
	}

	return RawEvent{Value: value, Weight: weight}
}

// generateTier returns a tier, occasionally an unrecognized one.
func generateTier(rng *rand.Rand) string {
	switch rng.Intn(tierCount) {
	case 0:
		return "vip"
	case 1:
		return "pro"
	case 2:
		return "free"
	default:
		return "trial" // unknown tier, multiplier 1.0
	}
}

// generateCreatedAt returns a creation date spread over the past years,
// sometimes malformed to exercise the no-adjustment path.
func generateCreatedAt(rng *rand.Rand, asOf time.Time) string {
	if rng.Intn(10) == 0 {
		return "never"
	}
	years := rng.Intn(yearSpan)
	days := rng.Intn(365)
	created := asOf.AddDate(-years, 0, -days)
	return created.Format("2006-01-02")
}
