// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/tally/internal/domain/dedupe"
	"github.com/okian/tally/internal/domain/model"
	"github.com/okian/tally/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a report for async scoring. Returns false on backpressure.
	Enqueue(ctx context.Context, r model.Report) bool

	// Preview computes a score synchronously without storing it.
	Preview(ctx context.Context, r model.Report) (float64, error)

	// Read operations expose scoreboard data.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, accountID string) (Entry, error)
}

// Entry mirrors the read shape returned by scoreboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	scoresHandler      *ScoresHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		scoresHandler:      NewScoresHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.scoresHandler.HandlePostScore, "scores"))
	mux.HandleFunc("/scores/preview", MetricsMiddleware(s.scoresHandler.HandlePreview, "scores_preview"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

// rawEventRequest mirrors one event in the report JSON. Value and Weight are
// passed through untyped; the scoring layer owns coercion.
type rawEventRequest struct {
	Value  any `json:"value"`
	Weight any `json:"weight"`
}

// scoreReportRequest mirrors the JSON schema for POST /scores.
type scoreReportRequest struct {
	ReportID  string            `json:"report_id"`
	AccountID string            `json:"account_id"`
	Tier      string            `json:"tier"`
	CreatedAt string            `json:"created_at"`
	AsOf      string            `json:"as_of"`
	Events    []rawEventRequest `json:"events"`
}

// validate checks the structural fields. Tier and created_at are free-form:
// the calculator absorbs malformed values, so the API does not reject them.
func (r scoreReportRequest) validate(requireID bool) error {
	if requireID && strings.TrimSpace(r.ReportID) == "" {
		return errors.New("missing report_id")
	}
	if strings.TrimSpace(r.AccountID) == "" {
		return errors.New("missing account_id")
	}
	if r.AsOf != "" {
		if _, err := time.Parse(time.RFC3339, r.AsOf); err != nil {
			return errors.New("invalid as_of; must be RFC3339")
		}
	}
	return nil
}

// toModel converts the request to the domain report.
func (r scoreReportRequest) toModel() model.Report {
	events := make([]model.RawEvent, len(r.Events))
	for i, e := range r.Events {
		events[i] = model.RawEvent{Value: e.Value, Weight: e.Weight}
	}

	var asOf time.Time
	if r.AsOf != "" {
		asOf, _ = time.Parse(time.RFC3339, r.AsOf) // validated upstream
	}

	return model.Report{
		ReportID:  r.ReportID,
		AccountID: r.AccountID,
		Tier:      r.Tier,
		CreatedAt: r.CreatedAt,
		Events:    events,
		AsOf:      asOf,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type previewResponse struct {
	AccountID string  `json:"account_id"`
	Score     float64 `json:"score"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
