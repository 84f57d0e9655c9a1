// Package service provides the core business service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
	reportqueue "github.com/okian/tally/internal/adapters/mq/queue"
	workerpool "github.com/okian/tally/internal/adapters/mq/worker"
	repository "github.com/okian/tally/internal/adapters/repository"
	"github.com/okian/tally/internal/domain/dedupe"
	"github.com/okian/tally/internal/domain/model"
	"github.com/okian/tally/internal/domain/scoring"
	"github.com/okian/tally/internal/domain/types"
	"github.com/okian/tally/pkg/logger"
	"github.com/okian/tally/pkg/mathx"
	"github.com/okian/tally/pkg/metrics"
)

// scoringAdapter narrows scoring.Scorer to the worker's contract.
type scoringAdapter struct {
	scorer scoring.Scorer
}

func (a *scoringAdapter) ScoreReport(ctx context.Context, r model.Report) (float64, error) {
	result, err := a.scorer.Score(ctx, scoring.Input{
		AccountID: r.AccountID,
		Events:    r.Events,
		Account:   r.Account(),
		AsOf:      r.ReferenceTime(),
	})
	if err != nil {
		return 0, err
	}
	return result.Score, nil
}

// Service implements the API dependencies for the scoreboard system.
type Service struct {
	mu sync.RWMutex

	// Core components
	scoreboard  repository.Store
	deduper     dedupe.Deduper
	reportQueue reportqueue.Queue
	scorer      scoring.Scorer
	workerPool  *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	shardCount      int
	tierMultipliers map[string]float64
	defaultMult     float64
	bonusRate       float64
	yearCap         int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the report queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of scoreboard shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTierMultipliers sets the tier multiplier table and the fallback
// multiplier for unknown tiers.
func WithTierMultipliers(multipliers map[string]float64, defaultMult float64) Option {
	return func(s *Service) {
		s.tierMultipliers = multipliers
		if defaultMult > 0 {
			s.defaultMult = defaultMult
		}
	}
}

// WithLoyaltyBonus sets the loyalty adjustment rate and year cap.
func WithLoyaltyBonus(rate float64, yearCap int) Option {
	return func(s *Service) {
		if rate >= 0 {
			s.bonusRate = rate
		}
		if yearCap >= 0 {
			s.yearCap = yearCap
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   100000,
		dedupeSize:  50000,
		shardCount:  8,
		tierMultipliers: map[string]float64{
			"vip": 1.2,
			"pro": 1.1,
		},
		defaultMult: 1.0,
		bonusRate:   0.005,
		yearCap:     6,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting score service...")

	s.scoreboard = repository.NewShardStore(ctx,
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.reportQueue = reportqueue.NewInMemoryQueue(
		reportqueue.WithCapacity(s.queueSize),
	)
	s.scorer = scoring.NewCalculator(
		scoring.WithTierMultipliersFromConfig(s.tierMultipliers, s.defaultMult),
		scoring.WithLoyaltyBonus(s.bonusRate, s.yearCap),
	)

	s.workerPool = workerpool.NewPool(
		s.workerCount,
		s.reportQueue,
		&scoringAdapter{scorer: s.scorer},
		s.scoreboard,
	)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "score service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping score service...")

	if q, ok := s.reportQueue.(*reportqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "score service stopped")
}

// SeenAndRecord atomically checks if a report id was seen and records it if
// not. Returns true if the report was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordReportDuplicate()
	}
	return seen
}

// Unrecord removes a report ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a report for asynchronous scoring. A report without an id
// gets a generated one so duplicates can still be rolled back by the caller.
func (s *Service) Enqueue(ctx context.Context, r model.Report) bool {
	if r.ReportID == "" {
		r.ReportID = uuid.New().String()
	}

	s.logger.Debug(ctx, "enqueueing report",
		logger.String("reportID", r.ReportID),
		logger.String("accountID", r.AccountID),
		logger.Int("events", len(r.Events)),
	)

	ok := s.reportQueue.Enqueue(ctx, r)
	if ok {
		metrics.RecordReportAccepted()
		metrics.UpdateQueueSize(s.reportQueue.Len(ctx))
	}
	return ok
}

// Preview computes a report's score synchronously without touching the
// scoreboard.
func (s *Service) Preview(ctx context.Context, r model.Report) (float64, error) {
	result, err := s.scorer.Score(ctx, scoring.Input{
		AccountID: r.AccountID,
		Events:    r.Events,
		Account:   r.Account(),
		AsOf:      r.ReferenceTime(),
	})
	if err != nil {
		return 0, err
	}
	metrics.RecordScoreComputed()
	return result.Score, nil
}

// TopN returns the top N scoreboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.scoreboard.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	apiEntries := make([]types.Entry, len(entries))
	for i, e := range entries {
		apiEntries[i] = types.Entry{
			Rank:      e.Rank,
			AccountID: e.AccountID,
			Score:     e.Score,
		}
	}

	return apiEntries, nil
}

// Rank returns the rank and score for an account id.
func (s *Service) Rank(ctx context.Context, accountID string) (types.Entry, error) {
	e, err := s.scoreboard.Rank(ctx, accountID)
	if err != nil {
		return types.Entry{}, err
	}

	return types.Entry{
		Rank:      e.Rank,
		AccountID: e.AccountID,
		Score:     e.Score,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.reportQueue.Len(ctx)
		accounts := s.scoreboard.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalAccounts"] = accounts

		if entries, err := s.scoreboard.TopN(ctx, accounts); err == nil {
			sum := 0.0
			for _, e := range entries {
				sum += e.Score
			}
			// Quotient guards the empty-scoreboard case for us.
			if mean, err := mathx.Quotient(sum, accounts); err == nil {
				stats["meanScore"] = mean
			}
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalAccounts(accounts)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
