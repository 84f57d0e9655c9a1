package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/okian/tally/pkg/metrics"
)

// ShardStore is an in-memory Store implementation. Accounts are spread over
// a fixed set of shards to keep write contention low; ranking is computed on
// read by merging shard snapshots.
//
// Ordering: score DESC, then account id ASC (deterministic).
type ShardStore struct {
	shards []*shard
}

type shard struct {
	mu      sync.RWMutex
	records map[string]record
}

type record struct {
	score    float64
	reportID string
}

// NewShardStore creates a ShardStore with configuration options.
func NewShardStore(_ context.Context, opts ...Option) *ShardStore {
	s := &ShardStore{}

	cfg := storeConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.shards = make([]*shard, cfg.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]record)}
	}

	return s
}

// SetScore records the latest computed score for an account.
func (s *ShardStore) SetScore(_ context.Context, accountID string, score float64, reportID string) (bool, error) {
	sh := s.shardFor(accountID)

	sh.mu.Lock()
	prev, existed := sh.records[accountID]
	sh.records[accountID] = record{score: score, reportID: reportID}
	sh.mu.Unlock()

	if !existed {
		metrics.UpdateTotalAccounts(s.Count(context.Background()))
		return true, nil
	}
	return prev.score != score, nil
}

// Rank returns the current rank and score for an account.
func (s *ShardStore) Rank(ctx context.Context, accountID string) (Entry, error) {
	target, found := s.lookup(accountID)
	if !found {
		return Entry{}, ErrNotFound
	}

	// Rank = 1 + number of entries ordered strictly before this one.
	ahead := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, rec := range sh.records {
			if id == accountID {
				continue
			}
			if rec.score > target.score || (rec.score == target.score && id < accountID) {
				ahead++
			}
		}
		sh.mu.RUnlock()
	}

	return Entry{
		Rank:      ahead + 1,
		AccountID: accountID,
		Score:     target.score,
		ReportID:  target.reportID,
	}, nil
}

// TopN returns the top-N entries ordered by score desc, account id asc.
func (s *ShardStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	all := s.snapshot()
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].AccountID < all[j].AccountID
	})

	if n > len(all) {
		n = len(all)
	}
	top := all[:n]
	for i := range top {
		top[i].Rank = i + 1
	}
	return top, nil
}

// Count returns the number of accounts tracked on the scoreboard.
func (s *ShardStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.records)
		sh.mu.RUnlock()
	}
	return total
}

// shardFor picks the shard owning an account id.
func (s *ShardStore) shardFor(accountID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(accountID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// lookup fetches an account's record without computing its rank.
func (s *ShardStore) lookup(accountID string) (record, bool) {
	sh := s.shardFor(accountID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec, ok := sh.records[accountID]
	return rec, ok
}

// snapshot copies every record into an unranked entry slice.
func (s *ShardStore) snapshot() []Entry {
	all := make([]Entry, 0, s.Count(context.Background()))
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, rec := range sh.records {
			all = append(all, Entry{
				AccountID: id,
				Score:     rec.score,
				ReportID:  rec.reportID,
			})
		}
		sh.mu.RUnlock()
	}
	return all
}
