package scorecheck

import (
	"fmt"
	"log"
	"math"

	"github.com/okian/tally/pkg/mathx"
)

// scoreTolerance is the allowed absolute difference between the locally
// computed score and the one the service reports. Scores are rounded to
// two decimals on both sides, so any real divergence is far larger.
const scoreTolerance = 1e-9

// verifyScores compares every retrieved rank entry against the locally
// recomputed expected score.
func verifyScores(config *Config, reports []Report, ranks map[string]Entry, stats *Stats) error {
	log.Printf("verifying scores for %d accounts...", len(ranks))

	mismatches := 0
	missing := 0

	for _, rep := range reports {
		entry, ok := ranks[rep.AccountID]
		if !ok {
			missing++
			if config.Verbose {
				log.Printf("MISSING: account %s has no rank entry", rep.AccountID)
			}
			continue
		}
		if math.Abs(entry.Score-rep.Expected) > scoreTolerance {
			mismatches++
			if config.Verbose {
				log.Printf("MISMATCH: account %s expected %.2f got %.2f",
					rep.AccountID, rep.Expected, entry.Score)
			}
		}
	}

	stats.ScoreMismatches = mismatches

	if rate, err := mathx.Quotient(len(ranks)-mismatches, len(ranks)); err == nil {
		log.Printf("score verification: %.1f%% of %d entries match", rate*100, len(ranks))
	}

	if mismatches > 0 || missing > 0 {
		return fmt.Errorf("score verification failed: %d mismatches, %d missing", mismatches, missing)
	}
	return nil
}

// verifyLeaderboard checks ordering and rank numbering of the top-N list,
// and that each listed score agrees with the per-account rank entry.
func verifyLeaderboard(entries []Entry, ranks map[string]Entry) error {
	log.Printf("verifying leaderboard with %d entries...", len(entries))

	for i, entry := range entries {
		if entry.Rank != i+1 {
			return fmt.Errorf("leaderboard rank gap: position %d has rank %d", i+1, entry.Rank)
		}
		if i > 0 && entry.Score > entries[i-1].Score {
			return fmt.Errorf("leaderboard out of order: rank %d score %.2f exceeds rank %d score %.2f",
				entry.Rank, entry.Score, entries[i-1].Rank, entries[i-1].Score)
		}
		if known, ok := ranks[entry.AccountID]; ok {
			if math.Abs(known.Score-entry.Score) > scoreTolerance {
				return fmt.Errorf("leaderboard score for %s (%.2f) disagrees with rank endpoint (%.2f)",
					entry.AccountID, entry.Score, known.Score)
			}
			if known.Rank != entry.Rank {
				return fmt.Errorf("leaderboard rank for %s (%d) disagrees with rank endpoint (%d)",
					entry.AccountID, entry.Rank, known.Rank)
			}
		}
	}

	log.Printf("leaderboard verification passed")
	return nil
}
