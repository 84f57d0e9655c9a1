package scorecheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTP status code constants.
const (
	statusOK       = 200
	statusAccepted = 202
)

// httpClient wraps http.Client with a shared timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

func (c *httpClient) postJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// drainAndClose reads and closes a response body.
func drainAndClose(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// checkServiceHealth verifies the service answers on /healthz.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	if _, err := drainAndClose(resp); err != nil {
		return fmt.Errorf("health check read failed: %w", err)
	}
	if resp.StatusCode != statusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// submitReports submits reports concurrently with a worker pool.
func submitReports(ctx context.Context, config *Config, reports []Report, stats *Stats) error {
	log.Printf("submitting %d reports with %d workers...", len(reports), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/scores"

	var successful, duplicate, failed, submitted int64

	reportChan := make(chan Report, config.Workers)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rep := range reportChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&submitted, 1)
				switch submitSingleReport(ctx, client, url, rep) {
				case "success":
					atomic.AddInt64(&successful, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	for _, rep := range reports {
		select {
		case <-ctx.Done():
			close(reportChan)
			return fmt.Errorf("context cancelled during submission: %w", ctx.Err())
		case reportChan <- rep:
		}
	}
	close(reportChan)
	wg.Wait()

	stats.ReportsSubmitted = int(submitted)
	stats.ReportsSuccessful = int(successful)
	stats.ReportsDuplicate = int(duplicate)
	stats.ReportsFailed = int(failed)

	log.Printf("submission done: %d ok, %d duplicate, %d failed", successful, duplicate, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed to submit", failed, submitted)
	}
	return nil
}

// submitSingleReport posts one report and classifies the outcome.
func submitSingleReport(ctx context.Context, client *httpClient, url string, rep Report) string {
	resp, err := client.postJSON(ctx, url, rep)
	if err != nil {
		return "failed"
	}
	body, err := drainAndClose(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case statusAccepted:
		return "success"
	case statusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "success"
	default:
		return "failed"
	}
}

// fetchRanks retrieves the rank entry for every submitted account.
func fetchRanks(ctx context.Context, config *Config, reports []Report, stats *Stats) (map[string]Entry, error) {
	log.Printf("fetching ranks for %d accounts...", len(reports))

	client := newHTTPClient(config.Timeout)
	ranks := make(map[string]Entry, len(reports))
	var mu sync.Mutex

	workChan := make(chan Report, config.Workers)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rep := range workChan {
				entry, err := fetchSingleRank(ctx, client, config.BaseURL, rep.AccountID)
				if err != nil {
					continue
				}
				mu.Lock()
				ranks[rep.AccountID] = entry
				mu.Unlock()
			}
		}()
	}

	for _, rep := range reports {
		select {
		case <-ctx.Done():
			close(workChan)
			return nil, fmt.Errorf("context cancelled during rank retrieval: %w", ctx.Err())
		case workChan <- rep:
		}
	}
	close(workChan)
	wg.Wait()

	stats.RanksRetrieved = len(ranks)
	return ranks, nil
}

// fetchSingleRank retrieves one account's rank entry.
func fetchSingleRank(ctx context.Context, client *httpClient, baseURL, accountID string) (Entry, error) {
	resp, err := client.get(ctx, baseURL+"/rank/"+accountID)
	if err != nil {
		return Entry{}, fmt.Errorf("rank request failed: %w", err)
	}
	body, err := drainAndClose(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("rank read failed: %w", err)
	}
	if resp.StatusCode != statusOK {
		return Entry{}, fmt.Errorf("rank returned status %d", resp.StatusCode)
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("rank decode failed: %w", err)
	}
	return entry, nil
}

// fetchLeaderboard retrieves the top-N leaderboard.
func fetchLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	client := newHTTPClient(config.Timeout)
	resp, err := client.get(ctx, fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, config.TopN))
	if err != nil {
		return nil, fmt.Errorf("leaderboard request failed: %w", err)
	}
	body, err := drainAndClose(resp)
	if err != nil {
		return nil, fmt.Errorf("leaderboard read failed: %w", err)
	}
	if resp.StatusCode != statusOK {
		return nil, fmt.Errorf("leaderboard returned status %d", resp.StatusCode)
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("leaderboard decode failed: %w", err)
	}

	stats.LeaderboardEntries = len(entries)
	return entries, nil
}
