package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/okian/tally/internal/adapters/http/api"
	"github.com/okian/tally/internal/adapters/repository"
	"github.com/okian/tally/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps implements api.Dependencies for handler tests.
type stubDeps struct {
	seen        map[string]bool
	enqueueOK   bool
	enqueued    []model.Report
	previewed   float64
	previewErr  error
	entries     []api.Entry
	rankErr     error
	unrecorded  []string
}

func newStubDeps() *stubDeps {
	return &stubDeps{
		seen:      make(map[string]bool),
		enqueueOK: true,
	}
}

func (s *stubDeps) SeenAndRecord(_ context.Context, id string) bool {
	if s.seen[id] {
		return true
	}
	s.seen[id] = true
	return false
}

func (s *stubDeps) Unrecord(_ context.Context, id string) {
	delete(s.seen, id)
	s.unrecorded = append(s.unrecorded, id)
}

func (s *stubDeps) Size() int64 { return int64(len(s.seen)) }

func (s *stubDeps) Enqueue(_ context.Context, r model.Report) bool {
	if !s.enqueueOK {
		return false
	}
	s.enqueued = append(s.enqueued, r)
	return true
}

func (s *stubDeps) Preview(_ context.Context, r model.Report) (float64, error) {
	return s.previewed, s.previewErr
}

func (s *stubDeps) TopN(_ context.Context, n int) ([]api.Entry, error) {
	if n > len(s.entries) {
		n = len(s.entries)
	}
	return s.entries[:n], nil
}

func (s *stubDeps) Rank(_ context.Context, accountID string) (api.Entry, error) {
	if s.rankErr != nil {
		return api.Entry{}, s.rankErr
	}
	for _, e := range s.entries {
		if e.AccountID == accountID {
			return e, nil
		}
	}
	return api.Entry{}, repository.ErrNotFound
}

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"total_accounts": 2}
}

func newTestMux(deps *stubDeps) *http.ServeMux {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, stubStats{}, 100)
	srv.Register(context.Background(), mux)
	return mux
}

func TestPostScore(t *testing.T) {
	Convey("Given the scores endpoint", t, func() {
		deps := newStubDeps()
		mux := newTestMux(deps)

		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/scores", strings.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When posting a valid report", func() {
			rec := post(`{
				"report_id": "r1",
				"account_id": "acct-1",
				"tier": "vip",
				"created_at": "2020-01-01",
				"events": [{"value": "1.5", "weight": 2}]
			}`)

			Convey("Then it is accepted for async processing", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].AccountID, ShouldEqual, "acct-1")
				So(deps.enqueued[0].Events, ShouldHaveLength, 1)

				var ack struct {
					Status    string `json:"status"`
					Duplicate bool   `json:"duplicate"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.Status, ShouldEqual, "accepted")
				So(ack.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When posting the same report twice", func() {
			body := `{"report_id": "r1", "account_id": "acct-1", "events": []}`
			post(body)
			rec := post(body)

			Convey("Then the second submission is flagged as duplicate", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.enqueued, ShouldHaveLength, 1)

				var ack struct {
					Duplicate bool `json:"duplicate"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.Duplicate, ShouldBeTrue)
			})
		})

		Convey("When the queue is full", func() {
			deps.enqueueOK = false
			rec := post(`{"report_id": "r1", "account_id": "acct-1", "events": []}`)

			Convey("Then it returns backpressure and unrecords the report", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.unrecorded, ShouldContain, "r1")

				Convey("And the report can be retried", func() {
					deps.enqueueOK = true
					rec := post(`{"report_id": "r1", "account_id": "acct-1", "events": []}`)
					So(rec.Code, ShouldEqual, http.StatusAccepted)
				})
			})
		})

		Convey("When the body is not JSON", func() {
			rec := post(`{not json`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When report_id is missing", func() {
			rec := post(`{"account_id": "acct-1", "events": []}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When account_id is missing", func() {
			rec := post(`{"report_id": "r1", "events": []}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When as_of is malformed", func() {
			rec := post(`{"report_id": "r1", "account_id": "a", "as_of": "yesterday", "events": []}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When tier and created_at are garbage", func() {
			rec := post(`{"report_id": "r1", "account_id": "a", "tier": "??", "created_at": "not-a-date", "events": [{"value": "bad", "weight": null}]}`)

			Convey("Then the request is still accepted", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
			})
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest(http.MethodGet, "/scores", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPreviewScore(t *testing.T) {
	Convey("Given the preview endpoint", t, func() {
		deps := newStubDeps()
		deps.previewed = 3.22
		mux := newTestMux(deps)

		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/scores/preview", strings.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When previewing a report without a report_id", func() {
			rec := post(`{"account_id": "acct-1", "tier": "pro", "created_at": "2020-01-01", "events": [{"value": "1.5", "weight": "2"}]}`)

			Convey("Then the score comes back synchronously", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					AccountID string  `json:"account_id"`
					Score     float64 `json:"score"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.AccountID, ShouldEqual, "acct-1")
				So(resp.Score, ShouldEqual, 3.22)
				So(deps.enqueued, ShouldBeEmpty)
			})
		})

		Convey("When the scorer fails", func() {
			deps.previewErr = errors.New("boom")
			rec := post(`{"account_id": "acct-1", "events": []}`)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When account_id is missing", func() {
			rec := post(`{"events": []}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetLeaderboard(t *testing.T) {
	Convey("Given the leaderboard endpoint", t, func() {
		deps := newStubDeps()
		deps.entries = []api.Entry{
			{Rank: 1, AccountID: "acct-a", Score: 116.4},
			{Rank: 2, AccountID: "acct-b", Score: 3.22},
		}
		mux := newTestMux(deps)

		get := func(target string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When requesting the top entries", func() {
			rec := get("/leaderboard?limit=2")

			Convey("Then entries come back as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var entries []api.Entry
				So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].AccountID, ShouldEqual, "acct-a")
			})
		})

		Convey("When the limit is missing", func() {
			So(get("/leaderboard").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit is not a number", func() {
			So(get("/leaderboard?limit=lots").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit is zero", func() {
			So(get("/leaderboard?limit=0").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the configured maximum", func() {
			So(get("/leaderboard?limit=101").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetRank(t *testing.T) {
	Convey("Given the rank endpoint", t, func() {
		deps := newStubDeps()
		deps.entries = []api.Entry{{Rank: 1, AccountID: "acct-a", Score: 42.0}}
		mux := newTestMux(deps)

		get := func(target string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When the account exists", func() {
			rec := get("/rank/acct-a")

			Convey("Then its entry is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var entry api.Entry
				So(json.Unmarshal(rec.Body.Bytes(), &entry), ShouldBeNil)
				So(entry.Rank, ShouldEqual, 1)
				So(entry.Score, ShouldEqual, 42.0)
			})
		})

		Convey("When the account is unknown", func() {
			So(get("/rank/nobody").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the account id is empty", func() {
			So(get("/rank/").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the store fails", func() {
			deps.rankErr = errors.New("boom")
			So(get("/rank/acct-a").Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given the stats and health endpoints", t, func() {
		deps := newStubDeps()
		mux := newTestMux(deps)

		Convey("When requesting stats", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the provider's map is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var stats map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["total_accounts"], ShouldEqual, 2)
			})
		})

		Convey("When requesting health", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it responds OK with metrics output", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
