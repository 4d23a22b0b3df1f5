package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"

	"github.com/V4T54L/journalview/internal/adapter/api/handler"
	"github.com/V4T54L/journalview/internal/adapter/api/middleware"
	"github.com/V4T54L/journalview/internal/adapter/metrics"
	"github.com/V4T54L/journalview/internal/adapter/redact"
	"github.com/V4T54L/journalview/internal/domain"
	"github.com/V4T54L/journalview/internal/domain/mocks"
	"github.com/V4T54L/journalview/internal/usecase"
)

const testKey = "test-key"

var base = uint64(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMicro())

func newTestRouter(t *testing.T, opts RouterOptions) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	journal := mocks.NewJournal(
		mocks.LogEntry(base, 3, "nginx.service", "upstream timed out"),
		mocks.LogEntry(base+1_000_000, 6, "sshd.service", "session opened"),
		mocks.LogEntry(base+2_000_000, 2, "nginx.service", "worker crashed"),
	)
	opener := journal.Opener()
	store, err := opener(domain.DefaultOpenOptions())
	if err != nil {
		t.Fatalf("open mock journal: %v", err)
	}

	logs := usecase.NewQueryLogsUseCase(store, logger, opts.Metrics, nil)
	entries := usecase.NewFetchEntryUseCase(opener, domain.DefaultOpenOptions(), nil, logger, opts.Metrics)
	summary := usecase.NewSummaryUseCase(opener, domain.DefaultOpenOptions(), usecase.SummaryConfig{
		Window: 120 * time.Hour, Limit: 100, UpperBoundSlack: 24 * time.Hour,
	}, logger, opts.Metrics, nil)
	catalog := usecase.NewServiceCatalog(&mocks.MockUnitLister{}, nil)
	translator := usecase.NewRequestTranslator(1000, 24*time.Hour)
	translator.Now = func() time.Time { return time.UnixMicro(int64(base)).Add(time.Minute) }

	h := handler.NewJournalHandler(logs, entries, summary, catalog, translator, redact.NewRedactor(nil, logger), logger)
	return NewRouter(h, opts, logger)
}

func do(router http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set(middleware.APIKeyHeader, key)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, RouterOptions{APIKeys: &mocks.MockAPIKeyRepository{}})

	rr := do(router, "/health", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Errorf("health = %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestRouter_ListLogs(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	rr := do(router, "/api/v1/logs?fields=MESSAGE,PRIORITY&priority=3", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rr.Code, rr.Body.String())
	}
	var rs domain.ResultSet
	if err := json.Unmarshal(rr.Body.Bytes(), &rs); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := [][]string{{"worker crashed", "2"}, {"upstream timed out", "3"}}
	if len(rs.Rows) != len(want) {
		t.Fatalf("rows = %v, want %v", rs.Rows, want)
	}
	for i := range want {
		if rs.Rows[i][0] != want[i][0] || rs.Rows[i][1] != want[i][1] {
			t.Errorf("row %d = %v, want %v", i, rs.Rows[i], want[i])
		}
	}
}

func TestRouter_GetEntry(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	rr := do(router, "/api/v1/entries/"+strconv.FormatUint(base+1_000_000, 10), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var rec domain.FullRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if msg, _ := rec.Get(domain.FieldMessage); msg != "session opened" {
		t.Errorf("MESSAGE = %q", msg)
	}

	if rr := do(router, "/api/v1/entries/"+strconv.FormatUint(base+500_000, 10), ""); rr.Code != http.StatusNotFound {
		t.Errorf("missing entry status = %d, want 404", rr.Code)
	}
}

func TestRouter_Auth(t *testing.T) {
	keys := &mocks.MockAPIKeyRepository{ValidKeys: map[string]bool{testKey: true}}
	router := newTestRouter(t, RouterOptions{APIKeys: keys})

	tests := []struct {
		name           string
		key            string
		expectedStatus int
	}{
		{"Missing Key", "", http.StatusUnauthorized},
		{"Invalid Key", "wrong", http.StatusUnauthorized},
		{"Valid Key", testKey, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := do(router, "/api/v1/services", tt.key); rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestRouter_RateLimit(t *testing.T) {
	m := metrics.NewQueryMetrics(prometheus.NewRegistry())
	router := newTestRouter(t, RouterOptions{Limiter: rate.NewLimiter(0, 1), Metrics: m})

	if rr := do(router, "/api/v1/boots", ""); rr.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rr.Code)
	}
	rr := do(router, "/api/v1/boots", "")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if got := testutil.ToFloat64(m.RateLimitedTotal); got != 1 {
		t.Errorf("rate limited counter = %v, want 1", got)
	}

	// The health check is outside the limited group.
	if rr := do(router, "/health", ""); rr.Code != http.StatusOK {
		t.Errorf("health status = %d", rr.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})
	if rr := do(router, "/api/v1/nope", ""); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
