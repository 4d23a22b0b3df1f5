package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QueryMetrics holds all Prometheus metrics for the journal query service.
type QueryMetrics struct {
	QueriesTotal      *prometheus.CounterVec
	QueryDuration     *prometheus.HistogramVec
	RowsReturned      prometheus.Histogram
	MatchErrors       prometheus.Counter
	FieldErrors       prometheus.Counter
	EntryCacheHits    prometheus.Counter
	EntryCacheMisses  prometheus.Counter
	APIKeyCacheHits   prometheus.Counter
	APIKeyCacheMisses prometheus.Counter
	RateLimitedTotal  prometheus.Counter
}

// NewQueryMetrics initializes the metrics and registers them with reg.
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	factory := promauto.With(reg)
	return &QueryMetrics{
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "journalview",
			Subsystem: "query",
			Name:      "total",
			Help:      "Total number of journal operations by operation and status.",
		}, []string{"operation", "status"}), // operation: list, fetch_full, summary; status: ok, error, not_found
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "journalview",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Time spent holding the journal for one operation.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"operation"}),
		RowsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "journalview",
			Subsystem: "query",
			Name:      "rows",
			Help:      "Number of rows returned per list query.",
			Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		MatchErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "journalview",
			Subsystem: "store",
			Name:      "match_errors_total",
			Help:      "Total number of match predicates the journal rejected.",
		}),
		FieldErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "journalview",
			Subsystem: "store",
			Name:      "field_errors_total",
			Help:      "Total number of projected fields that could not be read.",
		}),
		EntryCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "journalview",
			Subsystem: "entry_cache",
			Name:      "hits_total",
			Help:      "Total number of full entry cache hits.",
		}),
		EntryCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "journalview",
			Subsystem: "entry_cache",
			Name:      "misses_total",
			Help:      "Total number of full entry cache misses.",
		}),
		APIKeyCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "journalview",
			Subsystem: "auth",
			Name:      "api_key_cache_hits_total",
			Help:      "Total number of API key cache hits.",
		}),
		APIKeyCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "journalview",
			Subsystem: "auth",
			Name:      "api_key_cache_misses_total",
			Help:      "Total number of API key cache misses.",
		}),
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "journalview",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		}),
	}
}
