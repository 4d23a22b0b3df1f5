package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/V4T54L/journalview/internal/adapter/metrics"
	"github.com/V4T54L/journalview/internal/domain"
)

// QueryLogsUseCase runs list queries against one long-lived journal store.
// The store is held for the whole of a query, so concurrent calls are served
// one at a time.
type QueryLogsUseCase struct {
	mu    sync.Mutex
	store domain.JournalStore

	obs observer
}

// NewQueryLogsUseCase creates a new QueryLogsUseCase. m and audit may be nil.
func NewQueryLogsUseCase(store domain.JournalStore, logger *slog.Logger, m *metrics.QueryMetrics, audit domain.QueryAuditRepository) *QueryLogsUseCase {
	logger = logger.With("component", "query_engine")
	return &QueryLogsUseCase{
		store: store,
		obs:   observer{operation: OperationList, logger: logger, metrics: m, audit: audit},
	}
}

// List returns the entries matching q, newest first. Filters from an earlier
// query never leak into this one. When q does not reset the position,
// traversal continues from where the previous query stopped.
func (uc *QueryLogsUseCase) List(ctx context.Context, q domain.QuerySpec) (*domain.ResultSet, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "List", trace.WithAttributes(
		attribute.Int64("journal.limit", int64(q.Limit)),
		attribute.Int("journal.min_priority", int(q.MinimumPriority)),
		attribute.Bool("journal.reset_position", q.ResetPosition),
	))
	defer span.End()

	start := time.Now()
	uc.mu.Lock()
	rs, err := Traverse(uc.store, q, uc.obs.logger, uc.obs.metrics)
	uc.mu.Unlock()

	rows := 0
	if rs != nil {
		rows = len(rs.Rows)
	}
	span.SetAttributes(attribute.Int("journal.rows", rows))
	uc.obs.done(ctx, span, &q, rows, err, time.Since(start))
	if err != nil {
		uc.obs.logger.Error("list query failed", "error", err)
		return nil, err
	}
	return rs, nil
}

// Close releases the underlying store.
func (uc *QueryLogsUseCase) Close() error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.store.Close()
}
