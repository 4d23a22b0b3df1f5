package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/V4T54L/journalview/internal/adapter/metrics"
	"github.com/V4T54L/journalview/internal/domain"
)

const tracerName = "journal-query"

// Operation names used for metrics and the query audit.
const (
	OperationList      = "list"
	OperationFetchFull = "fetch_full"
	OperationSummary   = "summary"
)

// observer reports the outcome of one operation to metrics, the query audit
// and the active span. Both metrics and audit are optional.
type observer struct {
	operation string
	logger    *slog.Logger
	metrics   *metrics.QueryMetrics
	audit     domain.QueryAuditRepository
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return domain.AuditStatusOK
	case errors.Is(err, domain.ErrEntryNotFound):
		return domain.AuditStatusNotFound
	default:
		return domain.AuditStatusError
	}
}

// done records an operation that ran q (nil for operations without a query)
// and produced rows rows.
func (o observer) done(ctx context.Context, span trace.Span, q *domain.QuerySpec, rows int, err error, elapsed time.Duration) {
	status := statusOf(err)
	if err != nil && status == domain.AuditStatusError {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if o.metrics != nil {
		o.metrics.QueriesTotal.WithLabelValues(o.operation, status).Inc()
		o.metrics.QueryDuration.WithLabelValues(o.operation).Observe(elapsed.Seconds())
		if err == nil && q != nil {
			o.metrics.RowsReturned.Observe(float64(rows))
		}
	}

	if o.audit == nil || q == nil {
		return
	}
	entry := domain.QueryAuditEntry{
		Operation:    o.operation,
		Units:        q.Units,
		BootIDs:      q.BootIDs,
		PID:          q.PID,
		MinPriority:  q.MinimumPriority,
		QuickSearch:  q.QuickSearch,
		Limit:        q.Limit,
		RowsReturned: rows,
		Duration:     elapsed,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if auditErr := o.audit.Record(ctx, entry); auditErr != nil {
		o.logger.Warn("failed to record query audit", "operation", o.operation, "error", auditErr)
	}
}
