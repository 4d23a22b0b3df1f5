package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/V4T54L/journalview/internal/adapter/metrics"
	"github.com/V4T54L/journalview/internal/domain"
)

// SummaryConfig bounds the data a summary looks at.
type SummaryConfig struct {
	// Window is how far back from now the summary reaches.
	Window time.Duration
	// Limit caps the number of entries counted.
	Limit uint64
	// UpperBoundSlack is added to now to form the upper time bound.
	UpperBoundSlack time.Duration
}

// SummaryUseCase lists receipt timestamps of recent entries on a short-lived store.
type SummaryUseCase struct {
	open domain.StoreOpener
	opts domain.OpenOptions
	cfg  SummaryConfig
	now  func() time.Time
	obs  observer
}

// NewSummaryUseCase creates a new SummaryUseCase. m and audit may be nil.
func NewSummaryUseCase(open domain.StoreOpener, opts domain.OpenOptions, cfg SummaryConfig, logger *slog.Logger, m *metrics.QueryMetrics, audit domain.QueryAuditRepository) *SummaryUseCase {
	return &SummaryUseCase{
		open: open,
		opts: opts,
		cfg:  cfg,
		now:  time.Now,
		obs:  observer{operation: OperationSummary, logger: logger.With("component", "summary"), metrics: m, audit: audit},
	}
}

// WithClock replaces the time source used to place the window.
func (uc *SummaryUseCase) WithClock(now func() time.Time) *SummaryUseCase {
	uc.now = now
	return uc
}

// Query returns the summary query for the given minimum priority.
func (uc *SummaryUseCase) Query(priority uint32) domain.QuerySpec {
	now := uc.now()
	return domain.NewQueryBuilder().
		WithFields([]string{domain.FieldRealtime}).
		WithLimit(uc.cfg.Limit).
		WithDateMoreThan(uint64(now.Add(-uc.cfg.Window).UnixMicro())).
		WithDateLessThan(uint64(now.Add(uc.cfg.UpperBoundSlack).UnixMicro())).
		WithPriorityAboveOrEqualTo(priority).
		Build()
}

// Summary returns one row per entry in the window, each holding its receipt time.
func (uc *SummaryUseCase) Summary(ctx context.Context, priority uint32) (*domain.ResultSet, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Summary", trace.WithAttributes(
		attribute.Int("journal.min_priority", int(priority)),
	))
	defer span.End()

	q := uc.Query(priority)
	start := time.Now()
	rs, err := uc.run(q)
	rows := 0
	if rs != nil {
		rows = len(rs.Rows)
	}
	uc.obs.done(ctx, span, &q, rows, err, time.Since(start))
	return rs, err
}

func (uc *SummaryUseCase) run(q domain.QuerySpec) (*domain.ResultSet, error) {
	store, err := uc.open(uc.opts)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", domain.NewStoreError("open", err))
	}
	defer closeStore(store, uc.obs.logger)

	return Traverse(store, q, uc.obs.logger, uc.obs.metrics)
}

// Histogram counts the rows of rs in fixed buckets of interval, using the
// __REALTIME column. Points are ordered by time. Rows whose timestamp cannot
// be parsed are ignored.
func Histogram(rs *domain.ResultSet, interval time.Duration) ([]domain.HistogramPoint, error) {
	step := interval.Microseconds()
	if step <= 0 {
		return nil, fmt.Errorf("%w: histogram interval must be at least one microsecond", domain.ErrInvalidQuery)
	}

	col := -1
	for i, h := range rs.Headers {
		if h == domain.FieldRealtime {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: result has no %s column", domain.ErrInvalidQuery, domain.FieldRealtime)
	}

	buckets := make(map[int64]int)
	for _, row := range rs.Rows {
		ts, err := strconv.ParseInt(row[col], 10, 64)
		if err != nil {
			continue
		}
		buckets[(ts/step)*step]++
	}

	points := make([]domain.HistogramPoint, 0, len(buckets))
	for t, c := range buckets {
		points = append(points, domain.HistogramPoint{Time: t, Count: c})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Time < points[j].Time
	})
	return points, nil
}
