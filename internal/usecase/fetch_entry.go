package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/V4T54L/journalview/internal/adapter/metrics"
	"github.com/V4T54L/journalview/internal/domain"
)

var errNoReadableFields = errors.New("entry has no readable fields")

// FetchEntryUseCase materializes single entries, each on its own short-lived store.
type FetchEntryUseCase struct {
	open  domain.StoreOpener
	opts  domain.OpenOptions
	cache domain.EntryCache
	obs   observer
}

// NewFetchEntryUseCase creates a new FetchEntryUseCase. cache and m may be nil.
func NewFetchEntryUseCase(open domain.StoreOpener, opts domain.OpenOptions, cache domain.EntryCache, logger *slog.Logger, m *metrics.QueryMetrics) *FetchEntryUseCase {
	return &FetchEntryUseCase{
		open:  open,
		opts:  opts,
		cache: cache,
		obs:   observer{operation: OperationFetchFull, logger: logger.With("component", "entry_materializer"), metrics: m},
	}
}

// FetchFull returns every field of the entry received at timestamp
// (microseconds since the epoch). It returns domain.ErrEntryNotFound when
// there is no such entry.
func (uc *FetchEntryUseCase) FetchFull(ctx context.Context, timestamp uint64) (*domain.FullRecord, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "FetchFull", trace.WithAttributes(
		attribute.Int64("journal.timestamp", int64(timestamp)),
	))
	defer span.End()

	start := time.Now()
	rec, err := uc.fetch(ctx, timestamp)
	uc.obs.done(ctx, span, nil, 0, err, time.Since(start))
	return rec, err
}

func (uc *FetchEntryUseCase) fetch(ctx context.Context, timestamp uint64) (*domain.FullRecord, error) {
	if rec, ok := uc.cached(ctx, timestamp); ok {
		return rec, nil
	}

	store, err := uc.open(uc.opts)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", domain.NewStoreError("open", err))
	}
	defer closeStore(store, uc.obs.logger)

	rec, err := Materialize(store, timestamp)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, timestamp, rec); err != nil {
			uc.obs.logger.Warn("failed to cache entry", "timestamp", timestamp, "error", err)
		}
	}
	return rec, nil
}

func (uc *FetchEntryUseCase) cached(ctx context.Context, timestamp uint64) (*domain.FullRecord, bool) {
	if uc.cache == nil {
		return nil, false
	}
	rec, ok, err := uc.cache.Get(ctx, timestamp)
	if err != nil {
		uc.obs.logger.Warn("entry cache lookup failed", "timestamp", timestamp, "error", err)
		return nil, false
	}
	if uc.obs.metrics != nil {
		if ok {
			uc.obs.metrics.EntryCacheHits.Inc()
		} else {
			uc.obs.metrics.EntryCacheMisses.Inc()
		}
	}
	return rec, ok
}

// Materialize reads every field of the entry received at timestamp. Fields
// that are too large or use an unsupported encoding are left out.
func Materialize(store domain.JournalStore, timestamp uint64) (*domain.FullRecord, error) {
	store.FlushMatches()
	if err := store.SeekRealtime(timestamp); err != nil {
		return nil, fmt.Errorf("seek to entry: %w", domain.NewStoreError("seek_realtime_usec", err))
	}

	found, err := store.Previous()
	if err != nil {
		return nil, fmt.Errorf("move to entry: %w", domain.NewStoreError("previous", err))
	}
	if !found {
		return nil, domain.ErrEntryNotFound
	}
	at, err := store.RealtimeUsec()
	if err != nil {
		return nil, fmt.Errorf("read entry timestamp: %w", domain.NewStoreError("get_realtime_usec", err))
	}
	if at != timestamp {
		return nil, domain.ErrEntryNotFound
	}

	rec := &domain.FullRecord{}
	store.RestartFields()
	for {
		name, value, err := store.EnumerateField()
		if errors.Is(err, domain.ErrEndOfData) {
			break
		}
		if err != nil {
			if domain.IsSkippableField(err) {
				continue
			}
			return nil, fmt.Errorf("read entry fields: %w", domain.NewStoreError("enumerate_data", err))
		}
		if name == "" {
			continue
		}
		rec.Headers = append(rec.Headers, name)
		rec.Values = append(rec.Values, value)
	}
	if len(rec.Headers) == 0 {
		return nil, fmt.Errorf("read entry fields: %w", &domain.StoreError{Op: "enumerate_data", Code: domain.CodeInternal, Err: errNoReadableFields})
	}
	return rec, nil
}

func closeStore(store domain.JournalStore, logger *slog.Logger) {
	if err := store.Close(); err != nil {
		logger.Warn("failed to close journal", "error", err)
	}
}
