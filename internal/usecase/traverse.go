package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"syscall"

	"github.com/V4T54L/journalview/internal/adapter/metrics"
	"github.com/V4T54L/journalview/internal/domain"
)

// maxPreallocRows caps the row capacity reserved up front for large limits.
const maxPreallocRows = 10000

// Termination is the reason a traversal stopped.
type Termination int

const (
	// Exhausted means no older matching entry remained.
	Exhausted Termination = iota
	// LimitReached means the row limit was hit.
	LimitReached
	// BoundReached means the lower time bound was crossed.
	BoundReached
)

func (t Termination) String() string {
	switch t {
	case Exhausted:
		return "exhausted"
	case LimitReached:
		return "limit_reached"
	case BoundReached:
		return "bound_reached"
	}
	return "unknown"
}

// traversal walks one store from newest to oldest, collecting the rows of a single query.
type traversal struct {
	store   domain.JournalStore
	q       domain.QuerySpec
	logger  *slog.Logger
	metrics *metrics.QueryMetrics
}

// Traverse applies q to store and collects matching rows, newest first. The
// caller must hold exclusive use of store for the duration of the call.
func Traverse(store domain.JournalStore, q domain.QuerySpec, logger *slog.Logger, m *metrics.QueryMetrics) (*domain.ResultSet, error) {
	t := &traversal{store: store, q: q, logger: logger, metrics: m}
	rs, _, err := t.run()
	return rs, err
}

func (t *traversal) run() (*domain.ResultSet, Termination, error) {
	if rejected := ApplyFilters(t.store, CompileFilters(t.q), t.logger); rejected > 0 && t.metrics != nil {
		t.metrics.MatchErrors.Add(float64(rejected))
	}

	if t.q.ResetPosition {
		if err := t.store.SeekTail(); err != nil {
			return nil, Exhausted, fmt.Errorf("seek to newest entry: %w", domain.NewStoreError("seek_tail", err))
		}
		if t.q.DateLessThan > 0 {
			if err := t.store.SeekRealtime(t.q.DateLessThan); err != nil {
				return nil, Exhausted, fmt.Errorf("seek to upper bound: %w", domain.NewStoreError("seek_realtime_usec", err))
			}
		}
	}

	rs := domain.NewResultSet(t.q.Fields, int(min(t.q.Limit, maxPreallocRows)))
	term := strings.ToLower(t.q.QuickSearch)
	var watermark uint64

	for {
		more, err := t.store.Previous()
		if err != nil {
			return nil, Exhausted, fmt.Errorf("move to previous entry: %w", domain.NewStoreError("previous", err))
		}
		if !more {
			return t.finish(rs, Exhausted, watermark)
		}

		if ts, ok := t.entryTimestamp(); ok {
			watermark = ts
		}

		if term != "" && !t.messageContains(term) {
			continue
		}

		if t.q.Limit > 0 && uint64(len(rs.Rows)) >= t.q.Limit {
			// Leave the cursor on the last collected row so that a query
			// without a position reset resumes at the uncounted entry.
			if _, err := t.store.Next(); err != nil {
				t.logger.Warn("could not step back after limit", "error", err)
			}
			return t.finish(rs, LimitReached, watermark)
		}

		if t.q.DateMoreThan > 0 && t.q.DateMoreThan >= watermark {
			return t.finish(rs, BoundReached, watermark)
		}

		rs.Rows = append(rs.Rows, t.project())
	}
}

func (t *traversal) finish(rs *domain.ResultSet, reason Termination, watermark uint64) (*domain.ResultSet, Termination, error) {
	t.logger.Debug("traversal finished", "reason", reason.String(), "rows", len(rs.Rows), "watermark", watermark)
	return rs, reason, nil
}

// entryTimestamp returns the generation time of the current entry, falling
// back to its receipt time when no source timestamp was recorded.
func (t *traversal) entryTimestamp() (uint64, bool) {
	if raw, err := t.store.Field(domain.FieldSourceRealtimeTimestamp); err == nil {
		if ts, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return ts, true
		}
	}
	ts, err := t.store.RealtimeUsec()
	if err != nil {
		t.logger.Warn("could not read entry timestamp", "error", err)
		return 0, false
	}
	return ts, true
}

// messageContains reports whether the message of the current entry contains
// term, ignoring case. An unreadable message never matches.
func (t *traversal) messageContains(term string) bool {
	msg, err := t.store.Field(domain.FieldMessage)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(msg), term)
}

func (t *traversal) project() []string {
	row := make([]string, len(t.q.Fields))
	for i, field := range t.q.Fields {
		value, err := t.readField(field)
		if err != nil {
			t.fieldFailed(field, err)
			continue
		}
		row[i] = value
	}
	return row
}

func (t *traversal) readField(field string) (string, error) {
	if field == domain.FieldRealtime {
		ts, err := t.store.RealtimeUsec()
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(ts, 10), nil
	}
	return t.store.Field(field)
}

// fieldFailed records a cell that could not be read. Fields absent from an
// entry are routine and only logged at debug.
func (t *traversal) fieldFailed(field string, err error) {
	if errors.Is(err, syscall.ENOENT) {
		t.logger.Debug("field not present on entry", "field", field)
		return
	}
	t.logger.Warn("could not read field", "field", field, "error", err)
	if t.metrics != nil {
		t.metrics.FieldErrors.Inc()
	}
}
