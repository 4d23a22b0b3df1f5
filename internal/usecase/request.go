package usecase

import (
	"fmt"
	"time"

	"github.com/V4T54L/journalview/internal/domain"
)

// LogsRequest is a list query as received from a client.
type LogsRequest struct {
	Fields        []string
	Priority      uint32
	Limit         uint64
	QuickSearch   string
	ResetPosition bool
	Services      []string
	Transports    []string
	// DatetimeFrom and DatetimeTo are RFC 3339 timestamps. Values that do not
	// parse, or lie before 1970, are ignored.
	DatetimeFrom string
	DatetimeTo   string
	BootIDs      []string
}

// RequestTranslator turns client requests into query specs.
type RequestTranslator struct {
	// MaxLimit rejects requests asking for more rows, or for no limit at all.
	// Zero disables the check.
	MaxLimit uint64
	// UpperBoundSlack is added to now when no DatetimeTo is given.
	UpperBoundSlack time.Duration
	Now             func() time.Time
}

// NewRequestTranslator creates a new RequestTranslator.
func NewRequestTranslator(maxLimit uint64, slack time.Duration) *RequestTranslator {
	return &RequestTranslator{MaxLimit: maxLimit, UpperBoundSlack: slack, Now: time.Now}
}

// Translate builds the QuerySpec for req. Selecting InitUnit among the
// services turns into a pid 1 filter.
func (t *RequestTranslator) Translate(req LogsRequest) (domain.QuerySpec, error) {
	if t.MaxLimit > 0 {
		if req.Limit == 0 {
			return domain.QuerySpec{}, fmt.Errorf("%w: an unlimited query exceeds maximum %d", domain.ErrInvalidQuery, t.MaxLimit)
		}
		if req.Limit > t.MaxLimit {
			return domain.QuerySpec{}, fmt.Errorf("%w: limit %d exceeds maximum %d", domain.ErrInvalidQuery, req.Limit, t.MaxLimit)
		}
	}
	for _, tr := range req.Transports {
		if !domain.IsTransport(tr) {
			return domain.QuerySpec{}, fmt.Errorf("%w: unknown transport %q", domain.ErrInvalidQuery, tr)
		}
	}

	units, initSelected := SplitInitUnit(req.Services)

	b := domain.NewQueryBuilder().
		WithLimit(req.Limit).
		WithQuickSearch(req.QuickSearch).
		ResetPosition(req.ResetPosition).
		WithPriorityAboveOrEqualTo(req.Priority).
		WithUnits(units).
		WithBootIDs(req.BootIDs)
	if len(req.Fields) > 0 {
		b.WithFields(req.Fields)
	}
	if len(req.Transports) > 0 {
		b.WithTransports(req.Transports)
	}
	if initSelected {
		b.WithPID(1)
	}

	if from, ok := parseInstant(req.DatetimeFrom); ok {
		b.WithDateMoreThan(from)
	}
	if to, ok := parseInstant(req.DatetimeTo); ok {
		b.WithDateLessThan(to)
	} else {
		now := time.Now
		if t.Now != nil {
			now = t.Now
		}
		b.WithDateLessThan(uint64(now().Add(t.UpperBoundSlack).UnixMicro()))
	}

	return b.Build(), nil
}

// parseInstant converts an RFC 3339 time to microseconds since the epoch.
// Times before the epoch cannot be represented and are treated as unset.
func parseInstant(raw string) (uint64, bool) {
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil || ts.UnixMicro() < 0 {
		return 0, false
	}
	return uint64(ts.UnixMicro()), true
}
