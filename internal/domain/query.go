package domain

import (
	"slices"
	"strings"
)

// Query defaults.
const (
	DefaultMinimumPriority uint32 = 4
	DefaultLimit           uint64 = 100
)

// QuerySpec is a fully configured journal query. Values are produced by
// QueryBuilder.Build and are not modified afterwards; the engine only reads them.
type QuerySpec struct {
	// PID restricts entries to one process. Zero means unset.
	PID uint32
	// Fields is the ordered projection. Row cells follow this order.
	Fields []string
	// MinimumPriority keeps entries with priority 0..MinimumPriority.
	MinimumPriority uint32
	Units           []string
	Slice           string
	BootIDs         []string
	// Limit caps the number of rows. Zero means unlimited.
	Limit      uint64
	Transports []string
	// QuickSearch is a lowercase substring the message must contain.
	QuickSearch string
	// DateLessThan is the upper time bound in microseconds since the epoch. Zero means unset.
	DateLessThan uint64
	// DateMoreThan is the lower time bound in microseconds since the epoch. Zero means unset.
	DateMoreThan uint64
	// ResetPosition moves the cursor to the newest entry before traversal.
	ResetPosition bool
}

// QueryBuilder stages a QuerySpec. It is not safe for concurrent use; Build
// hands out the staged spec and returns the builder to its defaults.
type QueryBuilder struct {
	spec QuerySpec
}

// NewQueryBuilder returns a builder holding the default query.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{spec: defaultSpec()}
}

func defaultSpec() QuerySpec {
	return QuerySpec{
		Fields:          DefaultFields(),
		MinimumPriority: DefaultMinimumPriority,
		Limit:           DefaultLimit,
		Transports:      DefaultTransports(),
		ResetPosition:   true,
	}
}

// WithDefaultFields restores the default projection.
func (b *QueryBuilder) WithDefaultFields() *QueryBuilder {
	b.spec.Fields = DefaultFields()
	return b
}

// WithFields replaces the projection.
func (b *QueryBuilder) WithFields(fields []string) *QueryBuilder {
	b.spec.Fields = slices.Clone(fields)
	return b
}

func (b *QueryBuilder) WithTransports(transports []string) *QueryBuilder {
	b.spec.Transports = slices.Clone(transports)
	return b
}

func (b *QueryBuilder) WithPID(pid uint32) *QueryBuilder {
	b.spec.PID = pid
	return b
}

func (b *QueryBuilder) WithLimit(limit uint64) *QueryBuilder {
	b.spec.Limit = limit
	return b
}

// WithQuickSearch sets the case-insensitive message filter.
func (b *QueryBuilder) WithQuickSearch(term string) *QueryBuilder {
	b.spec.QuickSearch = strings.ToLower(term)
	return b
}

func (b *QueryBuilder) ResetPosition(reset bool) *QueryBuilder {
	b.spec.ResetPosition = reset
	return b
}

// WithDateLessThan sets the upper time bound (microseconds since the epoch).
func (b *QueryBuilder) WithDateLessThan(usec uint64) *QueryBuilder {
	b.spec.DateLessThan = usec
	return b
}

// WithDateMoreThan sets the lower time bound (microseconds since the epoch).
func (b *QueryBuilder) WithDateMoreThan(usec uint64) *QueryBuilder {
	b.spec.DateMoreThan = usec
	return b
}

// WithPriorityAboveOrEqualTo keeps entries at least as severe as p.
// Values above MaxPriority are clamped.
func (b *QueryBuilder) WithPriorityAboveOrEqualTo(p uint32) *QueryBuilder {
	b.spec.MinimumPriority = min(p, MaxPriority)
	return b
}

// WithUnits sets the unit filter. Names without a type suffix are taken to be services.
func (b *QueryBuilder) WithUnits(units []string) *QueryBuilder {
	normalized := make([]string, 0, len(units))
	for _, u := range units {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if !strings.Contains(u, ".") {
			u += ".service"
		}
		normalized = append(normalized, u)
	}
	b.spec.Units = normalized
	return b
}

func (b *QueryBuilder) WithinSlice(slice string) *QueryBuilder {
	b.spec.Slice = slice
	return b
}

func (b *QueryBuilder) WithBootIDs(bootIDs []string) *QueryBuilder {
	b.spec.BootIDs = slices.Clone(bootIDs)
	return b
}

// Build returns the staged query and resets the builder to defaults.
func (b *QueryBuilder) Build() QuerySpec {
	spec := b.spec
	b.spec = defaultSpec()
	return spec
}
