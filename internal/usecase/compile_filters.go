package usecase

import (
	"log/slog"
	"strconv"

	"github.com/V4T54L/journalview/internal/domain"
)

// Dimension is one independent filter axis of a query.
type Dimension int

// Dimensions in the order their matches are issued.
const (
	DimensionPID Dimension = iota
	DimensionPriority
	DimensionUnit
	DimensionSlice
	DimensionBoot
	DimensionTransport
)

var dimensionOrder = []Dimension{
	DimensionPID,
	DimensionPriority,
	DimensionUnit,
	DimensionSlice,
	DimensionBoot,
	DimensionTransport,
}

// Field returns the journal field a dimension matches on.
func (d Dimension) Field() string {
	switch d {
	case DimensionPID:
		return domain.FieldPID
	case DimensionPriority:
		return domain.FieldPriority
	case DimensionUnit:
		return domain.FieldSystemdUnit
	case DimensionSlice:
		return domain.FieldSystemdSlice
	case DimensionBoot:
		return domain.FieldBootID
	case DimensionTransport:
		return domain.FieldTransport
	}
	return ""
}

// Filters maps each dimension to the values any of which an entry may carry.
type Filters map[Dimension][]string

// MatchGroup is the set of alternative values for one field.
type MatchGroup struct {
	Field  string
	Values []string
}

// FilterPlan is the ordered list of match groups for one query. Values in
// a group are OR-ed, and groups are AND-ed.
type FilterPlan struct {
	Groups []MatchGroup
}

// Matches returns the "FIELD=value" predicates in the order they are applied.
func (p FilterPlan) Matches() []string {
	var out []string
	for _, g := range p.Groups {
		for _, v := range g.Values {
			out = append(out, g.Field+"="+v)
		}
	}
	return out
}

// FiltersFromSpec extracts the filter dimensions of q. Severity is an
// exact-match field, so the minimum priority expands to every level from 0 to it.
func FiltersFromSpec(q domain.QuerySpec) Filters {
	f := make(Filters)
	if q.PID > 0 {
		f[DimensionPID] = []string{strconv.FormatUint(uint64(q.PID), 10)}
	}

	maxPriority := min(q.MinimumPriority, domain.MaxPriority)
	priorities := make([]string, 0, maxPriority+1)
	for p := uint32(0); p <= maxPriority; p++ {
		priorities = append(priorities, strconv.FormatUint(uint64(p), 10))
	}
	f[DimensionPriority] = priorities

	if len(q.Units) > 0 {
		f[DimensionUnit] = q.Units
	}
	if q.Slice != "" {
		f[DimensionSlice] = []string{q.Slice}
	}
	if len(q.BootIDs) > 0 {
		f[DimensionBoot] = q.BootIDs
	}
	if len(q.Transports) > 0 {
		f[DimensionTransport] = q.Transports
	}
	return f
}

// Compile orders f into a FilterPlan. The output depends only on the
// contents of f. Empty and repeated values are dropped.
func Compile(f Filters) FilterPlan {
	var plan FilterPlan
	for _, d := range dimensionOrder {
		values := f[d]
		seen := make(map[string]struct{}, len(values))
		group := MatchGroup{Field: d.Field()}
		for _, v := range values {
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			group.Values = append(group.Values, v)
		}
		if len(group.Values) > 0 {
			plan.Groups = append(plan.Groups, group)
		}
	}
	return plan
}

// CompileFilters is Compile(FiltersFromSpec(q)).
func CompileFilters(q domain.QuerySpec) FilterPlan {
	return Compile(FiltersFromSpec(q))
}

// ApplyFilters replaces the store's matches with plan. Values within a group
// are issued back to back, and no disjunction is ever inserted, so the
// store's default grouping ANDs the fields together. A rejected predicate is
// logged and skipped. It returns the number of rejected predicates.
func ApplyFilters(store domain.JournalStore, plan FilterPlan, logger *slog.Logger) int {
	store.FlushMatches()

	rejected := 0
	for _, m := range plan.Matches() {
		if err := store.AddMatch(m); err != nil {
			rejected++
			logger.Warn("could not apply filter", "match", m, "error", err)
		}
	}
	return rejected
}
