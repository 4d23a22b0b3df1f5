package redact

import (
	"log/slog"
	"strings"

	"github.com/V4T54L/journalview/internal/domain"
)

const RedactedPlaceholder = "[REDACTED]"

// Redactor blanks out configured journal fields in query results.
type Redactor struct {
	fieldsToRedact map[string]struct{} // Use a map for O(1) lookups
	logger         *slog.Logger
}

// NewRedactor creates a new Redactor for the given field names. Blank names are ignored.
func NewRedactor(fields []string, logger *slog.Logger) *Redactor {
	fieldSet := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		fieldSet[field] = struct{}{}
	}
	return &Redactor{
		fieldsToRedact: fieldSet,
		logger:         logger.With("component", "redactor"),
	}
}

// Enabled reports whether any field is configured for redaction. A nil Redactor is disabled.
func (r *Redactor) Enabled() bool {
	return r != nil && len(r.fieldsToRedact) > 0
}

// RedactResultSet replaces redacted columns of rs in place and returns the number of cells changed.
func (r *Redactor) RedactResultSet(rs *domain.ResultSet) int {
	if !r.Enabled() || rs == nil {
		return 0
	}

	var cols []int
	for i, h := range rs.Headers {
		if _, ok := r.fieldsToRedact[h]; ok {
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		return 0
	}

	changed := 0
	for _, row := range rs.Rows {
		for _, c := range cols {
			if c < len(row) && row[c] != "" {
				row[c] = RedactedPlaceholder
				changed++
			}
		}
	}
	if changed > 0 {
		r.logger.Debug("redacted result cells", "cells", changed, "rows", len(rs.Rows))
	}
	return changed
}

// RedactRecord replaces redacted values of rec in place and returns the number of values changed.
func (r *Redactor) RedactRecord(rec *domain.FullRecord) int {
	if !r.Enabled() || rec == nil {
		return 0
	}

	changed := 0
	for i, h := range rec.Headers {
		if _, ok := r.fieldsToRedact[h]; ok && i < len(rec.Values) {
			rec.Values[i] = RedactedPlaceholder
			changed++
		}
	}
	if changed > 0 {
		r.logger.Debug("redacted record fields", "fields", changed)
	}
	return changed
}
