package domain

import "time"

// QueryAuditEntry describes one executed journal query.
type QueryAuditEntry struct {
	Operation    string
	Units        []string
	BootIDs      []string
	PID          uint32
	MinPriority  uint32
	QuickSearch  string
	Limit        uint64
	RowsReturned int
	Duration     time.Duration
	Status       string
	Error        string
	CreatedAt    time.Time
}

// Audit statuses.
const (
	AuditStatusOK       = "ok"
	AuditStatusNotFound = "not_found"
	AuditStatusError    = "error"
)
