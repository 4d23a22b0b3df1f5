package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/V4T54L/journalview/internal/domain"
)

// Schema creates the tables used by this package.
const Schema = `
CREATE TABLE IF NOT EXISTS api_keys (
	id         BIGSERIAL PRIMARY KEY,
	key_hash   TEXT NOT NULL UNIQUE,
	is_active  BOOLEAN NOT NULL DEFAULT true,
	expires_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS query_audit (
	id            BIGSERIAL PRIMARY KEY,
	operation     TEXT NOT NULL,
	units         TEXT[] NOT NULL DEFAULT '{}',
	boot_ids      TEXT[] NOT NULL DEFAULT '{}',
	pid           BIGINT NOT NULL DEFAULT 0,
	min_priority  INTEGER NOT NULL,
	quick_search  TEXT NOT NULL DEFAULT '',
	row_limit     BIGINT NOT NULL,
	rows_returned INTEGER NOT NULL,
	duration_ms   DOUBLE PRECISION NOT NULL,
	status        TEXT NOT NULL,
	error         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS query_audit_created_at_idx ON query_audit (created_at DESC);
`

// EnsureSchema creates missing tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const insertAuditQuery = `
	INSERT INTO query_audit (operation, units, boot_ids, pid, min_priority, quick_search, row_limit, rows_returned, duration_ms, status, error, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// QueryAuditRepository implements domain.QueryAuditRepository for PostgreSQL.
type QueryAuditRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewQueryAuditRepository creates a new PostgreSQL query audit repository.
func NewQueryAuditRepository(db *sql.DB, logger *slog.Logger) *QueryAuditRepository {
	return &QueryAuditRepository{db: db, logger: logger.With("component", "query_audit")}
}

// Record inserts one audit row.
func (r *QueryAuditRepository) Record(ctx context.Context, e domain.QueryAuditEntry) error {
	_, err := r.db.ExecContext(ctx, insertAuditQuery, auditArgs(e)...)
	if err != nil {
		return fmt.Errorf("insert query audit: %w", err)
	}
	return nil
}

func auditArgs(e domain.QueryAuditEntry) []any {
	units := e.Units
	if units == nil {
		units = []string{}
	}
	bootIDs := e.BootIDs
	if bootIDs == nil {
		bootIDs = []string{}
	}
	return []any{
		e.Operation,
		pq.Array(units),
		pq.Array(bootIDs),
		int64(e.PID),
		int64(e.MinPriority),
		e.QuickSearch,
		int64(e.Limit),
		e.RowsReturned,
		float64(e.Duration.Microseconds()) / 1000,
		e.Status,
		e.Error,
		e.CreatedAt,
	}
}
