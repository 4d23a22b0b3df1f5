package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/V4T54L/journalview/internal/adapter/redact"
	"github.com/V4T54L/journalview/internal/domain"
	"github.com/V4T54L/journalview/internal/usecase"
)

// DefaultHistogramInterval is the summary bucket width used when none is requested.
const DefaultHistogramInterval = time.Hour

// LogLister runs list queries.
type LogLister interface {
	List(ctx context.Context, q domain.QuerySpec) (*domain.ResultSet, error)
}

// EntryFetcher materializes single entries.
type EntryFetcher interface {
	FetchFull(ctx context.Context, timestamp uint64) (*domain.FullRecord, error)
}

// Summarizer produces the recent-activity summary.
type Summarizer interface {
	Summary(ctx context.Context, priority uint32) (*domain.ResultSet, error)
}

// Catalog lists services and boots.
type Catalog interface {
	ListServices(ctx context.Context) ([]domain.Unit, error)
	ListBoots(ctx context.Context) ([]domain.Boot, error)
}

// SummaryResponse is the body of GET /api/v1/summary.
type SummaryResponse struct {
	Entries   *domain.ResultSet       `json:"entries"`
	Histogram []domain.HistogramPoint `json:"histogram"`
}

// JournalHandler serves the journal query API.
type JournalHandler struct {
	logs       LogLister
	entries    EntryFetcher
	summary    Summarizer
	catalog    Catalog
	translator *usecase.RequestTranslator
	redactor   *redact.Redactor
	logger     *slog.Logger
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(
	logs LogLister,
	entries EntryFetcher,
	summary Summarizer,
	catalog Catalog,
	translator *usecase.RequestTranslator,
	redactor *redact.Redactor,
	logger *slog.Logger,
) *JournalHandler {
	return &JournalHandler{
		logs:       logs,
		entries:    entries,
		summary:    summary,
		catalog:    catalog,
		translator: translator,
		redactor:   redactor,
		logger:     logger.With("component", "journal_handler"),
	}
}

// ListLogs handles GET /api/v1/logs.
func (h *JournalHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	req, err := parseLogsRequest(r.URL.Query())
	if err != nil {
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return
	}

	q, err := h.translator.Translate(req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rs, err := h.logs.List(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.redactor.RedactResultSet(rs)
	h.writeJSON(w, rs)
}

// GetEntry handles GET /api/v1/entries/{timestamp}.
func (h *JournalHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	timestamp, err := strconv.ParseUint(chi.URLParam(r, "timestamp"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request: timestamp must be microseconds since the epoch", http.StatusBadRequest)
		return
	}

	rec, err := h.entries.FetchFull(r.Context(), timestamp)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.redactor.RedactRecord(rec)
	h.writeJSON(w, rec)
}

// Summary handles GET /api/v1/summary.
func (h *JournalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	priority, err := parseUint32(params.Get("priority"), domain.DefaultMinimumPriority)
	if err != nil {
		http.Error(w, "Bad Request: invalid priority", http.StatusBadRequest)
		return
	}
	interval := DefaultHistogramInterval
	if raw := params.Get("interval"); raw != "" {
		interval, err = time.ParseDuration(raw)
		if err != nil || interval <= 0 {
			http.Error(w, "Bad Request: invalid interval", http.StatusBadRequest)
			return
		}
	}

	rs, err := h.summary.Summary(r.Context(), priority)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	points, err := usecase.Histogram(rs, interval)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, SummaryResponse{Entries: rs, Histogram: points})
}

// ListServices handles GET /api/v1/services.
func (h *JournalHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	units, err := h.catalog.ListServices(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, units)
}

// ListBoots handles GET /api/v1/boots.
func (h *JournalHandler) ListBoots(w http.ResponseWriter, r *http.Request) {
	boots, err := h.catalog.ListBoots(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if boots == nil {
		boots = []domain.Boot{}
	}
	h.writeJSON(w, boots)
}

func (h *JournalHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *JournalHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidQuery):
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.Error("journal unavailable", "path", r.URL.Path, "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
