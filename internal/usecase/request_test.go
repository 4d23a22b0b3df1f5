package usecase

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/V4T54L/journalview/internal/domain"
)

func TestRequestTranslator_Translate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := &RequestTranslator{MaxLimit: 1000, UpperBoundSlack: 24 * time.Hour, Now: func() time.Time { return now }}

	t.Run("Init Unit Becomes PID Filter", func(t *testing.T) {
		q, err := tr.Translate(LogsRequest{Limit: 10, Services: []string{InitUnit, "nginx", InitUnit}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q.PID != 1 {
			t.Errorf("PID = %d, want 1", q.PID)
		}
		if !slices.Equal(q.Units, []string{"nginx.service"}) {
			t.Errorf("Units = %v", q.Units)
		}
	})

	t.Run("Without Init Unit", func(t *testing.T) {
		q, err := tr.Translate(LogsRequest{Limit: 10, Services: []string{"sshd.service"}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q.PID != 0 {
			t.Errorf("PID = %d, want 0", q.PID)
		}
	})

	t.Run("Time Bounds", func(t *testing.T) {
		q, err := tr.Translate(LogsRequest{Limit: 10, DatetimeFrom: "2026-03-01T10:00:00Z", DatetimeTo: "2026-03-01T11:00:00+01:00"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if want := uint64(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC).UnixMicro()); q.DateMoreThan != want {
			t.Errorf("DateMoreThan = %d, want %d", q.DateMoreThan, want)
		}
		if want := uint64(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC).UnixMicro()); q.DateLessThan != want {
			t.Errorf("DateLessThan = %d, want %d", q.DateLessThan, want)
		}
	})

	t.Run("Missing Upper Bound Defaults To Slack", func(t *testing.T) {
		q, err := tr.Translate(LogsRequest{Limit: 10, DatetimeFrom: "yesterday"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q.DateMoreThan != 0 {
			t.Errorf("unparsable lower bound should be ignored, got %d", q.DateMoreThan)
		}
		if want := uint64(now.Add(24 * time.Hour).UnixMicro()); q.DateLessThan != want {
			t.Errorf("DateLessThan = %d, want %d", q.DateLessThan, want)
		}
	})

	t.Run("Defaults Kept For Empty Lists", func(t *testing.T) {
		q, err := tr.Translate(LogsRequest{Priority: 4, Limit: 10, ResetPosition: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !slices.Equal(q.Fields, domain.DefaultFields()) {
			t.Errorf("Fields = %v", q.Fields)
		}
		if !slices.Equal(q.Transports, domain.DefaultTransports()) {
			t.Errorf("Transports = %v", q.Transports)
		}
		if q.Limit != 10 || !q.ResetPosition {
			t.Errorf("Limit=%d ResetPosition=%v", q.Limit, q.ResetPosition)
		}
	})

	t.Run("Explicit Lists Replace Defaults", func(t *testing.T) {
		q, err := tr.Translate(LogsRequest{Limit: 10, Fields: []string{"MESSAGE"}, Transports: []string{"kernel"}, QuickSearch: "OOM"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !slices.Equal(q.Fields, []string{"MESSAGE"}) || !slices.Equal(q.Transports, []string{"kernel"}) {
			t.Errorf("Fields=%v Transports=%v", q.Fields, q.Transports)
		}
		if q.QuickSearch != "oom" {
			t.Errorf("QuickSearch = %q, want oom", q.QuickSearch)
		}
	})

	t.Run("Rejects Oversized Limit", func(t *testing.T) {
		for _, limit := range []uint64{1001, 0} {
			if _, err := tr.Translate(LogsRequest{Limit: limit}); !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("limit %d: expected ErrInvalidQuery, got %v", limit, err)
			}
		}
	})

	t.Run("Unlimited Without Maximum", func(t *testing.T) {
		open := &RequestTranslator{Now: func() time.Time { return now }}
		q, err := open.Translate(LogsRequest{Limit: 0})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q.Limit != 0 {
			t.Errorf("Limit = %d, want 0", q.Limit)
		}
	})

	t.Run("Pre-Epoch Bounds Are Ignored", func(t *testing.T) {
		q, err := tr.Translate(LogsRequest{Limit: 10, DatetimeFrom: "1960-01-01T00:00:00Z", DatetimeTo: "1969-12-31T23:59:59Z"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q.DateMoreThan != 0 {
			t.Errorf("DateMoreThan = %d, want 0", q.DateMoreThan)
		}
		if want := uint64(now.Add(24 * time.Hour).UnixMicro()); q.DateLessThan != want {
			t.Errorf("DateLessThan = %d, want %d", q.DateLessThan, want)
		}
	})

	t.Run("Rejects Unknown Transport", func(t *testing.T) {
		if _, err := tr.Translate(LogsRequest{Limit: 10, Transports: []string{"carrier-pigeon"}}); !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("expected ErrInvalidQuery, got %v", err)
		}
	})
}
