package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/V4T54L/journalview/internal/domain"
	"github.com/V4T54L/journalview/internal/usecase"
)

// splitList parses a comma-separated parameter. Blank items are dropped.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseUint32(raw string, def uint32) (uint32, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func parseUint64(raw string, def uint64) (uint64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}

func parseLogsRequest(params url.Values) (usecase.LogsRequest, error) {
	priority, err := parseUint32(params.Get("priority"), domain.DefaultMinimumPriority)
	if err != nil {
		return usecase.LogsRequest{}, fmt.Errorf("invalid priority %q", params.Get("priority"))
	}
	limit, err := parseUint64(params.Get("limit"), domain.DefaultLimit)
	if err != nil {
		return usecase.LogsRequest{}, fmt.Errorf("invalid limit %q", params.Get("limit"))
	}
	reset := true
	if raw := params.Get("reset"); raw != "" {
		reset, err = strconv.ParseBool(raw)
		if err != nil {
			return usecase.LogsRequest{}, fmt.Errorf("invalid reset %q", raw)
		}
	}

	return usecase.LogsRequest{
		Fields:        splitList(params.Get("fields")),
		Priority:      priority,
		Limit:         limit,
		QuickSearch:   params.Get("q"),
		ResetPosition: reset,
		Services:      splitList(params.Get("services")),
		Transports:    splitList(params.Get("transports")),
		DatetimeFrom:  params.Get("from"),
		DatetimeTo:    params.Get("to"),
		BootIDs:       splitList(params.Get("boots")),
	}, nil
}
