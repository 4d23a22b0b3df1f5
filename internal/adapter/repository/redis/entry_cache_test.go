package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/journalview/internal/domain"
)

func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestEntryKey(t *testing.T) {
	if got := entryKey(1700000000000000); got != "journalview:entry:1700000000000000" {
		t.Errorf("entryKey = %q", got)
	}
}

func TestEntryCache_Unreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := unreachableClient()
	defer client.Close()

	cache := NewEntryCache(client, time.Minute, logger)
	ctx := context.Background()

	if _, _, err := cache.Get(ctx, 1); err == nil {
		t.Fatal("expected an error from an unreachable Redis, got nil")
	}
	if cache.Available() {
		t.Fatal("expected cache to be marked unavailable")
	}

	rec, ok, err := cache.Get(ctx, 1)
	if err != nil || ok || rec != nil {
		t.Errorf("expected a silent miss while unavailable, got %v %v %v", rec, ok, err)
	}
	if err := cache.Set(ctx, 1, &domain.FullRecord{}); err != nil {
		t.Errorf("expected Set to be skipped while unavailable, got %v", err)
	}

	cache.checkHealth(ctx)
	if cache.Available() {
		t.Error("expected cache to stay unavailable while ping fails")
	}
}
