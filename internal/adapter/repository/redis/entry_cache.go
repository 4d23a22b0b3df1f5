package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/journalview/internal/domain"
)

const entryKeyPrefix = "journalview:entry:"

// EntryCache implements domain.EntryCache with Redis string keys. Journal
// entries never change once written, so records are cached until the TTL
// runs out. While Redis is unreachable every lookup is a miss.
type EntryCache struct {
	client      *redis.Client
	ttl         time.Duration
	logger      *slog.Logger
	isAvailable atomic.Bool
}

// NewEntryCache creates a new Redis-backed EntryCache.
func NewEntryCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *EntryCache {
	c := &EntryCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "entry_cache"),
	}
	c.isAvailable.Store(true) // Assume available initially
	return c
}

func entryKey(timestamp uint64) string {
	return entryKeyPrefix + strconv.FormatUint(timestamp, 10)
}

// Available reports whether the last Redis call succeeded.
func (c *EntryCache) Available() bool {
	return c.isAvailable.Load()
}

// Get returns the cached record for timestamp.
func (c *EntryCache) Get(ctx context.Context, timestamp uint64) (*domain.FullRecord, bool, error) {
	if !c.isAvailable.Load() {
		return nil, false, nil
	}

	data, err := c.client.Get(ctx, entryKey(timestamp)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.markFailure(err)
		return nil, false, fmt.Errorf("get cached entry: %w", err)
	}

	var rec domain.FullRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("decode cached entry: %w", err)
	}
	return &rec, true, nil
}

// Set stores rec under timestamp.
func (c *EntryCache) Set(ctx context.Context, timestamp uint64, rec *domain.FullRecord) error {
	if !c.isAvailable.Load() {
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	if err := c.client.Set(ctx, entryKey(timestamp), data, c.ttl).Err(); err != nil {
		c.markFailure(err)
		return fmt.Errorf("cache entry: %w", err)
	}
	return nil
}

func (c *EntryCache) markFailure(err error) {
	if isNetworkError(err) && c.isAvailable.CompareAndSwap(true, false) {
		c.logger.Error("Redis connection lost, entry cache disabled", "error", err)
	}
}

// StartHealthCheck pings Redis every interval and re-enables the cache once it answers again.
func (c *EntryCache) StartHealthCheck(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.Info("Starting Redis health check")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping Redis health check")
			return
		case <-ticker.C:
			c.checkHealth(ctx)
		}
	}
}

func (c *EntryCache) checkHealth(ctx context.Context) {
	err := c.client.Ping(ctx).Err()
	if err != nil {
		if c.isAvailable.CompareAndSwap(true, false) {
			c.logger.Error("Redis connection lost", "error", err)
		}
		return
	}
	if c.isAvailable.CompareAndSwap(false, true) {
		c.logger.Info("Redis connection recovered")
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) || errors.Is(err, context.DeadlineExceeded)
}
