package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/V4T54L/journalview/internal/adapter/metrics"
)

type cacheEntry struct {
	isValid   bool
	expiresAt time.Time
}

// keyLookup reports whether an active, unexpired key with the given hash exists.
type keyLookup func(ctx context.Context, keyHash string) (bool, error)

// APIKeyRepository implements the domain.APIKeyRepository interface using PostgreSQL
// as the source of truth and an in-memory, time-based cache. Keys are stored
// as hex-encoded SHA-256 hashes.
type APIKeyRepository struct {
	lookup   keyLookup
	logger   *slog.Logger
	cache    map[string]cacheEntry
	mu       sync.RWMutex
	cacheTTL time.Duration
	metrics  *metrics.QueryMetrics
	now      func() time.Time
}

// NewAPIKeyRepository creates a new instance of the PostgreSQL API key repository.
func NewAPIKeyRepository(db *sql.DB, logger *slog.Logger, cacheTTL time.Duration, m *metrics.QueryMetrics) *APIKeyRepository {
	lookup := func(ctx context.Context, keyHash string) (bool, error) {
		var isValid bool
		// A key is valid if it exists, is active, and has not expired.
		query := `SELECT EXISTS(SELECT 1 FROM api_keys WHERE key_hash = $1 AND is_active = true AND (expires_at IS NULL OR expires_at > NOW()))`
		err := db.QueryRowContext(ctx, query, keyHash).Scan(&isValid)
		return isValid, err
	}
	return newAPIKeyRepository(lookup, logger, cacheTTL, m)
}

func newAPIKeyRepository(lookup keyLookup, logger *slog.Logger, cacheTTL time.Duration, m *metrics.QueryMetrics) *APIKeyRepository {
	return &APIKeyRepository{
		lookup:   lookup,
		logger:   logger.With("component", "apikey_repository"),
		cache:    make(map[string]cacheEntry),
		cacheTTL: cacheTTL,
		metrics:  m,
		now:      time.Now,
	}
}

// HashKey returns the stored form of an API key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// IsValid checks if an API key is valid. It first checks a local cache and falls
// back to the database if the key is not found or the cache entry has expired.
func (r *APIKeyRepository) IsValid(ctx context.Context, key string) (bool, error) {
	keyHash := HashKey(key)

	r.mu.RLock()
	entry, found := r.cache[keyHash]
	r.mu.RUnlock()

	if found && r.now().Before(entry.expiresAt) {
		if r.metrics != nil {
			r.metrics.APIKeyCacheHits.Inc()
		}
		return entry.isValid, nil
	}

	if r.metrics != nil {
		r.metrics.APIKeyCacheMisses.Inc()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have filled the entry while we waited for the lock.
	entry, found = r.cache[keyHash]
	if found && r.now().Before(entry.expiresAt) {
		return entry.isValid, nil
	}

	isValid, err := r.lookup(ctx, keyHash)
	if err != nil {
		r.logger.Error("failed to validate API key in database", "error", err)
		// Errors are not cached so the next request retries.
		return false, err
	}

	r.cache[keyHash] = cacheEntry{
		isValid:   isValid,
		expiresAt: r.now().Add(r.cacheTTL),
	}

	return isValid, nil
}
