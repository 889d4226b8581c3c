package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sukhirthan10/expense-tracker/internal/api/metrics"
	"github.com/Sukhirthan10/expense-tracker/internal/core/domain"
)

const listTTL = 5 * time.Minute

// ListCache caches per-owner expense lists in Redis.
// Key format: expenses:<owner_id>. Entries expire after listTTL and are
// deleted synchronously whenever the owner's ledger changes, so one owner's
// records are never visible under another owner's key and a read after a
// mutation falls through to the store.
type ListCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewListCache creates a ListCache wrapping the given Redis client.
func NewListCache(client *redis.Client, log zerolog.Logger) *ListCache {
	return &ListCache{client: client, log: log}
}

// Get returns the cached list for ownerID. Cache errors are logged and
// reported as a miss; the caller falls back to the store.
func (c *ListCache) Get(ctx context.Context, ownerID string) ([]*domain.Expense, bool) {
	raw, err := c.client.Get(ctx, c.key(ownerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("owner_id", ownerID).Msg("expense cache read failed")
		}
		metrics.ListCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var expenses []*domain.Expense
	if err := json.Unmarshal(raw, &expenses); err != nil {
		c.log.Warn().Err(err).Str("owner_id", ownerID).Msg("expense cache entry corrupt")
		metrics.ListCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.ListCacheTotal.WithLabelValues("hit").Inc()
	return expenses, true
}

// Set stores the owner's list with a bounded TTL. Failures are logged only;
// caching is best effort.
func (c *ListCache) Set(ctx context.Context, ownerID string, expenses []*domain.Expense) {
	raw, err := json.Marshal(expenses)
	if err != nil {
		c.log.Warn().Err(err).Str("owner_id", ownerID).Msg("expense cache encode failed")
		return
	}
	if err := c.client.Set(ctx, c.key(ownerID), raw, listTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("owner_id", ownerID).Msg("expense cache write failed")
	}
}

// Invalidate drops the owner's cached list.
func (c *ListCache) Invalidate(ctx context.Context, ownerID string) {
	if err := c.client.Del(ctx, c.key(ownerID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("owner_id", ownerID).Msg("expense cache invalidation failed")
	}
}

func (c *ListCache) key(ownerID string) string {
	return "expenses:" + ownerID
}
