// Package cache provides the Redis-backed listing cache. Listing responses
// are cached per catalog and query with a TTL; writes invalidate the whole
// catalog's listings rather than chasing individual keys.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hatbazar/hatbazar/internal/catalog"
)

// New creates a Redis client and verifies the server is reachable.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping: %w", err)
	}

	return client, nil
}

// Listing caches catalog pages. A nil *Listing is valid and caches nothing,
// so callers wired without Redis need no branching.
type Listing struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewListing creates a listing cache with the given entry TTL.
func NewListing(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *Listing {
	return &Listing{rdb: rdb, ttl: ttl, logger: logger}
}

// Key derives a deterministic cache key from the catalog name and the parsed
// query. Two requests that parse to the same Query share a key regardless of
// raw parameter order.
func Key(catalogName string, q catalog.Query) string {
	var b strings.Builder
	b.WriteString("listing:")
	b.WriteString(catalogName)
	b.WriteString(":p=")
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteString(":l=")
	b.WriteString(strconv.Itoa(q.Limit))
	b.WriteString(":cat=")
	b.WriteString(strings.ToLower(q.Category))
	b.WriteString(":cond=")
	b.WriteString(q.Condition)
	b.WriteString(":min=")
	writeOptInt(&b, q.MinPriceCents)
	b.WriteString(":max=")
	writeOptInt(&b, q.MaxPriceCents)
	b.WriteString(":s=")
	b.WriteString(strings.ToLower(q.Search))
	b.WriteString(":f=")
	if q.Featured != nil {
		b.WriteString(strconv.FormatBool(*q.Featured))
	}
	b.WriteString(":sort=")
	b.WriteString(string(q.SortBy))
	b.WriteString(":ord=")
	b.WriteString(string(q.SortOrder))
	return b.String()
}

func writeOptInt(b *strings.Builder, v *int64) {
	if v != nil {
		b.WriteString(strconv.FormatInt(*v, 10))
	}
}

// Get returns the cached page for key, or ok=false on miss or any cache
// error. Cache failures never fail the request.
func (c *Listing) Get(ctx context.Context, key string) (*catalog.Page, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("listing cache get failed")
		}
		return nil, false
	}

	var page catalog.Page
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("listing cache entry corrupt")
		return nil, false
	}
	return &page, true
}

// Set stores a page under key with the configured TTL. Errors are logged
// and dropped.
func (c *Listing) Set(ctx context.Context, key string, page *catalog.Page) {
	if c == nil || c.rdb == nil || page == nil {
		return
	}

	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("listing cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("listing cache set failed")
	}
}

// Invalidate drops every cached listing for the named catalog. Called after
// any write so stale pages disappear immediately instead of aging out.
func (c *Listing) Invalidate(ctx context.Context, catalogName string) {
	if c == nil || c.rdb == nil {
		return
	}

	pattern := "listing:" + catalogName + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Str("catalog", catalogName).Msg("listing cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Str("catalog", catalogName).Msg("listing cache invalidation failed")
	}
}
