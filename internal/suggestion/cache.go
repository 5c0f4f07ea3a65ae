package suggestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DayCache stores successful per-day availability lookups.
type DayCache interface {
	Get(ctx context.Context, zoneID string, date time.Time, slots []string) (map[string]bool, bool)
	Set(ctx context.Context, zoneID string, date time.Time, slots []string, availability map[string]bool)
	// InvalidateDate drops every cached entry for date.
	InvalidateDate(ctx context.Context, date time.Time)
	// InvalidateAll drops every cached entry.
	InvalidateAll(ctx context.Context)
}

// RedisDayCache keeps one hash per date, keyed by zone and slot set.
// A nil client turns every call into a no-op miss.
type RedisDayCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDayCache(rdb *redis.Client, ttl time.Duration) *RedisDayCache {
	return &RedisDayCache{rdb: rdb, ttl: ttl}
}

const (
	keyPrefix = "heatmap:"
	scanBatch = 100
)

func dateKey(date time.Time) string {
	return keyPrefix + date.Format(wireDateLayout)
}

func fieldKey(zoneID string, slots []string) string {
	return zoneID + "|" + strings.Join(slots, ",")
}

func (c *RedisDayCache) Get(ctx context.Context, zoneID string, date time.Time, slots []string) (map[string]bool, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.HGet(ctx, dateKey(date), fieldKey(zoneID, slots)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("heatmap cache get failed: %v", err)
		}
		return nil, false
	}
	var out map[string]bool
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *RedisDayCache) Set(ctx context.Context, zoneID string, date time.Time, slots []string, availability map[string]bool) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(availability)
	if err != nil {
		return
	}
	key := dateKey(date)
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, fieldKey(zoneID, slots), raw)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("heatmap cache set failed: %v", err)
	}
}

func (c *RedisDayCache) InvalidateDate(ctx context.Context, date time.Time) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, dateKey(date)).Err(); err != nil {
		log.Printf("heatmap cache invalidate failed: %v", err)
	}
}

func (c *RedisDayCache) InvalidateAll(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("heatmap cache scan failed: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("heatmap cache flush failed: %v", err)
	}
}

// String describes the cache for startup logs.
func (c *RedisDayCache) String() string {
	if c == nil || c.rdb == nil {
		return "heatmap cache disabled"
	}
	return fmt.Sprintf("heatmap cache at %s (ttl %s)", c.rdb.Options().Addr, c.ttl)
}
