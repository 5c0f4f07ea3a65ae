package db

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis for the heatmap cache. It returns nil when
// addr is empty or the server does not answer a ping; callers then run
// without caching.
func NewRedisClient(ctx context.Context, addr, password string, dbNum int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbNum,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis at %s unavailable, heatmap cache disabled: %v", addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
