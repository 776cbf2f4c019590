// Package cache holds Tavolo's short-lived snapshot cache (menu, cart)
// in Redis. The cache is strictly optional: when REDIS_ADDR is unset or
// the server is unreachable, every operation degrades to a no-op so the
// client works identically without it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tavolo/tavolo/config"
)

var RDB *redis.Client
var Ctx = context.Background()

func key(k string) string { return "tavolo:" + k }

// Connect establishes the Redis connection. Callers log the returned
// error as a warning and carry on; the cache stays disabled.
func Connect() error {
	addr := config.RedisAddr()
	if addr == "" {
		return nil // cache not configured
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil // mark unavailable so Get/Set/Del no-op safely
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get retrieves a cached value and unmarshals it into dest.
// Returns true on a hit, false on miss, error, or disabled cache.
func Get(k string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(Ctx, key(k)).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under k for the given TTL.
func Set(k string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(Ctx, key(k), data, ttl).Err()
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if RDB == nil {
		return nil
	}
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = key(k)
	}
	return RDB.Del(Ctx, namespaced...).Err()
}
