// Package slotcache holds the read-through cache of booked appointment
// slots. The booking screens poll availability while the user browses a
// calendar; caching the taken slots avoids one database round trip per
// render. Entries are advisory only: the database unique indexes stay the
// authoritative conflict check.
package slotcache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache answers "is this provider slot already taken" with a cached value
// when one is known. Only taken slots are ever recorded; a free slot is
// represented by the absence of an entry, so a stale value can at worst
// cause one redundant database check, never a double booking.
type Cache interface {
	// Lookup returns (taken, known). known is false on a cache miss or
	// lookup failure. Callers treat anything other than a known taken
	// answer as a miss and fall through to the database.
	Lookup(ctx context.Context, providerID, date, slotTime string) (taken bool, known bool)

	// MarkTaken records that a slot is occupied by an active booking.
	MarkTaken(ctx context.Context, providerID, date, slotTime string)

	// Invalidate drops the cached entry, forcing the next lookup to hit
	// the database. Called whenever a booking for the slot is created,
	// changes status, or is deleted.
	Invalidate(ctx context.Context, providerID, date, slotTime string)
}

func key(providerID, date, slotTime string) string {
	return fmt.Sprintf("slot:%s:%s:%s", providerID, date, slotTime)
}

// redisCache is the Redis-backed Cache used in production.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing Redis client. TTL bounds staleness when an
// invalidation is lost (e.g. another writer without cache access).
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

// NewRedisClient connects to Redis and verifies the connection. Returns nil
// when addr is empty or the server is unreachable; callers degrade to
// database-only availability checks.
func NewRedisClient(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

func (c *redisCache) Lookup(ctx context.Context, providerID, date, slotTime string) (bool, bool) {
	val, err := c.client.Get(ctx, key(providerID, date, slotTime)).Result()
	if err != nil {
		// redis.Nil is a plain miss; any other failure degrades to a miss
		// so the caller falls through to the database.
		return false, false
	}
	return val == "1", true
}

func (c *redisCache) MarkTaken(ctx context.Context, providerID, date, slotTime string) {
	_ = c.client.Set(ctx, key(providerID, date, slotTime), "1", c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, providerID, date, slotTime string) {
	_ = c.client.Del(ctx, key(providerID, date, slotTime)).Err()
}

// Noop is the Cache used when Redis is not configured: every lookup is a
// miss, so the session service always consults the database.
type Noop struct{}

func (Noop) Lookup(ctx context.Context, providerID, date, slotTime string) (bool, bool) {
	return false, false
}
func (Noop) MarkTaken(ctx context.Context, providerID, date, slotTime string)  {}
func (Noop) Invalidate(ctx context.Context, providerID, date, slotTime string) {}
