package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// ReadThrough serves key from the cache when present, otherwise calls
// load, stores the result under key with ttl (zero ttl = no expiry)
// and returns it. Cache failures on the write-back are logged and
// swallowed: a broken cache degrades to store reads, it does not fail
// the request.
func ReadThrough[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := c.Get(ctx, key)
	if err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Undecodable entry: drop it and fall through to the store.
		_ = c.Del(ctx, key)
	}

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if raw, err := json.Marshal(value); err == nil {
		if err := c.Set(ctx, key, raw, ttl); err != nil {
			log.Printf("ERROR [cache.ReadThrough] failed to populate %s: %v", key, err)
		}
	}

	return value, nil
}

// Invalidate deletes the given keys after a store mutation has
// committed. Callers pass the collection key before entity keys so the
// ordering discipline stays uniform across every mutating path.
func Invalidate(ctx context.Context, c Cache, keys ...string) {
	if err := c.Del(ctx, keys...); err != nil {
		log.Printf("ERROR [cache.Invalidate] failed to delete %v: %v", keys, err)
	}
}

// Refresh overwrites key with value, used by the paths that repopulate
// an entity entry right after its mutation.
func Refresh(ctx context.Context, c Cache, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("ERROR [cache.Refresh] failed to marshal %s: %v", key, err)
		return
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		log.Printf("ERROR [cache.Refresh] failed to set %s: %v", key, err)
	}
}
