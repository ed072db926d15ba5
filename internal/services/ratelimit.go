package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// RateLimiter tracks per-key counters with expiry in a shared KV store.
// Windows are fixed, not sliding: the expiry is anchored at the increment
// that created the key, and the counter resets fully when it lapses.
type RateLimiter struct {
	kv     KVStore
	prefix string
}

func NewRateLimiter(kv KVStore, prefix string) *RateLimiter {
	return &RateLimiter{kv: kv, prefix: prefix}
}

// Check returns the current count for key, 0 when absent or expired.
func (rl *RateLimiter) Check(ctx context.Context, key string) (int64, error) {
	val, err := rl.kv.Get(ctx, rl.prefix+key)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading counter: %w", err)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing counter %q: %w", val, err)
	}
	return count, nil
}

// Increment atomically bumps the counter for key and returns the new count.
// The window TTL is applied only when the key has none, so concurrent
// increments cannot stretch the window.
func (rl *RateLimiter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := rl.kv.Incr(ctx, rl.prefix+key)
	if err != nil {
		return 0, fmt.Errorf("incrementing counter: %w", err)
	}

	if _, err := rl.kv.ExpireNX(ctx, rl.prefix+key, window); err != nil {
		return count, fmt.Errorf("setting counter expiry: %w", err)
	}

	return count, nil
}

// Reset clears the counter for key.
func (rl *RateLimiter) Reset(ctx context.Context, key string) error {
	return rl.kv.Del(ctx, rl.prefix+key)
}
