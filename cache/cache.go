// Package cache keeps short-lived JSON values, in process or in Redis.
package cache

import (
	"context"
	"time"
)

// DefaultTTL matches how long a fetched request list stays fresh.
const DefaultTTL = 5 * time.Minute

type Cache interface {
	// Get decodes the value stored under key into dst and reports whether it was found
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores value under key; ttl <= 0 means DefaultTTL
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Close() error
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
