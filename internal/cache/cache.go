// Package cache holds rendered diagram output between requests so serve
// mode does not re-walk the snapshot graph for every identical request.
package cache

import (
	"context"
	"time"
)

// Cache is the contract both backends satisfy.
type Cache interface {
	// Get retrieves a cached value
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL (0 means the configured default)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes one value
	Delete(ctx context.Context, key string) error

	// Clear removes every value this cache owns
	Clear(ctx context.Context) error

	// Close releases backend resources
	Close() error
}

// Config holds settings common to both backends.
type Config struct {
	// DefaultTTL applies when Set is called with a zero TTL
	DefaultTTL time.Duration
	// Prefix namespaces every key
	Prefix string
}

// DefaultConfig returns the settings serve mode starts with.
func DefaultConfig() Config {
	return Config{
		DefaultTTL: 10 * time.Minute,
		Prefix:     "orglens:",
	}
}

// ErrCacheMiss is returned when a key is not present.
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	_, ok := err.(ErrCacheMiss)
	return ok
}
