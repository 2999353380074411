package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process cache with per-entry expiration. It is the
// default backend when no Redis address is configured.
type Memory struct {
	entries sync.Map
	config  Config
	cancel  context.CancelFunc
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemory creates an in-process cache and starts its expiry sweeper.
func NewMemory(config Config) *Memory {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Memory{config: config, cancel: cancel}
	go m.sweep(ctx)
	return m
}

// Get retrieves a cached value.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullKey := m.config.Prefix + key
	stored, ok := m.entries.Load(fullKey)
	if !ok {
		return nil, ErrCacheMiss{Key: key}
	}

	entry := stored.(memoryEntry)
	if entry.expired(time.Now()) {
		m.entries.Delete(fullKey)
		return nil, ErrCacheMiss{Key: key}
	}

	return entry.value, nil
}

// Set stores a value. A zero ttl uses the configured default; a negative
// ttl stores without expiration.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.entries.Store(m.config.Prefix+key, entry)
	return nil
}

// Delete removes one value.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.entries.Delete(m.config.Prefix + key)
	return nil
}

// Clear removes every value.
func (m *Memory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.entries.Range(func(key, _ interface{}) bool {
		m.entries.Delete(key)
		return true
	})
	return nil
}

// Close stops the expiry sweeper.
func (m *Memory) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}

// sweep drops expired entries once a minute so idle caches do not grow.
func (m *Memory) sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			m.entries.Range(func(key, stored interface{}) bool {
				if stored.(memoryEntry).expired(now) {
					m.entries.Delete(key)
				}
				return true
			})
		}
	}
}
