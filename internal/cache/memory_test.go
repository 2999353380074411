package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetAndGet(t *testing.T) {
	m := NewMemory(DefaultConfig())
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "er:account", []byte("erDiagram"), time.Minute))

	value, err := m.Get(ctx, "er:account")
	require.NoError(t, err)
	assert.Equal(t, []byte("erDiagram"), value)
}

func TestMemoryGetMiss(t *testing.T) {
	m := NewMemory(DefaultConfig())
	defer m.Close()

	_, err := m.Get(context.Background(), "never-set")
	require.Error(t, err)
	assert.True(t, IsCacheMiss(err))
	assert.Contains(t, err.Error(), "never-set")
}

func TestMemoryExpiration(t *testing.T) {
	m := NewMemory(DefaultConfig())
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short-lived", []byte("x"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "short-lived")
	assert.True(t, IsCacheMiss(err))
}

func TestMemoryNegativeTTLNeverExpires(t *testing.T) {
	m := NewMemory(DefaultConfig())
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "pinned", []byte("x"), -1))
	time.Sleep(20 * time.Millisecond)

	value, err := m.Get(ctx, "pinned")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), value)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory(DefaultConfig())
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "doomed", []byte("x"), time.Minute))
	require.NoError(t, m.Delete(ctx, "doomed"))

	_, err := m.Get(ctx, "doomed")
	assert.True(t, IsCacheMiss(err))
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory(DefaultConfig())
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, m.Clear(ctx))

	_, err := m.Get(ctx, "a")
	assert.True(t, IsCacheMiss(err))
	_, err = m.Get(ctx, "b")
	assert.True(t, IsCacheMiss(err))
}

func TestMemoryCanceledContext(t *testing.T) {
	m := NewMemory(DefaultConfig())
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
