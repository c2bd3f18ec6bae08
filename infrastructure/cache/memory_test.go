package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgapi/application/ports"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	newCache := func(t *testing.T) *Memory {
		t.Helper()
		m := NewMemory()
		t.Cleanup(func() { _ = m.Close() })
		return m
	}

	t.Run("set then get", func(t *testing.T) {
		m := newCache(t)
		require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))

		got, err := m.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("missing key reports cache miss", func(t *testing.T) {
		m := newCache(t)
		_, err := m.Get(ctx, "absent")
		assert.ErrorIs(t, err, ports.ErrCacheMiss)
	})

	t.Run("expired key reports cache miss", func(t *testing.T) {
		m := newCache(t)
		require.NoError(t, m.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
		time.Sleep(30 * time.Millisecond)

		_, err := m.Get(ctx, "k")
		assert.ErrorIs(t, err, ports.ErrCacheMiss)
	})

	t.Run("del removes key", func(t *testing.T) {
		m := newCache(t)
		require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
		require.NoError(t, m.Del(ctx, "k"))

		_, err := m.Get(ctx, "k")
		assert.ErrorIs(t, err, ports.ErrCacheMiss)
	})
}
