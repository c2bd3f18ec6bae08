package httpcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(16, time.Minute)
	t.Cleanup(s.Stop)
	return s
}

func entryWithTags(tags ...string) *Entry {
	return &Entry{
		Status:  200,
		Headers: map[string]string{"content-type": "application/json"},
		Body:    []byte(`{"ok":true}`),
		Tags:    tags,
	}
}

func TestStoreGetSet(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.Get("GET:/api/users")
	assert.False(t, ok)

	stored := entryWithTags("res:users", "res:users:list")
	s.Set("GET:/api/users", stored)

	got, ok := s.Get("GET:/api/users")
	require.True(t, ok)
	assert.Equal(t, stored.Body, got.Body)
	assert.Equal(t, 200, got.Status)
}

func TestStoreInvalidateTag(t *testing.T) {
	s := newTestStore(t)

	s.Set("GET:/api/users", entryWithTags("res:users", "res:users:list", "seg:/api/users"))
	s.Set("GET:/api/users/1", entryWithTags("res:users", "res:users:id:1", "seg:/api/users"))
	s.Set("GET:/api/organizations", entryWithTags("res:organizations", "res:organizations:list"))

	s.InvalidateTag("res:users")

	_, ok := s.Get("GET:/api/users")
	assert.False(t, ok)
	_, ok = s.Get("GET:/api/users/1")
	assert.False(t, ok)

	// entries under other tags survive
	_, ok = s.Get("GET:/api/organizations")
	assert.True(t, ok)
}

func TestStoreInvalidateRemovesFromAllTags(t *testing.T) {
	s := newTestStore(t)

	s.Set("GET:/api/users/1", entryWithTags("res:users", "res:users:id:1"))
	s.InvalidateTag("res:users:id:1")

	// re-caching then invalidating via the other tag must still work
	s.Set("GET:/api/users/1", entryWithTags("res:users", "res:users:id:1"))
	s.InvalidateTag("res:users")

	_, ok := s.Get("GET:/api/users/1")
	assert.False(t, ok)
}

func TestStoreReplaceReindexes(t *testing.T) {
	s := newTestStore(t)

	s.Set("GET:/api/users", entryWithTags("res:users"))
	s.Set("GET:/api/users", entryWithTags("res:members"))

	// old tag no longer reaches the entry
	s.InvalidateTag("res:users")
	_, ok := s.Get("GET:/api/users")
	assert.True(t, ok)

	s.InvalidateTag("res:members")
	_, ok = s.Get("GET:/api/users")
	assert.False(t, ok)
}

func TestStoreCapacityEvictionCleansIndex(t *testing.T) {
	s := NewStore(2, time.Minute)
	t.Cleanup(s.Stop)

	s.Set("k1", entryWithTags("res:a"))
	s.Set("k2", entryWithTags("res:a"))
	s.Set("k3", entryWithTags("res:a"))

	assert.Equal(t, 2, s.Len())

	// invalidating must not resurrect or fail on the evicted key
	s.InvalidateTag("res:a")
	assert.Equal(t, 0, s.Len())
}

func TestStoreTTLExpiry(t *testing.T) {
	s := NewStore(16, 30*time.Millisecond)
	t.Cleanup(s.Stop)

	s.Set("k1", entryWithTags("res:a"))
	time.Sleep(80 * time.Millisecond)

	_, ok := s.Get("k1")
	assert.False(t, ok)
}
