package httpcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTags(t *testing.T) {
	t.Run("collection path", func(t *testing.T) {
		tags := ComputeTags("/api/users")
		assert.ElementsMatch(t, []string{
			"path:/api/users",
			"seg:/api",
			"seg:/api/users",
			"res:users",
			"res:users:list",
		}, tags)
	})

	t.Run("item path with uuid", func(t *testing.T) {
		id := "0b9fc93e-61f3-4bf3-9a6c-7d8e12345678"
		tags := ComputeTags("/api/users/" + id)
		assert.Contains(t, tags, "res:users:id:"+id)
		assert.Contains(t, tags, "seg:/api/users/"+id)
	})

	t.Run("item path with numeric id", func(t *testing.T) {
		tags := ComputeTags("/api/orders/123")
		assert.Contains(t, tags, "res:orders:id:123")
	})

	t.Run("version segment skipped for resource", func(t *testing.T) {
		tags := ComputeTags("/api/v1/organizations")
		assert.Contains(t, tags, "res:organizations")
		assert.Contains(t, tags, "res:organizations:list")
		assert.NotContains(t, tags, "res:v1")
	})

	t.Run("non id segment yields no id tag", func(t *testing.T) {
		tags := ComputeTags("/api/users/search")
		for _, tag := range tags {
			assert.NotContains(t, tag, ":id:")
		}
	})

	t.Run("query string stripped", func(t *testing.T) {
		tags := ComputeTags("/api/users?page=2")
		assert.Contains(t, tags, "path:/api/users")
	})
}

func TestMutationTags(t *testing.T) {
	t.Run("drops literal path and bare framework prefixes", func(t *testing.T) {
		tags := MutationTags("/api/users/42")
		assert.NotContains(t, tags, "path:/api/users/42")
		assert.NotContains(t, tags, "seg:/api")
		assert.Contains(t, tags, "seg:/api/users")
		assert.Contains(t, tags, "seg:/api/users/42")
		assert.Contains(t, tags, "res:users")
		assert.Contains(t, tags, "res:users:list")
		assert.Contains(t, tags, "res:users:id:42")
	})

	t.Run("versioned path keeps resource prefixes only", func(t *testing.T) {
		tags := MutationTags("/api/v2/orders")
		assert.NotContains(t, tags, "seg:/api")
		assert.NotContains(t, tags, "seg:/api/v2")
		assert.Contains(t, tags, "seg:/api/v2/orders")
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "GET:/api/users?page=2", Key("GET", "/api/users?page=2"))
}
