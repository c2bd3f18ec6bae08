package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowExhaustsBurst(t *testing.T) {
	tb := NewTokenBucket(3, time.Hour)
	defer tb.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, tb.Allow("10.0.0.1"))
}

func TestKeysAreIndependent(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)
	defer tb.Close()

	assert.True(t, tb.Allow("10.0.0.1"))
	assert.False(t, tb.Allow("10.0.0.1"))
	assert.True(t, tb.Allow("10.0.0.2"))
}

func TestTokensRefillOverTime(t *testing.T) {
	tb := NewTokenBucket(1, 10*time.Millisecond)
	defer tb.Close()

	assert.True(t, tb.Allow("k"))
	assert.False(t, tb.Allow("k"))

	time.Sleep(25 * time.Millisecond)
	assert.True(t, tb.Allow("k"))
}
