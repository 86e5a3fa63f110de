package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiterAllowsUpToMax(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(ctx, "caller"), "hit %d should be allowed", i)
	}
	assert.False(t, l.Allow(ctx, "caller"))
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 1)
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "a"))
	assert.False(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "b"))
}

func TestMemoryLimiterWindowExpiry(t *testing.T) {
	l := NewMemoryLimiter(50*time.Millisecond, 1)
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "caller"))
	assert.False(t, l.Allow(ctx, "caller"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, l.Allow(ctx, "caller"))
}
