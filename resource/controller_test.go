package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	// Test with limit
	c := NewController(Config{MemoryLimitBytes: 100})

	// Acquire 50
	err := c.AcquireMemory(50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	// Acquire 40
	err = c.AcquireMemory(40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Acquire 20 (should fail - limit exceeded)
	err = c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Release 50
	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	// Now Acquire 20 should succeed
	err = c.AcquireMemory(20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.NoError(t, c.AcquireWorker(t.Context()))
	require.NoError(t, c.AcquireWorker(t.Context()))
	assert.False(t, c.TryAcquireWorker())

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWorker(ctx), context.DeadlineExceeded)

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
}

func TestReservation(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 64})

	r, err := c.Reserve(48)
	require.NoError(t, err)
	assert.Equal(t, int64(48), r.Bytes())

	_, err = c.Reserve(32)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)

	r.Release()
	r.Release()
	assert.Zero(t, c.MemoryUsage())

	_, err = c.Reserve(64)
	assert.NoError(t, err)
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireMemory(1<<40))
	require.NoError(t, c.AcquireWorker(t.Context()))
	assert.True(t, c.TryAcquireWorker())
	assert.Zero(t, c.MemoryUsage())

	r, err := c.Reserve(10)
	require.NoError(t, err)
	r.Release()
}

func TestController_Limits(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 4096, MaxWorkers: 3})
	assert.Equal(t, int64(4096), c.MemoryLimit())
	assert.Equal(t, int64(3), c.MaxWorkers())

	// MaxWorkers defaults to one slot; no memory limit reports 0.
	d := NewController(Config{})
	assert.Zero(t, d.MemoryLimit())
	assert.Equal(t, int64(1), d.MaxWorkers())

	var n *Controller
	assert.Zero(t, n.MemoryLimit())
	assert.Zero(t, n.MaxWorkers())
}
