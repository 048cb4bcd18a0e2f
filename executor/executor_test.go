package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmodesi/Corrfunc/histogram"
	"github.com/cosmodesi/Corrfunc/resource"
)

var shape = Shape{NS: 3, NMu: 2, SAvg: true}

// binItem drops item into bin item%6 with weight item and separation 1.
func binItem(item int, h *histogram.Partial) {
	k := item % (shape.NS * shape.NMu)
	h.Add(k/shape.NMu, k%shape.NMu, 1, float64(item))
}

func reduce(t *testing.T, parts []*histogram.Partial) *histogram.Partial {
	t.Helper()
	h, err := histogram.Reduce(shape.NS, shape.NMu, shape.SAvg, parts)
	require.NoError(t, err)
	return h
}

func TestRunPool_EachItemOnce(t *testing.T) {
	const items = 1000

	want := histogram.New(shape.NS, shape.NMu, shape.SAvg)
	for i := range items {
		binItem(i, want)
	}

	for _, workers := range []int{1, 3, 8, 64} {
		var seen sync.Map
		parts, err := RunPool(context.Background(), Pool{Workers: workers}, shape, items, func(item int, h *histogram.Partial) {
			_, dup := seen.LoadOrStore(item, true)
			assert.False(t, dup, "item %d processed twice", item)
			binItem(item, h)
		})
		require.NoError(t, err)
		require.Len(t, parts, workers)

		got := reduce(t, parts)
		assert.Equal(t, want.Count, got.Count, "workers=%d", workers)
		assert.Equal(t, want.WSum, got.WSum, "workers=%d", workers)
		assert.Equal(t, want.SSum, got.SSum, "workers=%d", workers)
	}
}

func TestRunPool_NoItems(t *testing.T) {
	parts, err := RunPool(context.Background(), Pool{Workers: 4}, shape, 0, binItem)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), reduce(t, parts).Total())
}

func TestRunPool_NoWorkers(t *testing.T) {
	_, err := RunPool(context.Background(), Pool{}, shape, 10, binItem)
	assert.ErrorIs(t, err, ErrNoWorkers)
}

func TestRunPool_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int64
	parts, err := RunPool(ctx, Pool{Workers: 2}, shape, 1_000_000, func(item int, h *histogram.Partial) {
		if calls.Add(1) == 10 {
			cancel()
		}
		binItem(item, h)
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, parts)
	assert.Less(t, calls.Load(), int64(1_000_000))
}

func TestRunPool_WorkerSlots(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxWorkers: 2})

	var active, peak atomic.Int64
	_, err := RunPool(context.Background(), Pool{Workers: 8, Resources: rc}, shape, 64, func(item int, h *histogram.Partial) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(100 * time.Microsecond)
		active.Add(-1)
		binItem(item, h)
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestRunPool_Progress(t *testing.T) {
	var last atomic.Int64
	prog := NewProgress(100, 0, func(done, total int64) {
		assert.Equal(t, int64(100), total)
		last.Store(done)
	})

	_, err := RunPool(context.Background(), Pool{Workers: 1, Progress: prog}, shape, 100, binItem)
	require.NoError(t, err)
	assert.Equal(t, int64(100), prog.Done())
	assert.Equal(t, int64(100), last.Load())

	var nilProg *Progress
	nilProg.Add(1)
	assert.Zero(t, nilProg.Done())
}

func TestHostGrid_MatchesPool(t *testing.T) {
	const items = 777

	pool, err := RunPool(context.Background(), Pool{Workers: 4}, shape, items, binItem)
	require.NoError(t, err)
	want := reduce(t, pool)

	for _, blocks := range []int{1, 5, 64, 2000} {
		d := &HostGrid{Blocks: blocks, Concurrency: 3}
		parts, err := d.Launch(context.Background(), Launch{Shape: shape, Items: items}, binItem)
		require.NoError(t, err)
		assert.Len(t, parts, min(blocks, items))

		got := reduce(t, parts)
		assert.Equal(t, want.Count, got.Count, "blocks=%d", blocks)
		assert.Equal(t, want.WSum, got.WSum, "blocks=%d", blocks)
	}
}

func TestHostGrid_Defaults(t *testing.T) {
	d := NewHostGrid(0, nil)
	assert.Equal(t, DefaultBlocksPerWorker, d.Units())
	assert.Equal(t, 1, d.Concurrency)
	assert.Contains(t, d.Name(), "host-grid")

	parts, err := d.Launch(context.Background(), Launch{Shape: shape}, binItem)
	require.NoError(t, err)
	assert.Empty(t, parts)

	var dev Device = &HostGrid{Blocks: 2}
	_, err = dev.Launch(context.Background(), Launch{Shape: shape, Items: 4}, binItem)
	assert.ErrorIs(t, err, ErrNoWorkers)
}

func TestHostGrid_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewHostGrid(2, nil)
	parts, err := d.Launch(ctx, Launch{Shape: shape, Items: 100}, binItem)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, parts)
}
