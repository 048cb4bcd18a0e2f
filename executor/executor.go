// Package executor spreads pair-counting work over concurrent workers.
//
// Two dispatch models share one contract: every worker (or execution unit)
// owns a private histogram.Partial and writes nothing else; inputs are
// read-only; the caller reduces the returned partials after the join
// barrier. A failed or cancelled run returns an error and no partials.
//
//   - RunPool: a fixed pool of CPU workers pulls work items (primary cells)
//     from a shared cursor, so each item is processed by exactly one worker.
//   - Device: an offload target maps work items (cell pairs) onto a grid of
//     execution units; HostGrid emulates such a grid on goroutines.
package executor

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cosmodesi/Corrfunc/histogram"
	"github.com/cosmodesi/Corrfunc/resource"
)

// ErrNoWorkers is returned when a run is configured with fewer than one worker.
var ErrNoWorkers = errors.New("executor: at least one worker is required")

// Shape is the histogram layout every partial is allocated with.
type Shape struct {
	NS   int
	NMu  int
	SAvg bool
}

func (s Shape) alloc() *histogram.Partial {
	return histogram.New(s.NS, s.NMu, s.SAvg)
}

// Func processes one work item into the calling worker's histogram.
type Func func(item int, h *histogram.Partial)

// Pool configures RunPool.
type Pool struct {
	Workers   int
	Resources *resource.Controller
	Progress  *Progress
}

// RunPool processes items [0, items) on p.Workers goroutines and returns one
// partial per worker (nil for workers that received no item).
func RunPool(ctx context.Context, p Pool, shape Shape, items int, fn Func) ([]*histogram.Partial, error) {
	if p.Workers < 1 {
		return nil, ErrNoWorkers
	}

	g, ctx := errgroup.WithContext(ctx)
	parts := make([]*histogram.Partial, p.Workers)

	var cursor atomic.Int64
	for w := range p.Workers {
		g.Go(func() error {
			if err := p.Resources.AcquireWorker(ctx); err != nil {
				return err
			}
			defer p.Resources.ReleaseWorker()

			var h *histogram.Partial
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				item := int(cursor.Add(1) - 1)
				if item >= items {
					break
				}
				if h == nil {
					h = shape.alloc()
				}
				fn(item, h)
				p.Progress.Add(1)
			}
			parts[w] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}
