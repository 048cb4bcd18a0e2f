package executor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cosmodesi/Corrfunc/histogram"
	"github.com/cosmodesi/Corrfunc/resource"
)

// Launch describes one offloaded kernel launch.
type Launch struct {
	Shape    Shape
	Items    int
	Progress *Progress
}

// Device is an accelerator: it maps Items work units onto its execution
// grid and returns one partial histogram segment per unit that did work.
type Device interface {
	Name() string
	// Units is the number of execution units (blocks) per launch.
	Units() int
	Launch(ctx context.Context, l Launch, fn Func) ([]*histogram.Partial, error)
}

// DefaultBlocksPerWorker is the HostGrid oversubscription when Blocks is unset.
const DefaultBlocksPerWorker = 4

// HostGrid emulates a device grid on goroutines: the item range is cut into
// Blocks contiguous segments, each block accumulates into its own partial and
// at most Concurrency blocks run at once.
type HostGrid struct {
	Blocks      int
	Concurrency int
	Resources   *resource.Controller
}

// NewHostGrid returns a grid with DefaultBlocksPerWorker blocks per worker.
func NewHostGrid(workers int, rc *resource.Controller) *HostGrid {
	workers = max(workers, 1)
	return &HostGrid{
		Blocks:      workers * DefaultBlocksPerWorker,
		Concurrency: workers,
		Resources:   rc,
	}
}

// Name implements Device.
func (d *HostGrid) Name() string {
	return fmt.Sprintf("host-grid(%dx%d)", d.Units(), max(d.Concurrency, 1))
}

// Units implements Device.
func (d *HostGrid) Units() int {
	return max(d.Blocks, 1)
}

// Launch implements Device.
func (d *HostGrid) Launch(ctx context.Context, l Launch, fn Func) ([]*histogram.Partial, error) {
	if d.Concurrency < 1 {
		return nil, ErrNoWorkers
	}
	blocks := min(d.Units(), l.Items)
	if blocks == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Concurrency)
	parts := make([]*histogram.Partial, blocks)

	for b := range blocks {
		lo := b * l.Items / blocks
		hi := (b + 1) * l.Items / blocks
		g.Go(func() error {
			if err := d.Resources.AcquireWorker(ctx); err != nil {
				return err
			}
			defer d.Resources.ReleaseWorker()

			h := l.Shape.alloc()
			for item := lo; item < hi; item++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				fn(item, h)
				l.Progress.Add(1)
			}
			parts[b] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}
