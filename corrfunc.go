package corrfunc

import (
	"context"
	"fmt"
	"time"

	"github.com/cosmodesi/Corrfunc/bins"
	"github.com/cosmodesi/Corrfunc/executor"
	"github.com/cosmodesi/Corrfunc/internal/grid"
	"github.com/cosmodesi/Corrfunc/histogram"
	"github.com/cosmodesi/Corrfunc/internal/kernel"
	"github.com/cosmodesi/Corrfunc/resource"
	"github.com/cosmodesi/Corrfunc/internal/simd"
	"github.com/cosmodesi/Corrfunc/weights"
)

// Float is the floating precision of a run.
type Float = grid.Float

// Points is one point set. The slices are borrowed and only read.
// Weights may be nil for unweighted runs.
type Points[T Float] struct {
	X, Y, Z []T
	Weights weights.Weights
}

// Len returns the number of points.
func (p Points[T]) Len() int { return len(p.X) }

func (p Points[T]) check(set int) error {
	if len(p.Y) != len(p.X) || len(p.Z) != len(p.X) {
		return fmt.Errorf("%w: point set %d has x=%d y=%d z=%d coordinates",
			ErrLengthMismatch, set, len(p.X), len(p.Y), len(p.Z))
	}
	return nil
}

// progressInterval throttles progress logging.
const progressInterval = time.Second

// Auto counts every unordered pair of p once.
func Auto[T Float](ctx context.Context, p Points[T], radial *bins.Radial, mu bins.Mu, opts ...Option) (*Result, error) {
	return run(ctx, []Points[T]{p}, radial, mu, opts)
}

// Cross counts every ordered pair (point of p1, point of p2) once.
func Cross[T Float](ctx context.Context, p1, p2 Points[T], radial *bins.Radial, mu bins.Mu, opts ...Option) (*Result, error) {
	return run(ctx, []Points[T]{p1, p2}, radial, mu, opts)
}

func run[T Float](ctx context.Context, sets []Points[T], radial *bins.Radial, mu bins.Mu, optFns []Option) (res *Result, err error) {
	o := applyOptions(optFns)
	auto := len(sets) == 1
	kind := "cross"
	if auto {
		kind = "auto"
	}
	log := o.logger.WithRun(kind)

	start := time.Now()
	defer func() {
		err = translateError(err)
		var pairs uint64
		if err == nil {
			pairs = res.TotalPairs()
		}
		d := time.Since(start)
		o.metricsCollector.RecordCount(pairs, d, err)
		log.LogCount(ctx, pairs, d, err)
	}()

	if err := o.validate(); err != nil {
		return nil, err
	}
	if radial == nil || mu.N() == 0 {
		return nil, fmt.Errorf("%w: radial and angular bins are required", ErrInvalidBins)
	}
	for i, p := range sets {
		if err := p.check(i + 1); err != nil {
			return nil, err
		}
	}

	a, b := sets[0], sets[len(sets)-1]
	eng, err := weights.NewEngine(o.Weighting, a.Weights, b.Weights, a.Len(), b.Len(), o.engineOptions()...)
	if err != nil {
		return nil, err
	}

	rc := o.resources
	if rc == nil {
		rc = resource.NewController(resource.Config{
			MemoryLimitBytes: o.MemoryLimit,
			MaxWorkers:       int64(o.Workers),
		})
	}

	shape := executor.Shape{NS: radial.N(), NMu: mu.N(), SAvg: o.savg}
	out, err := rc.Reserve(histogram.Bytes(shape.NS, shape.NMu, shape.SAvg))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			out.Release()
		}
	}()

	geom, err := geometry(&o, radial.Max(), sets)
	if err != nil {
		return nil, err
	}

	if a.Len() == 0 || b.Len() == 0 {
		return &Result{radial: radial, mu: mu, hist: histogram.New(shape.NS, shape.NMu, shape.SAvg), res: out}, nil
	}

	var dev executor.Device
	units := o.Workers
	if o.accelerator {
		dev = o.device
		if dev == nil {
			dev = executor.NewHostGrid(o.Workers, rc)
		}
		units = dev.Units()
	}

	var need int64
	for _, p := range sets {
		need += grid.Bytes[T](geom, p.Len())
	}
	need += int64(units) * histogram.Bytes(shape.NS, shape.NMu, shape.SAvg)
	scratch, err := rc.Reserve(need)
	if err != nil {
		return nil, err
	}
	defer scratch.Release()

	grids := make([]*grid.Grid[T], len(sets))
	for i, p := range sets {
		t0 := time.Now()
		g, err := grid.Build(geom, p.X, p.Y, p.Z)
		if err != nil {
			return nil, err
		}
		d := time.Since(t0)
		grids[i] = g
		o.metricsCollector.RecordIndexBuild(g.Len(), g.NumOccupied(), d)
		log.LogIndexBuild(ctx, i+1, g.Len(), geom.Cells(), g.NumOccupied(), d)
	}
	ga, gb := grids[0], grids[len(grids)-1]

	k := kernel.New[T](kernel.Params{
		Radial:   radial,
		Mu:       mu,
		Periodic: geom.Periodic,
		Box:      geom.Length,
		SAvg:     o.savg,
		Weights:  eng,
		Lanes:    o.lanes(),
	})

	plan := grid.Plan(ga, gb, auto)

	var parts []*histogram.Partial
	if dev != nil {
		log.WithResources(rc).LogRunStart(ctx, dev.Name(), o.Weighting.String(), geom.Periodic, len(plan))
		parts, err = dev.Launch(ctx, executor.Launch{
			Shape:    shape,
			Items:    len(plan),
			Progress: o.progress(ctx, log, len(plan)),
		}, func(item int, h *histogram.Partial) {
			cp := plan[item]
			k.CountCellPair(h, ga, gb, cp.A, cp.B, auto)
		})
	} else {
		groups := primaryGroups(plan)
		log.WithWorkers(o.Workers).WithResources(rc).LogRunStart(ctx, "cpu", o.Weighting.String(), geom.Periodic, len(plan))
		parts, err = executor.RunPool(ctx, executor.Pool{
			Workers:   o.Workers,
			Resources: rc,
			Progress:  o.progress(ctx, log, len(groups)-1),
		}, shape, len(groups)-1, func(item int, h *histogram.Partial) {
			for _, cp := range plan[groups[item]:groups[item+1]] {
				k.CountCellPair(h, ga, gb, cp.A, cp.B, auto)
			}
		})
	}
	if err != nil {
		return nil, err
	}

	hist, err := histogram.Reduce(shape.NS, shape.NMu, shape.SAvg, parts)
	if err != nil {
		return nil, err
	}
	return &Result{radial: radial, mu: mu, hist: hist, res: out}, nil
}

// primaryGroups returns the offsets of each primary cell's run of cell
// pairs in the primary-major plan, plus a trailing len(plan).
func primaryGroups(plan []grid.CellPair) []int {
	groups := make([]int, 0, len(plan)/4+2)
	for i, cp := range plan {
		if i == 0 || cp.A != plan[i-1].A {
			groups = append(groups, i)
		}
	}
	return append(groups, len(plan))
}

func (o *options) engineOptions() []weights.EngineOption {
	opts := []weights.EngineOption{weights.WithBitwiseOffset(o.BitwiseOffset, o.BitwiseDefault)}
	if o.pairTable != nil {
		opts = append(opts, weights.WithPairTable(o.pairTable))
	}
	return opts
}

// geometry lays out the cell lattice over the union of all point sets.
func geometry[T Float](o *options, rmax float64, sets []Points[T]) (*grid.Geometry, error) {
	cols := make([][3][]T, len(sets))
	for i, p := range sets {
		cols[i] = [3][]T{p.X, p.Y, p.Z}
	}
	lo, hi := grid.Bounds(cols...)
	for axis := range 3 {
		// No points at all: a degenerate lattice at the origin.
		if lo[axis] > hi[axis] {
			lo[axis], hi[axis] = 0, 0
		}
	}

	cfg := grid.Config{
		RMax:     rmax,
		Refine:   o.Refine,
		MaxCells: o.MaxCellsPerDim,
		Periodic: o.periodic,
	}
	if o.periodic {
		for axis := range 3 {
			box := o.Box[axis]
			if box == 0 {
				box = hi[axis] - lo[axis]
			}
			if !(box > 0) {
				return nil, &ConfigError{Field: fmt.Sprintf("Box[%d]", axis), Reason: "periodic extent is zero"}
			}
			if rmax > box/2 {
				return nil, &ConfigError{
					Field:  fmt.Sprintf("Box[%d]", axis),
					Reason: fmt.Sprintf("largest separation %g exceeds half the periodic box %g", rmax, box),
				}
			}
			cfg.Box[axis] = box
		}
	}
	return grid.NewGeometry(cfg, lo, hi)
}

// lanes maps the kernel mode to a block width.
func (o *options) lanes() int {
	isa := simd.ActiveISA().Lanes()
	switch o.Kernel {
	case KernelScalar:
		return 1
	case KernelBlocked:
		return max(isa, 4)
	default:
		return isa
	}
}

func (o *options) progress(ctx context.Context, log *Logger, total int) *executor.Progress {
	return executor.NewProgress(total, progressInterval, func(done, total int64) {
		log.LogProgress(ctx, done, total)
	})
}
