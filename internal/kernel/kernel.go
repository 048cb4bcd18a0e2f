// Package kernel implements the pair-counting inner loops: for two cells of
// a spatial grid it computes every pair's separation and line-of-sight
// cosine, applies the minimum-image wrap, bins the pair and accumulates its
// weight into a worker's histogram.
//
// The line of sight is the z axis. Radial bins are half-open [smin, smax)
// and are tested on squared separations in the run precision.
package kernel

import (
	"math"

	"github.com/cosmodesi/Corrfunc/bins"
	"github.com/cosmodesi/Corrfunc/internal/grid"
	"github.com/cosmodesi/Corrfunc/histogram"
	"github.com/cosmodesi/Corrfunc/weights"
)

// MaxLanes is the widest block the blocked loop processes at once.
const MaxLanes = 16

// Params are the run parameters a Kernel is specialized for.
type Params struct {
	Radial   *bins.Radial
	Mu       bins.Mu
	Periodic bool
	Box      [3]float64
	SAvg     bool
	Weights  *weights.Engine
	// Lanes selects the loop: 1 is the scalar loop, larger values the
	// blocked loop with that block width (capped at MaxLanes).
	Lanes int
}

// Kernel is immutable after New and shared by all workers of a run.
type Kernel[T grid.Float] struct {
	supp2        []T
	smin2, smax2 T
	muMax        T
	dmu          T
	nmu          int

	periodic bool
	box      [3]T
	half     [3]T

	savg      bool
	eng       *weights.Engine
	weighted  bool
	needAngle bool

	lanes int
}

// New specializes a kernel for precision T.
func New[T grid.Float](p Params) *Kernel[T] {
	supp := p.Radial.Supports()
	k := &Kernel[T]{
		supp2:    make([]T, len(supp)),
		muMax:    T(p.Mu.Max()),
		dmu:      T(p.Mu.Width()),
		nmu:      p.Mu.N(),
		periodic: p.Periodic,
		savg:     p.SAvg,
		eng:      p.Weights,
		lanes:    min(max(p.Lanes, 1), MaxLanes),
	}
	for i, s := range supp {
		v := T(s)
		k.supp2[i] = v * v
	}
	k.smin2 = k.supp2[0]
	k.smax2 = k.supp2[len(k.supp2)-1]

	if p.Periodic {
		for axis := range 3 {
			k.box[axis] = T(p.Box[axis])
			k.half[axis] = T(p.Box[axis] / 2)
		}
	}
	if p.Weights != nil && p.Weights.Scheme() != weights.None {
		k.weighted = true
		k.needAngle = p.Weights.NeedsAngle()
	}
	return k
}

// Lanes returns the block width in use.
func (k *Kernel[T]) Lanes() int { return k.lanes }

// CountCellPair accumulates every pair between cell ca of a and cell cb of b.
// When auto is set a and b are the same grid: pairs inside one cell are
// taken with j > i, pairs across cells are all taken (the caller visits each
// unordered cell pair once).
func (k *Kernel[T]) CountCellPair(h *histogram.Partial, a, b *grid.Grid[T], ca, cb int, auto bool) {
	alo, ahi := a.CellRange(ca)
	blo, bhi := b.CellRange(cb)
	same := auto && ca == cb

	for i := alo; i < ahi; i++ {
		jlo := blo
		if same {
			jlo = i + 1
		}
		if jlo >= bhi {
			continue
		}
		if k.lanes > 1 {
			k.scanBlocked(h, a, i, b, jlo, bhi)
		} else {
			k.scanScalar(h, a, i, b, jlo, bhi)
		}
	}
}

// wrap applies the minimum-image convention to one axis displacement.
func wrap[T grid.Float](d, box, half T) T {
	if d > half {
		return d - box
	}
	if d < -half {
		return d + box
	}
	return d
}

func (k *Kernel[T]) scanScalar(h *histogram.Partial, a *grid.Grid[T], i int, b *grid.Grid[T], jlo, jhi int) {
	xi, yi, zi := a.X[i], a.Y[i], a.Z[i]
	bx, by, bz := b.X[jlo:jhi], b.Y[jlo:jhi], b.Z[jlo:jhi]

	for j := range bx {
		dx := bx[j] - xi
		dy := by[j] - yi
		dz := bz[j] - zi
		if k.periodic {
			dx = wrap(dx, k.box[0], k.half[0])
			dy = wrap(dy, k.box[1], k.half[1])
			dz = wrap(dz, k.box[2], k.half[2])
		}
		// Conversions stop FMA fusion so every loop variant rounds alike.
		r2 := T(dx*dx) + T(dy*dy) + T(dz*dz)
		if r2 < k.smin2 || r2 >= k.smax2 {
			continue
		}
		k.accept(h, a, i, b, jlo+j, r2, dz)
	}
}

func (k *Kernel[T]) scanBlocked(h *histogram.Partial, a *grid.Grid[T], i int, b *grid.Grid[T], jlo, jhi int) {
	xi, yi, zi := a.X[i], a.Y[i], a.Z[i]
	lanes := k.lanes

	var (
		r2s [MaxLanes]T
		dzs [MaxLanes]T
	)

	j := jlo
	for ; j+lanes <= jhi; j += lanes {
		bx := b.X[j : j+lanes]
		by := b.Y[j : j+lanes]
		bz := b.Z[j : j+lanes]

		hit := false
		for l := range lanes {
			dx := bx[l] - xi
			dy := by[l] - yi
			dz := bz[l] - zi
			if k.periodic {
				dx = wrap(dx, k.box[0], k.half[0])
				dy = wrap(dy, k.box[1], k.half[1])
				dz = wrap(dz, k.box[2], k.half[2])
			}
			r2 := T(dx*dx) + T(dy*dy) + T(dz*dz)
			r2s[l] = r2
			dzs[l] = dz
			hit = hit || (r2 >= k.smin2 && r2 < k.smax2)
		}
		if !hit {
			continue
		}
		for l := range lanes {
			r2 := r2s[l]
			if r2 < k.smin2 || r2 >= k.smax2 {
				continue
			}
			k.accept(h, a, i, b, j+l, r2, dzs[l])
		}
	}

	if j < jhi {
		k.scanScalar(h, a, i, b, j, jhi)
	}
}

// accept bins one pair that passed the radial cut.
func (k *Kernel[T]) accept(h *histogram.Partial, a *grid.Grid[T], i int, b *grid.Grid[T], j int, r2, dz T) {
	s := T(math.Sqrt(float64(r2)))

	var mu T
	if r2 > 0 {
		if dz < 0 {
			dz = -dz
		}
		mu = dz / s
		if mu > 1 {
			mu = 1
		}
	}
	if mu > k.muMax {
		return
	}

	kb := bins.Search(k.supp2, r2)
	if kb < 0 {
		return
	}
	jm := bins.MuIndex(mu, k.dmu, k.nmu)

	w := 1.0
	if k.weighted {
		var cos float64
		if k.needAngle {
			cos = CosTheta(
				float64(a.X[i]), float64(a.Y[i]), float64(a.Z[i]),
				float64(b.X[j]), float64(b.Y[j]), float64(b.Z[j]),
			)
		}
		w = k.eng.Pair(a.Index[i], b.Index[j], cos)
	}

	h.Add(kb, jm, float64(s), w)
}

// CosTheta returns the cosine of the angle between two position vectors,
// clamped to [-1, 1]. A zero-length vector yields 1.
func CosTheta(x1, y1, z1, x2, y2, z2 float64) float64 {
	n2 := (x1*x1 + y1*y1 + z1*z1) * (x2*x2 + y2*y2 + z2*z2)
	if n2 == 0 {
		return 1
	}
	c := (x1*x2 + y1*y2 + z1*z2) / math.Sqrt(n2)
	return max(-1, min(1, c))
}
