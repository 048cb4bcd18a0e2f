// Package grid is the spatial index of the pair counter: a regular 3-D lattice
// of cells sized from the largest search radius, sharing one Geometry between
// the point sets of a cross-correlation so their cells line up.
//
// Cells along an axis are at least RMax/Refine wide, hence every pair closer
// than RMax lies in cells at most Refine apart on each axis. A periodic
// geometry wraps neighbor lookups modulo the cell count.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMaxCells caps the number of cells per axis.
const DefaultMaxCells = 100

var (
	// ErrInvalidGeometry is returned for unusable grid parameters.
	ErrInvalidGeometry = errors.New("grid: invalid geometry")

	// ErrOutOfBox is returned when the data extent exceeds the periodic box.
	ErrOutOfBox = errors.New("grid: points extend beyond the periodic box")
)

// Config describes the lattice to build.
type Config struct {
	// RMax is the largest separation of interest.
	RMax float64
	// Refine is the number of cells spanning RMax on each axis.
	Refine [3]int
	// MaxCells caps cells per axis. 0 means DefaultMaxCells.
	MaxCells int
	// Periodic enables wrap-around neighbor lookups.
	Periodic bool
	// Box is the periodic length per axis. Ignored unless Periodic.
	Box [3]float64
}

// Geometry is the lattice shared by all point sets of a run.
type Geometry struct {
	Origin   [3]float64
	Length   [3]float64
	N        [3]int
	Width    [3]float64
	Refine   [3]int
	Periodic bool
	RMax     float64

	// deltas[axis] lists neighbor offsets along the axis. For periodic
	// lattices they are de-duplicated residues in [0, N).
	deltas [3][]int
}

// NewGeometry lays out cells over the bounds [lo, hi] of all input points.
func NewGeometry(cfg Config, lo, hi [3]float64) (*Geometry, error) {
	if !(cfg.RMax > 0) || math.IsInf(cfg.RMax, 0) {
		return nil, fmt.Errorf("%w: rmax %g must be positive and finite", ErrInvalidGeometry, cfg.RMax)
	}
	maxCells := cfg.MaxCells
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}

	g := &Geometry{
		Origin:   lo,
		Refine:   cfg.Refine,
		Periodic: cfg.Periodic,
		RMax:     cfg.RMax,
	}

	for axis := range 3 {
		r := cfg.Refine[axis]
		if r < 1 {
			return nil, fmt.Errorf("%w: refine factor %d on axis %d must be >= 1", ErrInvalidGeometry, r, axis)
		}

		extent := hi[axis] - lo[axis]
		if math.IsNaN(extent) || math.IsInf(extent, 0) || extent < 0 {
			return nil, fmt.Errorf("%w: non-finite bounds on axis %d", ErrInvalidGeometry, axis)
		}

		length := extent
		if cfg.Periodic {
			length = cfg.Box[axis]
			if !(length > 0) {
				return nil, fmt.Errorf("%w: periodic box %g on axis %d must be positive", ErrInvalidGeometry, length, axis)
			}
			if extent > length {
				return nil, fmt.Errorf("%w: axis %d extent %g > box %g", ErrOutOfBox, axis, extent, length)
			}
		}
		g.Length[axis] = length

		n := 1
		if length > 0 {
			cells := math.Floor(float64(r) * length / cfg.RMax)
			n = int(min(max(cells, 1), float64(maxCells)))
		}
		g.N[axis] = n

		if length > 0 {
			g.Width[axis] = length / float64(n)
		} else {
			g.Width[axis] = 1
		}

		g.deltas[axis] = axisDeltas(r, n, cfg.Periodic)
	}

	return g, nil
}

func axisDeltas(r, n int, periodic bool) []int {
	if !periodic {
		d := make([]int, 0, 2*r+1)
		for off := -r; off <= r; off++ {
			d = append(d, off)
		}
		return d
	}
	if 2*r+1 >= n {
		d := make([]int, n)
		for i := range d {
			d[i] = i
		}
		return d
	}
	d := make([]int, 0, 2*r+1)
	for off := -r; off <= r; off++ {
		d = append(d, ((off%n)+n)%n)
	}
	return d
}

// Cells returns the total number of cells.
func (g *Geometry) Cells() int {
	return g.N[0] * g.N[1] * g.N[2]
}

// CellOf returns the flat cell index of a position.
func (g *Geometry) CellOf(x, y, z float64) int {
	ix := g.axisIndex(0, x)
	iy := g.axisIndex(1, y)
	iz := g.axisIndex(2, z)
	return (ix*g.N[1]+iy)*g.N[2] + iz
}

func (g *Geometry) axisIndex(axis int, v float64) int {
	k := int((v - g.Origin[axis]) / g.Width[axis])
	if k < 0 {
		return 0
	}
	if k >= g.N[axis] {
		return g.N[axis] - 1
	}
	return k
}

// Coords decodes a flat cell index.
func (g *Geometry) Coords(cell int) (ix, iy, iz int) {
	iz = cell % g.N[2]
	cell /= g.N[2]
	iy = cell % g.N[1]
	ix = cell / g.N[1]
	return ix, iy, iz
}

// Neighbors appends to dst every distinct cell within Refine cells of cell on
// each axis, the cell itself included.
func (g *Geometry) Neighbors(cell int, dst []int) []int {
	ix, iy, iz := g.Coords(cell)
	for _, dx := range g.deltas[0] {
		jx, ok := g.step(0, ix, dx)
		if !ok {
			continue
		}
		for _, dy := range g.deltas[1] {
			jy, ok := g.step(1, iy, dy)
			if !ok {
				continue
			}
			for _, dz := range g.deltas[2] {
				jz, ok := g.step(2, iz, dz)
				if !ok {
					continue
				}
				dst = append(dst, (jx*g.N[1]+jy)*g.N[2]+jz)
			}
		}
	}
	return dst
}

func (g *Geometry) step(axis, k, d int) (int, bool) {
	n := g.N[axis]
	if g.Periodic {
		return (k + d) % n, true
	}
	j := k + d
	return j, j >= 0 && j < n
}

// MinSep2 returns a lower bound on the squared separation of any two points
// drawn from cells a and b.
func (g *Geometry) MinSep2(a, b int) float64 {
	ax, ay, az := g.Coords(a)
	bx, by, bz := g.Coords(b)
	ka := [3]int{ax, ay, az}
	kb := [3]int{bx, by, bz}

	var s2 float64
	for axis := range 3 {
		d := ka[axis] - kb[axis]
		if d < 0 {
			d = -d
		}
		if g.Periodic {
			d = min(d, g.N[axis]-d)
		}
		if d > 1 {
			gap := float64(d-1) * g.Width[axis]
			s2 += gap * gap
		}
	}
	return s2
}
