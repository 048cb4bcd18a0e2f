package grid

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/cosmodesi/Corrfunc/internal/mem"
)

// Float is the coordinate precision of a run.
type Float interface {
	~float32 | ~float64
}

// Grid is one point set binned into a Geometry. Coordinates are copied
// cell-major so the points of cell c are X[Start[c]:Start[c+1]] (likewise Y,
// Z); Index maps each slot back to the caller's point index. A Grid is
// read-only after Build.
type Grid[T Float] struct {
	Geom     *Geometry
	X, Y, Z  []T
	Index    []int
	Start    []int
	occupied *roaring.Bitmap
}

// Bytes estimates the memory Build allocates for n points.
func Bytes[T Float](g *Geometry, n int) int64 {
	cells := int64(g.Cells())
	return 3*mem.SizeOf[T](n) + // coordinates
		int64(n)*8 + // Index
		(cells+1)*8 + // Start
		int64(n)*4 // per-point cell ids, released after build
}

// Bounds returns the per-axis minimum and maximum over all given point sets.
func Bounds[T Float](sets ...[3][]T) (lo, hi [3]float64) {
	for axis := range 3 {
		lo[axis] = math.Inf(1)
		hi[axis] = math.Inf(-1)
	}
	for _, s := range sets {
		for axis := range 3 {
			for _, v := range s[axis] {
				f := float64(v)
				lo[axis] = min(lo[axis], f)
				hi[axis] = max(hi[axis], f)
			}
		}
	}
	return lo, hi
}

// Build bins the points into g with a counting sort. The input slices are
// only read.
func Build[T Float](g *Geometry, x, y, z []T) (*Grid[T], error) {
	n := len(x)
	if len(y) != n || len(z) != n {
		return nil, fmt.Errorf("grid: coordinate lengths differ: x=%d y=%d z=%d", len(x), len(y), len(z))
	}
	if n > math.MaxInt32 {
		return nil, fmt.Errorf("grid: %d points exceed the cell id range", n)
	}

	ncells := g.Cells()
	cellOf := make([]int32, n)
	start := make([]int, ncells+1)

	for i := range n {
		c := g.CellOf(float64(x[i]), float64(y[i]), float64(z[i]))
		cellOf[i] = int32(c)
		start[c+1]++
	}
	for c := range ncells {
		start[c+1] += start[c]
	}

	gr := &Grid[T]{
		Geom:     g,
		X:        mem.Alloc[T](n),
		Y:        mem.Alloc[T](n),
		Z:        mem.Alloc[T](n),
		Index:    make([]int, n),
		Start:    start,
		occupied: roaring.New(),
	}

	fill := make([]int, ncells)
	copy(fill, start[:ncells])
	for i := range n {
		c := cellOf[i]
		slot := fill[c]
		fill[c]++
		gr.X[slot] = x[i]
		gr.Y[slot] = y[i]
		gr.Z[slot] = z[i]
		gr.Index[slot] = i
	}

	for c := range ncells {
		if start[c+1] > start[c] {
			gr.occupied.Add(uint32(c))
		}
	}
	gr.occupied.RunOptimize()

	return gr, nil
}

// Len returns the number of points.
func (gr *Grid[T]) Len() int { return len(gr.Index) }

// CellRange returns the slot range [lo, hi) of cell c.
func (gr *Grid[T]) CellRange(c int) (lo, hi int) {
	return gr.Start[c], gr.Start[c+1]
}

// Occupied reports whether cell c holds any point.
func (gr *Grid[T]) Occupied(c int) bool {
	return gr.occupied.Contains(uint32(c))
}

// OccupiedCells returns the non-empty cells in increasing order.
func (gr *Grid[T]) OccupiedCells() []int {
	out := make([]int, 0, gr.occupied.GetCardinality())
	it := gr.occupied.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// NumOccupied returns the number of non-empty cells.
func (gr *Grid[T]) NumOccupied() int {
	return int(gr.occupied.GetCardinality())
}
