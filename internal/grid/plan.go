package grid

// CellPair is one (primary cell, neighbor cell) unit of work.
type CellPair struct {
	A, B int
}

// Candidates appends to dst the occupied cells of b that may hold a partner
// within RMax of some point in cell primary of a. With auto set (a and b
// are the same grid) only cells >= primary are returned, so each unordered
// cell pair appears once.
func Candidates[T Float](a, b *Grid[T], primary int, auto bool, scratch, dst []int) (neighbors, out []int) {
	g := a.Geom
	rmax2 := g.RMax * g.RMax

	scratch = g.Neighbors(primary, scratch[:0])
	for _, c := range scratch {
		if auto && c < primary {
			continue
		}
		if !b.Occupied(c) {
			continue
		}
		if g.MinSep2(primary, c) >= rmax2 {
			continue
		}
		dst = append(dst, c)
	}
	return scratch, dst
}

// Plan lists every cell pair a run has to visit, primary-major.
func Plan[T Float](a, b *Grid[T], auto bool) []CellPair {
	var (
		scratch []int
		cand    []int
		pairs   []CellPair
	)
	for _, p := range a.OccupiedCells() {
		scratch, cand = Candidates(a, b, p, auto, scratch, cand[:0])
		for _, c := range cand {
			pairs = append(pairs, CellPair{A: p, B: c})
		}
	}
	return pairs
}
