package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmodesi/Corrfunc/bins"
	"github.com/cosmodesi/Corrfunc/internal/grid"
	"github.com/cosmodesi/Corrfunc/histogram"
	"github.com/cosmodesi/Corrfunc/testutil"
	"github.com/cosmodesi/Corrfunc/weights"
)

type setup struct {
	radial   *bins.Radial
	mu       bins.Mu
	periodic bool
	box      float64
}

func build[T grid.Float](t *testing.T, s setup, pts ...testutil.Points) []*grid.Grid[T] {
	t.Helper()
	cols := make([][3][]T, len(pts))
	for n, p := range pts {
		for axis, src := range [][]float64{p.X, p.Y, p.Z} {
			dst := make([]T, len(src))
			for i, v := range src {
				dst[i] = T(v)
			}
			cols[n][axis] = dst
		}
	}
	lo, hi := grid.Bounds(cols...)
	g, err := grid.NewGeometry(grid.Config{
		RMax:     s.radial.Max(),
		Refine:   [3]int{2, 2, 1},
		Periodic: s.periodic,
		Box:      [3]float64{s.box, s.box, s.box},
	}, lo, hi)
	require.NoError(t, err)

	out := make([]*grid.Grid[T], len(cols))
	for n, c := range cols {
		out[n], err = grid.Build(g, c[0], c[1], c[2])
		require.NoError(t, err)
	}
	return out
}

func countAll[T grid.Float](k *Kernel[T], s setup, a, b *grid.Grid[T], auto bool, savg bool) *histogram.Partial {
	h := histogram.New(s.radial.N(), s.mu.N(), savg)
	for _, p := range grid.Plan(a, b, auto) {
		k.CountCellPair(h, a, b, p.A, p.B, auto)
	}
	return h
}

func newSetup(t *testing.T, supp []float64, muMax float64, nmu int) setup {
	t.Helper()
	r, err := bins.RadialFromEdges(supp)
	require.NoError(t, err)
	m, err := bins.NewMu(muMax, nmu)
	require.NoError(t, err)
	return setup{radial: r, mu: m}
}

func TestCountCellPair_MatchesBruteForce(t *testing.T) {
	rng := testutil.NewRNG(11)
	pts := rng.UniformPoints(200, 10)
	other := rng.UniformPoints(150, 10)

	for _, periodic := range []bool{false, true} {
		s := newSetup(t, []float64{0.1, 0.5, 1, 2, 3}, 0.8, 5)
		s.periodic = periodic
		s.box = 10
		ref := testutil.BruteParams{
			Supp: s.radial.Supports(), MuMax: 0.8, NMu: 5,
			Periodic: periodic, Box: [3]float64{10, 10, 10},
		}

		grids := build[float64](t, s, pts, other)
		k := New[float64](Params{Radial: s.radial, Mu: s.mu, Periodic: periodic, Box: [3]float64{10, 10, 10}, SAvg: true})

		auto := countAll(k, s, grids[0], grids[0], true, true)
		want := testutil.BruteForce(ref, pts, testutil.Points{}, true)
		assert.Equal(t, want.Count, auto.Count, "auto periodic=%v", periodic)
		assert.InDeltaSlice(t, want.SSum, auto.SSum, 1e-9)

		cross := countAll(k, s, grids[0], grids[1], false, true)
		wantCross := testutil.BruteForce(ref, pts, other, false)
		assert.Equal(t, wantCross.Count, cross.Count, "cross periodic=%v", periodic)
	}
}

func TestCountCellPair_BlockedMatchesScalar(t *testing.T) {
	rng := testutil.NewRNG(5)
	pts := rng.ClusteredPoints(600, 4, 0.8, 8)
	s := newSetup(t, []float64{0, 0.25, 0.5, 1, 1.5}, 1, 10)
	s.periodic, s.box = true, 8

	for _, lanes := range []int{2, 4, 8, 16} {
		grids := build[float32](t, s, pts)
		p := Params{Radial: s.radial, Mu: s.mu, Periodic: true, Box: [3]float64{8, 8, 8}, SAvg: true}
		scalar := countAll(New[float32](p), s, grids[0], grids[0], true, true)

		p.Lanes = lanes
		kb := New[float32](p)
		require.Equal(t, lanes, kb.Lanes())
		blocked := countAll(kb, s, grids[0], grids[0], true, true)

		assert.Equal(t, scalar.Count, blocked.Count, "lanes=%d", lanes)
		assert.Equal(t, scalar.WSum, blocked.WSum, "lanes=%d", lanes)
		assert.Equal(t, scalar.SSum, blocked.SSum, "lanes=%d", lanes)
	}
}

func TestCountCellPair_FullyConnected(t *testing.T) {
	// Every pair lies within the outer radius and the angular cut.
	rng := testutil.NewRNG(3)
	n := 120
	pts := rng.UniformPoints(n, 1)
	s := newSetup(t, []float64{0, 0.5, 2}, 1, 3)

	grids := build[float64](t, s, pts)
	k := New[float64](Params{Radial: s.radial, Mu: s.mu})
	h := countAll(k, s, grids[0], grids[0], true, false)

	assert.Equal(t, uint64(n*(n-1)/2), h.Total())
	assert.Equal(t, float64(n*(n-1)/2), sum(h.WSum))
}

func TestCountCellPair_NoneWeightEqualsCount(t *testing.T) {
	rng := testutil.NewRNG(8)
	pts := rng.UniformPoints(300, 5)
	s := newSetup(t, []float64{0, 0.3, 0.9, 1.2}, 0.5, 4)
	eng, err := weights.NewEngine(weights.None, nil, nil, pts.Len(), pts.Len())
	require.NoError(t, err)

	grids := build[float64](t, s, pts)
	h := countAll(New[float64](Params{Radial: s.radial, Mu: s.mu, Weights: eng}), s, grids[0], grids[0], true, false)
	for k := range h.Count {
		assert.Equal(t, float64(h.Count[k]), h.WSum[k])
	}
}

func TestCountCellPair_PairProductUsesOriginalIndex(t *testing.T) {
	pts := testutil.Points{
		X: []float64{5, 0, 5.2},
		Y: []float64{5, 0, 5},
		Z: []float64{5, 0, 5},
	}
	s := newSetup(t, []float64{0, 1}, 1, 1)
	w := weights.Product{W: []float64{2, 100, 3}}
	eng, err := weights.NewEngine(weights.PairProduct, w, w, 3, 3)
	require.NoError(t, err)

	grids := build[float64](t, s, pts)
	h := countAll(New[float64](Params{Radial: s.radial, Mu: s.mu, Weights: eng}), s, grids[0], grids[0], true, false)

	assert.Equal(t, []uint64{1}, h.Count)
	assert.Equal(t, []float64{6}, h.WSum)
}

func TestCountCellPair_PeriodicWrap(t *testing.T) {
	const L = 10.0
	a := testutil.Points{X: []float64{0}, Y: []float64{0}, Z: []float64{0}}
	b := testutil.Points{X: []float64{0}, Y: []float64{0}, Z: []float64{L - 0.1}}

	s := newSetup(t, []float64{0, 0.2, 1}, 1, 2)
	s.periodic, s.box = true, L
	grids := build[float64](t, s, a, b)
	k := New[float64](Params{Radial: s.radial, Mu: s.mu, Periodic: true, Box: [3]float64{L, L, L}, SAvg: true})
	h := countAll(k, s, grids[0], grids[1], false, true)

	// separation 0.1 along the line of sight: first radial bin, last mu bin
	assert.Equal(t, []uint64{0, 1, 0, 0}, h.Count)
	assert.InDelta(t, 0.1, h.SAvg(0, 1), 1e-9)
}

func TestCountCellPair_MuBinRule(t *testing.T) {
	rng := testutil.NewRNG(21)
	pts := rng.UniformPoints(150, 4)
	s := newSetup(t, []float64{0, 4}, 0.6, 7)
	grids := build[float64](t, s, pts)
	gr := grids[0]
	k := New[float64](Params{Radial: s.radial, Mu: s.mu})

	// Every accepted pair lands at floor(mu/dmu) clamped.
	want := make([]uint64, 7)
	dmu := 0.6 / 7
	for i := range pts.Len() {
		for j := i + 1; j < pts.Len(); j++ {
			dx, dy, dz := pts.X[j]-pts.X[i], pts.Y[j]-pts.Y[i], pts.Z[j]-pts.Z[i]
			r := math.Sqrt(float64(dx*dx) + float64(dy*dy) + float64(dz*dz))
			if r >= 4 {
				continue
			}
			mu := math.Min(math.Abs(dz)/r, 1)
			if mu > 0.6 {
				continue
			}
			want[min(int(mu/dmu), 6)]++
		}
	}
	h := countAll(k, s, gr, gr, true, false)
	assert.Equal(t, want, h.Count)
}

func TestCosTheta(t *testing.T) {
	assert.InDelta(t, 0.0, CosTheta(1, 0, 0, 0, 1, 0), 1e-15)
	assert.InDelta(t, -1.0, CosTheta(1, 1, 1, -2, -2, -2), 1e-15)
	assert.Equal(t, 1.0, CosTheta(0, 0, 0, 1, 2, 3))
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}
