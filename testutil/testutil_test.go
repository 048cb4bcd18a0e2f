package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformPoints(t *testing.T) {
	rng := NewRNG(42)
	p := rng.UniformPoints(100, 5)

	assert.Equal(t, 100, p.Len())
	for i := range p.Len() {
		assert.GreaterOrEqual(t, p.X[i], 0.0)
		assert.Less(t, p.Z[i], 5.0)
	}
}

func TestClusteredPoints(t *testing.T) {
	rng := NewRNG(1)
	p := rng.ClusteredPoints(500, 3, 0.5, 10)
	for i := range p.Len() {
		assert.GreaterOrEqual(t, p.Y[i], 0.0)
		assert.Less(t, p.Y[i], 10.0)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(9)
	a := rng.UniformPoints(10, 1)
	rng.Reset()
	b := rng.UniformPoints(10, 1)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(9), rng.Seed())
}

func TestBruteForce_Auto(t *testing.T) {
	p := Points{
		X: []float64{0, 0, 0},
		Y: []float64{0, 0, 0},
		Z: []float64{0, 0.5, 1.5},
	}
	h := BruteForce(BruteParams{Supp: []float64{0, 1, 2}, MuMax: 1, NMu: 1}, p, Points{}, true)

	// separations 0.5, 1.5 and 1.0; s = 1 falls in [1, 2)
	assert.Equal(t, []uint64{1, 2}, h.Count)
	assert.Equal(t, uint64(3), h.Total())
	assert.InDelta(t, 0.5, h.SSum[0], 1e-12)
	assert.InDelta(t, 2.5, h.SSum[1], 1e-12)
}

func TestBruteForce_PeriodicWrap(t *testing.T) {
	a := Points{X: []float64{0}, Y: []float64{0}, Z: []float64{0}}
	b := Points{X: []float64{0}, Y: []float64{0}, Z: []float64{9.9}}
	h := BruteForce(BruteParams{
		Supp: []float64{0, 0.2}, MuMax: 1, NMu: 1,
		Periodic: true, Box: [3]float64{10, 10, 10},
	}, a, b, false)
	assert.Equal(t, uint64(1), h.Total())
}

func TestMasks(t *testing.T) {
	rng := NewRNG(5)
	assert.Equal(t, []uint64{0, 0}, rng.Masks(2, 0))
	assert.Equal(t, []uint64{^uint64(0)}, rng.Masks(1, 1))
}
