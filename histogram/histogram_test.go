package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartial_Add(t *testing.T) {
	p := New(2, 3, true)
	p.Add(1, 2, 0.5, 2)
	p.Add(1, 2, 1.5, 4)
	p.Add(0, 0, 0.1, 1)

	assert.Equal(t, uint64(2), p.Count[1*3+2])
	assert.Equal(t, uint64(3), p.Total())
	assert.Equal(t, 3.0, p.WeightAvg(1, 2))
	assert.Equal(t, 1.0, p.SAvg(1, 2))
	assert.Zero(t, p.WeightAvg(0, 1))
	assert.Zero(t, p.SAvg(0, 1))
}

func TestReduce(t *testing.T) {
	a := New(1, 2, false)
	b := New(1, 2, false)
	a.Add(0, 0, 0, 1)
	b.Add(0, 0, 0, 3)
	b.Add(0, 1, 0, 5)

	out, err := Reduce(1, 2, false, []*Partial{a, nil, b})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, out.Count)
	assert.Equal(t, []float64{4, 5}, out.WSum)
	assert.Nil(t, out.SSum)
	assert.Zero(t, out.SAvg(0, 0))

	// Inputs are untouched.
	assert.Equal(t, []uint64{1, 0}, a.Count)
}

func TestMerge_ShapeMismatch(t *testing.T) {
	a := New(1, 2, false)
	assert.Error(t, a.Merge(New(2, 2, false)))
	assert.Error(t, a.Merge(New(1, 2, true)))
}

func TestBytes(t *testing.T) {
	assert.Equal(t, int64(2*3*16), Bytes(2, 3, false))
	assert.Equal(t, int64(2*3*24), Bytes(2, 3, true))
}
