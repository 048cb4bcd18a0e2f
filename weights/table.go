package weights

import (
	"fmt"
	"math"
	"sort"
)

// PairTable is an angular pair-weight correction sampled at increasing
// cosines of the 3-D angle between two points.
type PairTable struct {
	cos []float64
	w   []float64
}

// NewPairTable copies and validates the samples.
func NewPairTable(cos, w []float64) (*PairTable, error) {
	if len(cos) == 0 {
		return nil, fmt.Errorf("%w: pair-weight table is empty", ErrInvalidTable)
	}
	if len(cos) != len(w) {
		return nil, fmt.Errorf("%w: %d cosines but %d weights", ErrInvalidTable, len(cos), len(w))
	}
	for i := range cos {
		if math.IsNaN(cos[i]) || math.IsNaN(w[i]) {
			return nil, fmt.Errorf("%w: NaN at row %d", ErrInvalidTable, i)
		}
		if i > 0 && cos[i] <= cos[i-1] {
			return nil, fmt.Errorf("%w: cosines not strictly increasing at row %d", ErrInvalidTable, i)
		}
	}

	t := &PairTable{
		cos: make([]float64, len(cos)),
		w:   make([]float64, len(w)),
	}
	copy(t.cos, cos)
	copy(t.w, w)
	return t, nil
}

// Len returns the number of samples.
func (t *PairTable) Len() int { return len(t.cos) }

// At linearly interpolates the table at c. Values outside the sampled
// domain take the nearest boundary sample.
func (t *PairTable) At(c float64) float64 {
	n := len(t.cos)
	if c <= t.cos[0] {
		return t.w[0]
	}
	if c >= t.cos[n-1] {
		return t.w[n-1]
	}
	// cos[k-1] < c <= cos[k]
	k := sort.SearchFloat64s(t.cos, c)
	c0, c1 := t.cos[k-1], t.cos[k]
	w0, w1 := t.w[k-1], t.w[k]
	return w0 + (w1-w0)*(c-c0)/(c1-c0)
}
