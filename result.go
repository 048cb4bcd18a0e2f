package corrfunc

import (
	"github.com/cosmodesi/Corrfunc/bins"
	"github.com/cosmodesi/Corrfunc/histogram"
	"github.com/cosmodesi/Corrfunc/resource"
)

// Bin is one (radial, angular) histogram entry. Angular bins are reported
// by their upper edge only.
type Bin struct {
	SMin      float64
	SMax      float64
	MuMax     float64
	NPairs    uint64
	WeightAvg float64
	// SAvg is the mean separation, 0 unless WithSeparationAverage was set.
	SAvg float64
}

// Result is the histogram of a successful run. The caller owns it and
// should Release it once read; reads after Release see an empty histogram.
type Result struct {
	radial *bins.Radial
	mu     bins.Mu
	hist   *histogram.Partial
	res    *resource.Reservation
}

// NS returns the number of radial bins.
func (r *Result) NS() int { return r.radial.N() }

// NMu returns the number of angular bins.
func (r *Result) NMu() int { return r.mu.N() }

// At returns radial bin i, angular bin j.
func (r *Result) At(i, j int) Bin {
	edge := r.radial.Bin(i)
	b := Bin{
		SMin:  edge.Min,
		SMax:  edge.Max,
		MuMax: r.mu.Upper(j),
	}
	if r.hist == nil {
		return b
	}
	b.NPairs = r.hist.Count[i*r.hist.NMu+j]
	b.WeightAvg = r.hist.WeightAvg(i, j)
	b.SAvg = r.hist.SAvg(i, j)
	return b
}

// Bins returns every entry, radial-major: entry i*NMu()+j is At(i, j).
func (r *Result) Bins() []Bin {
	if r.hist == nil {
		return nil
	}
	out := make([]Bin, 0, r.NS()*r.NMu())
	for i := range r.NS() {
		for j := range r.NMu() {
			out = append(out, r.At(i, j))
		}
	}
	return out
}

// TotalPairs returns the pair count summed over all bins.
func (r *Result) TotalPairs() uint64 {
	if r.hist == nil {
		return 0
	}
	return r.hist.Total()
}

// Release drops the histogram and returns its memory to the resource
// controller. Safe to call more than once.
func (r *Result) Release() {
	r.hist = nil
	r.res.Release()
}
