// Package bins defines the radial and angular binning grids used by the pair counter.
//
// A Radial binning is an ordered, contiguous sequence of [smin, smax) bins.
// A Mu binning is an implicit uniform grid over [0, muMax] with nmu bins.
// Both are immutable once constructed and safe for concurrent use.
package bins

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoBins is returned when a radial binning has no bins.
	ErrNoBins = errors.New("bins: at least one radial bin is required")

	// ErrInvalidMu is returned when the angular binning parameters are out of domain.
	ErrInvalidMu = errors.New("bins: invalid mu binning")
)

// ErrInvalidEdge describes a radial bin edge that violates the ordering rules.
type ErrInvalidEdge struct {
	Bin    int
	Reason string
}

func (e *ErrInvalidEdge) Error() string {
	return fmt.Sprintf("bins: invalid radial bin %d: %s", e.Bin, e.Reason)
}

// linearSearchMax is the largest bin count searched linearly.
const linearSearchMax = 16

// Edge is one radial bin [Min, Max).
type Edge struct {
	Min float64
	Max float64
}

// Radial is a validated radial binning.
type Radial struct {
	supp []float64 // n+1 edges
}

// NewRadial validates edges and builds a radial binning.
// Bins must be non-negative, strictly increasing and contiguous:
// edges[i+1].Min == edges[i].Max.
func NewRadial(edges []Edge) (*Radial, error) {
	if len(edges) == 0 {
		return nil, ErrNoBins
	}

	supp := make([]float64, 0, len(edges)+1)
	supp = append(supp, edges[0].Min)

	for i, e := range edges {
		switch {
		case math.IsNaN(e.Min) || math.IsNaN(e.Max) || math.IsInf(e.Max, 0):
			return nil, &ErrInvalidEdge{Bin: i, Reason: "edges must be finite"}
		case e.Min < 0:
			return nil, &ErrInvalidEdge{Bin: i, Reason: fmt.Sprintf("negative edge %g", e.Min)}
		case e.Max <= e.Min:
			return nil, &ErrInvalidEdge{Bin: i, Reason: fmt.Sprintf("smax %g must exceed smin %g", e.Max, e.Min)}
		}
		if i > 0 && e.Min != edges[i-1].Max {
			return nil, &ErrInvalidEdge{
				Bin:    i,
				Reason: fmt.Sprintf("smin %g does not match previous smax %g", e.Min, edges[i-1].Max),
			}
		}
		supp = append(supp, e.Max)
	}

	return &Radial{supp: supp}, nil
}

// RadialFromEdges builds a radial binning from n+1 monotone edges.
func RadialFromEdges(supp []float64) (*Radial, error) {
	if len(supp) < 2 {
		return nil, ErrNoBins
	}
	edges := make([]Edge, len(supp)-1)
	for i := range edges {
		edges[i] = Edge{Min: supp[i], Max: supp[i+1]}
	}
	return NewRadial(edges)
}

// N returns the number of radial bins.
func (r *Radial) N() int { return len(r.supp) - 1 }

// Min returns the lower edge of the first bin.
func (r *Radial) Min() float64 { return r.supp[0] }

// Max returns the upper edge of the last bin.
func (r *Radial) Max() float64 { return r.supp[len(r.supp)-1] }

// Bin returns the edges of bin i.
func (r *Radial) Bin(i int) Edge {
	return Edge{Min: r.supp[i], Max: r.supp[i+1]}
}

// Supports returns a copy of the n+1 bin edges.
func (r *Radial) Supports() []float64 {
	out := make([]float64, len(r.supp))
	copy(out, r.supp)
	return out
}

// Find returns the bin containing s, or -1 when s is outside [Min, Max).
func (r *Radial) Find(s float64) int {
	return Search(r.supp, s)
}

// Search locates x in the monotone edge slice supp, returning the index k with
// supp[k] <= x < supp[k+1], or -1 when x is out of range. It is generic so the
// kernels can search squared edges in the run precision.
func Search[T ~float32 | ~float64](supp []T, x T) int {
	n := len(supp) - 1
	if n < 1 || x < supp[0] || x >= supp[n] {
		return -1
	}
	if n <= linearSearchMax {
		for k := n - 1; k > 0; k-- {
			if x >= supp[k] {
				return k
			}
		}
		return 0
	}
	lo, hi := 0, n
	for hi-lo > 1 {
		mid := int(uint(lo+hi) >> 1)
		if x >= supp[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Mu is the implicit uniform angular binning over [0, MaxMu].
type Mu struct {
	max float64
	n   int
	dmu float64
}

// NewMu validates muMax in (0, 1] and n >= 1.
func NewMu(muMax float64, n int) (Mu, error) {
	if math.IsNaN(muMax) || muMax <= 0 || muMax > 1 {
		return Mu{}, fmt.Errorf("%w: mu_max %g must be in (0, 1]", ErrInvalidMu, muMax)
	}
	if n < 1 {
		return Mu{}, fmt.Errorf("%w: nmu_bins %d must be >= 1", ErrInvalidMu, n)
	}
	return Mu{max: muMax, n: n, dmu: muMax / float64(n)}, nil
}

// Max returns mu_max.
func (m Mu) Max() float64 { return m.max }

// N returns the number of angular bins.
func (m Mu) N() int { return m.n }

// Width returns the bin width dmu.
func (m Mu) Width() float64 { return m.dmu }

// Index returns floor(mu/dmu) clamped to [0, N()-1].
func (m Mu) Index(mu float64) int {
	return MuIndex(mu, m.dmu, m.n)
}

// Upper returns the upper edge (j+1)*dmu of angular bin j.
func (m Mu) Upper(j int) float64 {
	return float64(j+1) * m.dmu
}

// MuIndex is the angular bin rule shared with the kernels.
func MuIndex[T ~float32 | ~float64](mu, dmu T, n int) int {
	k := int(mu / dmu)
	if k >= n {
		return n - 1
	}
	if k < 0 {
		return 0
	}
	return k
}
