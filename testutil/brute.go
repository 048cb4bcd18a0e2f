package testutil

import "math"

// BruteParams configures the reference pair counter.
type BruteParams struct {
	// Supp are the n+1 radial bin edges.
	Supp     []float64
	MuMax    float64
	NMu      int
	Periodic bool
	Box      [3]float64
	// Weight returns the weight of pair (i, j); nil weighs every pair 1.
	// cos is the cosine of the angle between the two position vectors.
	Weight func(i, j int, cos float64) float64
}

// BruteHist is a radial-major (s, mu) histogram.
type BruteHist struct {
	NS, NMu int
	Count   []uint64
	WSum    []float64
	SSum    []float64
}

// Total returns the pair count over all bins.
func (h BruteHist) Total() uint64 {
	var n uint64
	for _, c := range h.Count {
		n += c
	}
	return n
}

// BruteForce enumerates every pair of a and b in O(N^2). With auto set, b
// is ignored and each unordered pair i < j of a is counted once.
func BruteForce(p BruteParams, a, b Points, auto bool) BruteHist {
	ns := len(p.Supp) - 1
	h := BruteHist{
		NS:    ns,
		NMu:   p.NMu,
		Count: make([]uint64, ns*p.NMu),
		WSum:  make([]float64, ns*p.NMu),
		SSum:  make([]float64, ns*p.NMu),
	}
	if auto {
		b = a
	}

	sq := make([]float64, len(p.Supp))
	for k, s := range p.Supp {
		sq[k] = s * s
	}
	dmu := p.MuMax / float64(p.NMu)

	for i := range a.Len() {
		j0 := 0
		if auto {
			j0 = i + 1
		}
		for j := j0; j < b.Len(); j++ {
			d := [3]float64{b.X[j] - a.X[i], b.Y[j] - a.Y[i], b.Z[j] - a.Z[i]}
			if p.Periodic {
				for axis := range 3 {
					L := p.Box[axis]
					if d[axis] > L/2 {
						d[axis] -= L
					} else if d[axis] < -L/2 {
						d[axis] += L
					}
				}
			}
			r2 := float64(d[0]*d[0]) + float64(d[1]*d[1]) + float64(d[2]*d[2])

			kb := -1
			for k := range ns {
				if r2 >= sq[k] && r2 < sq[k+1] {
					kb = k
					break
				}
			}
			if kb < 0 {
				continue
			}

			s := math.Sqrt(r2)
			mu := 0.0
			if s > 0 {
				mu = math.Min(math.Abs(d[2])/s, 1)
			}
			if mu > p.MuMax {
				continue
			}
			jm := int(mu / dmu)
			if jm >= p.NMu {
				jm = p.NMu - 1
			}

			w := 1.0
			if p.Weight != nil {
				w = p.Weight(i, j, cosTheta(a, i, b, j))
			}

			idx := kb*p.NMu + jm
			h.Count[idx]++
			h.WSum[idx] += w
			h.SSum[idx] += s
		}
	}
	return h
}

func cosTheta(a Points, i int, b Points, j int) float64 {
	n2 := (a.X[i]*a.X[i] + a.Y[i]*a.Y[i] + a.Z[i]*a.Z[i]) * (b.X[j]*b.X[j] + b.Y[j]*b.Y[j] + b.Z[j]*b.Z[j])
	if n2 == 0 {
		return 1
	}
	c := (a.X[i]*b.X[j] + a.Y[i]*b.Y[j] + a.Z[i]*b.Z[j]) / math.Sqrt(n2)
	return math.Max(-1, math.Min(1, c))
}
