// Package histogram holds the (radial bin, angular bin) accumulators filled by
// pair-counting workers and the reduction of per-worker partials.
package histogram

import "fmt"

// Partial is one worker's private histogram, stored radial-major:
// entry (i, j) lives at i*NMu + j.
type Partial struct {
	NS    int
	NMu   int
	Count []uint64
	WSum  []float64
	SSum  []float64 // nil unless separation sums are enabled
}

// New allocates an empty histogram.
func New(ns, nmu int, savg bool) *Partial {
	n := ns * nmu
	p := &Partial{
		NS:    ns,
		NMu:   nmu,
		Count: make([]uint64, n),
		WSum:  make([]float64, n),
	}
	if savg {
		p.SSum = make([]float64, n)
	}
	return p
}

// Bytes returns the memory footprint of a histogram with the given shape.
func Bytes(ns, nmu int, savg bool) int64 {
	per := int64(8 + 8)
	if savg {
		per += 8
	}
	return int64(ns) * int64(nmu) * per
}

// Add accumulates one pair at radial bin i and angular bin j.
func (p *Partial) Add(i, j int, s, w float64) {
	k := i*p.NMu + j
	p.Count[k]++
	p.WSum[k] += w
	if p.SSum != nil {
		p.SSum[k] += s
	}
}

// Merge adds other into p element-wise.
func (p *Partial) Merge(other *Partial) error {
	if other.NS != p.NS || other.NMu != p.NMu {
		return fmt.Errorf("histogram: cannot merge %dx%d into %dx%d", other.NS, other.NMu, p.NS, p.NMu)
	}
	if (other.SSum == nil) != (p.SSum == nil) {
		return fmt.Errorf("histogram: separation sums enabled on one side only")
	}
	for k := range p.Count {
		p.Count[k] += other.Count[k]
		p.WSum[k] += other.WSum[k]
	}
	if p.SSum != nil {
		for k := range p.SSum {
			p.SSum[k] += other.SSum[k]
		}
	}
	return nil
}

// Reduce sums partials into a new histogram. Nil partials are skipped,
// so workers that never received work need not allocate.
func Reduce(ns, nmu int, savg bool, parts []*Partial) (*Partial, error) {
	out := New(ns, nmu, savg)
	for _, p := range parts {
		if p == nil {
			continue
		}
		if err := out.Merge(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Total returns the pair count over all bins.
func (p *Partial) Total() uint64 {
	var n uint64
	for _, c := range p.Count {
		n += c
	}
	return n
}

// WeightAvg returns WSum/Count at (i, j), or 0 for an empty bin.
func (p *Partial) WeightAvg(i, j int) float64 {
	k := i*p.NMu + j
	if p.Count[k] == 0 {
		return 0
	}
	return p.WSum[k] / float64(p.Count[k])
}

// SAvg returns SSum/Count at (i, j), or 0 for an empty bin or when
// separation sums are disabled.
func (p *Partial) SAvg(i, j int) float64 {
	k := i*p.NMu + j
	if p.SSum == nil || p.Count[k] == 0 {
		return 0
	}
	return p.SSum[k] / float64(p.Count[k])
}
