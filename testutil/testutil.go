package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Points is a column-major 3-D point cloud.
type Points struct {
	X, Y, Z []float64
}

// Len returns the number of points.
func (p Points) Len() int { return len(p.X) }

// Float32 converts the cloud to single precision.
func (p Points) Float32() (x, y, z []float32) {
	conv := func(src []float64) []float32 {
		dst := make([]float32, len(src))
		for i, v := range src {
			dst[i] = float32(v)
		}
		return dst
	}
	return conv(p.X), conv(p.Y), conv(p.Z)
}

// UniformPoints generates n points uniform in [0, box)^3.
// Locks only once per call.
func (r *RNG) UniformPoints(n int, box float64) Points {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := Points{X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n)}
	for i := range n {
		p.X[i] = r.rand.Float64() * box
		p.Y[i] = r.rand.Float64() * box
		p.Z[i] = r.rand.Float64() * box
	}
	return p
}

// ClusteredPoints generates n points around the given number of centers
// with Gaussian spread, wrapped into [0, box)^3.
func (r *RNG) ClusteredPoints(n, clusters int, spread, box float64) Points {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([][3]float64, clusters)
	for c := range centers {
		for axis := range 3 {
			centers[c][axis] = r.rand.Float64() * box
		}
	}

	p := Points{X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n)}
	for i := range n {
		c := centers[r.rand.Intn(clusters)]
		cols := [3][]float64{p.X, p.Y, p.Z}
		for axis := range 3 {
			v := math.Mod(c[axis]+r.rand.NormFloat64()*spread, box)
			if v < 0 {
				v += box
			}
			cols[axis][i] = v
		}
	}
	return p
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// Masks returns n random 64-bit masks with roughly the given fraction of bits set.
func (r *RNG) Masks(n int, density float64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint64, n)
	for i := range out {
		for b := range 64 {
			if r.rand.Float64() < density {
				out[i] |= 1 << b
			}
		}
	}
	return out
}
