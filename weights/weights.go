// Package weights implements the pair-weighting schemes of the pair counter.
//
// Each point set carries one weight payload variant matching the configured
// Scheme:
//
//   - Unweighted for None
//   - Product (one scalar per point) for PairProduct
//   - Bitwise (one or more 64-bit mask components plus a trailing scalar) for InverseBitwise
//
// An Engine validates both payloads against the scheme once, before any
// counting starts, and then evaluates pair weights as a pure function of the
// two point indices (and, for angular corrections, the pair's angular cosine).
package weights

import (
	"errors"
	"fmt"
	"math"
)

// MaxComponents is the largest number of weight components per point.
const MaxComponents = 8

var (
	// ErrUnknownScheme is returned for an unrecognized weight method name.
	ErrUnknownScheme = errors.New("weights: unknown weight method")

	// ErrInvalidWeights is returned when payloads do not fit the scheme.
	ErrInvalidWeights = errors.New("weights: invalid weight configuration")

	// ErrLengthMismatch is returned when a weight column does not have one row per point.
	ErrLengthMismatch = errors.New("weights: row count mismatch")

	// ErrInvalidTable is returned for a malformed pair-weight table.
	ErrInvalidTable = errors.New("weights: invalid pair-weight table")
)

// Weights is the per-point weight payload of a point set.
// The implementations in this package are the only valid ones.
type Weights interface {
	// Scheme reports the scheme this payload is shaped for.
	Scheme() Scheme
	// Components returns the number of weight components per point.
	Components() int
	validate(n int) error
}

// Unweighted carries no weights.
type Unweighted struct{}

func (Unweighted) Scheme() Scheme       { return None }
func (Unweighted) Components() int      { return 0 }
func (Unweighted) validate(_ int) error { return nil }

// Product carries one scalar weight per point.
type Product struct {
	W []float64
}

func (Product) Scheme() Scheme  { return PairProduct }
func (Product) Components() int { return 1 }

func (p Product) validate(n int) error {
	if len(p.W) != n {
		return fmt.Errorf("%w: %d weights for %d points", ErrLengthMismatch, len(p.W), n)
	}
	return nil
}

// Bitwise carries bit-mask components and a trailing scalar weight.
// Masks is component-major: Masks[c][i] is component c of point i.
type Bitwise struct {
	Masks [][]uint64
	W     []float64
}

func (Bitwise) Scheme() Scheme    { return InverseBitwise }
func (b Bitwise) Components() int { return len(b.Masks) + 1 }

// Width returns the combined mask width in bits.
func (b Bitwise) Width() int { return len(b.Masks) * WordBits }

func (b Bitwise) validate(n int) error {
	if len(b.Masks) == 0 {
		return fmt.Errorf("%w: inverse_bitwise needs at least one mask component", ErrInvalidWeights)
	}
	for c, col := range b.Masks {
		if len(col) != n {
			return fmt.Errorf("%w: mask component %d has %d rows for %d points", ErrLengthMismatch, c, len(col), n)
		}
	}
	if len(b.W) != n {
		return fmt.Errorf("%w: %d scalar weights for %d points", ErrLengthMismatch, len(b.W), n)
	}
	return nil
}

// maxExactInt is the largest integer a float64 represents without rounding.
const maxExactInt = 1 << 53

// BitwiseFromColumns interprets column-major numeric weight columns the way a
// weight file is auto-detected: every column but the last is a bit mask, the
// last is the scalar weight. Mask values must be non-negative integers that a
// float64 holds exactly.
func BitwiseFromColumns(cols [][]float64) (Bitwise, error) {
	if len(cols) < 2 {
		return Bitwise{}, fmt.Errorf("%w: inverse_bitwise needs >= 2 columns, got %d", ErrInvalidWeights, len(cols))
	}
	if len(cols) > MaxComponents {
		return Bitwise{}, fmt.Errorf("%w: %d columns exceed the maximum of %d", ErrInvalidWeights, len(cols), MaxComponents)
	}

	n := len(cols[len(cols)-1])
	masks := make([][]uint64, len(cols)-1)
	for c := range masks {
		if len(cols[c]) != n {
			return Bitwise{}, fmt.Errorf("%w: column %d has %d rows, want %d", ErrLengthMismatch, c, len(cols[c]), n)
		}
		masks[c] = make([]uint64, n)
		for i, v := range cols[c] {
			if v < 0 || v != math.Trunc(v) || v > maxExactInt {
				return Bitwise{}, fmt.Errorf("%w: column %d row %d: %g is not an exact bit mask", ErrInvalidWeights, c, i, v)
			}
			masks[c][i] = uint64(v)
		}
	}

	w := make([]float64, n)
	copy(w, cols[len(cols)-1])
	return Bitwise{Masks: masks, W: w}, nil
}

// Validate checks that w has one row per point for n points.
func Validate(w Weights, n int) error {
	if w == nil {
		return nil
	}
	if w.Components() > MaxComponents {
		return fmt.Errorf("%w: %d components exceed the maximum of %d", ErrInvalidWeights, w.Components(), MaxComponents)
	}
	return w.validate(n)
}
