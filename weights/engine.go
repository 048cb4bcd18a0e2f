package weights

import "fmt"

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	table        *PairTable
	offset       int
	defaultValue float64
}

// WithPairTable applies an angular correction to every InverseBitwise pair.
func WithPairTable(t *PairTable) EngineOption {
	return func(o *engineOptions) {
		o.table = t
	}
}

// WithBitwiseOffset sets the InverseBitwise correction to
// (width+offset)/(popcount+offset) and the weight used when the
// denominator is zero.
func WithBitwiseOffset(offset int, defaultValue float64) EngineOption {
	return func(o *engineOptions) {
		o.offset = offset
		o.defaultValue = defaultValue
	}
}

type side struct {
	w    []float64
	bits []BitVector
}

// Engine computes pair weights for one run. It is immutable and safe for
// concurrent use by all workers.
type Engine struct {
	scheme       Scheme
	a, b         side
	table        *PairTable
	correction   float64
	offset       int
	defaultValue float64
}

// NewEngine validates the payloads of both point sets against scheme.
// For autocorrelation pass the same payload and length twice.
// Nil payloads are treated as Unweighted.
func NewEngine(scheme Scheme, a, b Weights, n1, n2 int, optFns ...EngineOption) (*Engine, error) {
	var o engineOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if a == nil {
		a = Unweighted{}
	}
	if b == nil {
		b = Unweighted{}
	}

	if scheme > InverseBitwise {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
	}
	if o.table != nil && scheme != InverseBitwise {
		return nil, fmt.Errorf("%w: pair weights are not accepted with weight method %q", ErrInvalidWeights, scheme)
	}
	if o.offset < 0 {
		return nil, fmt.Errorf("%w: negative bitwise offset %d", ErrInvalidWeights, o.offset)
	}

	for i, w := range []Weights{a, b} {
		if w.Scheme() != scheme {
			return nil, fmt.Errorf("%w: point set %d carries %s weights but weight method is %s",
				ErrInvalidWeights, i+1, w.Scheme(), scheme)
		}
	}
	if a.Components() != b.Components() {
		return nil, fmt.Errorf("%w: point sets have %d and %d weight components",
			ErrInvalidWeights, a.Components(), b.Components())
	}
	if err := Validate(a, n1); err != nil {
		return nil, fmt.Errorf("point set 1: %w", err)
	}
	if err := Validate(b, n2); err != nil {
		return nil, fmt.Errorf("point set 2: %w", err)
	}

	e := &Engine{
		scheme:       scheme,
		table:        o.table,
		offset:       o.offset,
		defaultValue: o.defaultValue,
	}

	switch scheme {
	case PairProduct:
		e.a = side{w: a.(Product).W}
		e.b = side{w: b.(Product).W}
	case InverseBitwise:
		ba, bb := a.(Bitwise), b.(Bitwise)
		e.a = packBitwise(ba)
		e.b = packBitwise(bb)
		e.correction = float64(ba.Width() + o.offset)
	}

	return e, nil
}

// packBitwise lays the mask components of each point out contiguously so
// every point owns one combined bit vector.
func packBitwise(b Bitwise) side {
	n := len(b.W)
	nm := len(b.Masks)
	words := make([]uint64, n*nm)
	bits := make([]BitVector, n)
	for i := range n {
		row := words[i*nm : (i+1)*nm : (i+1)*nm]
		for c := range nm {
			row[c] = b.Masks[c][i]
		}
		bits[i] = NewBitVector(row...)
	}
	return side{w: b.W, bits: bits}
}

// Scheme returns the configured scheme.
func (e *Engine) Scheme() Scheme { return e.scheme }

// NeedsAngle reports whether Pair reads its cosTheta argument.
func (e *Engine) NeedsAngle() bool { return e.table != nil }

// Pair returns the weight of the pair (point i of set 1, point j of set 2).
// cosTheta is the cosine of the 3-D angle between the two position vectors;
// it is only read when NeedsAngle is true.
func (e *Engine) Pair(i, j int, cosTheta float64) float64 {
	switch e.scheme {
	case PairProduct:
		return e.a.w[i] * e.b.w[j]
	case InverseBitwise:
		return e.inverseBitwise(i, j, cosTheta)
	default:
		return 1
	}
}

func (e *Engine) inverseBitwise(i, j int, cosTheta float64) float64 {
	pop := e.a.bits[i].AndCount(e.b.bits[j]) + e.offset
	if pop == 0 {
		return e.defaultValue
	}
	w := e.correction / float64(pop) * e.a.w[i] * e.b.w[j]
	if e.table != nil {
		w *= e.table.At(cosTheta)
	}
	return w
}
