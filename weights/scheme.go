package weights

import (
	"fmt"
	"strings"
)

// Scheme is the rule that turns two per-point weight payloads into one pair weight.
type Scheme uint8

const (
	// None weighs every pair 1.
	None Scheme = iota
	// PairProduct multiplies the scalar weights of both points.
	PairProduct
	// InverseBitwise applies the inverse-probability weight of two bit masks
	// times the product of the trailing scalar weights.
	InverseBitwise
)

// String returns the canonical weight method name.
func (s Scheme) String() string {
	switch s {
	case None:
		return "none"
	case PairProduct:
		return "pair_product"
	case InverseBitwise:
		return "inverse_bitwise"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// ParseScheme parses a weight method name ("none", "pair_product", "inverse_bitwise").
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "pair_product":
		return PairProduct, nil
	case "inverse_bitwise":
		return InverseBitwise, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
}
