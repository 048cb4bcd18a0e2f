package weights

import "github.com/bits-and-blooms/bitset"

// WordBits is the width contributed by each bit-mask component.
const WordBits = 64

// BitVector is a fixed-width bit vector made of 64-bit mask components.
// It shares the words it was built from; callers must not mutate them afterwards.
type BitVector struct {
	set *bitset.BitSet
}

// NewBitVector wraps words as a bit vector of width 64*len(words).
func NewBitVector(words ...uint64) BitVector {
	return BitVector{set: bitset.From(words)}
}

// Width returns the total number of bits.
func (v BitVector) Width() int {
	if v.set == nil {
		return 0
	}
	return int(v.set.Len())
}

// Count returns the population count.
func (v BitVector) Count() int {
	if v.set == nil {
		return 0
	}
	return int(v.set.Count())
}

// AndCount returns popcount(v & o) without allocating.
func (v BitVector) AndCount(o BitVector) int {
	if v.set == nil || o.set == nil {
		return 0
	}
	return int(v.set.IntersectionCardinality(o.set))
}
