// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

import (
	"github.com/karlsurf/surf/internal/bitset"
)

// BitVector is a packed, growable bit buffer with an explicit bit length.
// It is the raw word storage underneath RankIndex, SelectIndex and
// the sparse tier's has_child/louds streams.
type BitVector struct {
	bits    bitset.BitSet
	numBits uint32
}

// NewBitVector returns an empty BitVector.
func NewBitVector() *BitVector {
	return &BitVector{}
}

// Append pushes one bit onto the end of the vector.
func (v *BitVector) Append(bit bool) {
	if bit {
		v.bits.Set(uint(v.numBits))
	}
	v.numBits++
}

// Len returns the number of bits stored.
func (v *BitVector) Len() uint32 {
	return v.numBits
}

// Get returns the bit at position i.
func (v *BitVector) Get(i uint32) bool {
	return v.bits.Test(uint(i))
}

// Words exposes the underlying 64-bit words, read-only by convention.
func (v *BitVector) Words() []uint64 {
	return v.bits
}

// PopCount returns the number of set bits in [0, v.Len()).
func (v *BitVector) PopCount() uint32 {
	if v.numBits == 0 {
		return 0
	}
	return uint32(v.bits.Rank(uint(v.numBits - 1)))
}
