// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

import "math/bits"

// selectSampleInterval samples every S-th one-bit position, per the
// design's S=64 sampling rate.
const selectSampleInterval = 64

// SelectIndex augments a BitVector with sampled 1-bit positions so
// Select1 runs in expected O(1): scan forward from the nearest sample
// using word-level popcount and bit isolation.
type SelectIndex struct {
	bv      *BitVector
	samples []uint32 // samples[j] = position of the (j*S+1)-th one-bit, 1-indexed
}

// NewSelectIndex builds the sample table over bv. bv must not be mutated
// afterward; SelectIndex holds a reference to it.
func NewSelectIndex(bv *BitVector) *SelectIndex {
	words := bv.Words()
	samples := make([]uint32, 0, bv.PopCount()/selectSampleInterval+1)

	var seen uint32
	for wIdx, w := range words {
		for w != 0 {
			if seen%selectSampleInterval == 0 {
				pos := uint32(wIdx*64 + bits.TrailingZeros64(w))
				samples = append(samples, pos)
			}
			seen++
			w &= w - 1
		}
	}

	return &SelectIndex{bv: bv, samples: samples}
}

// Select1 returns the position of the k-th (1-indexed) one-bit, or
// (0, false) if the vector has fewer than k one-bits.
func (s *SelectIndex) Select1(k uint32) (uint32, bool) {
	if k == 0 {
		return 0, false
	}

	sampleIdx := (k - 1) / selectSampleInterval
	if int(sampleIdx) >= len(s.samples) {
		return 0, false
	}

	remaining := (k - 1) % selectSampleInterval
	pos := s.samples[sampleIdx]

	words := s.bv.Words()
	wIdx := int(pos) / 64
	bitOff := uint(pos) % 64

	// shifted holds the current word with bits below the cursor cleared.
	shifted := (words[wIdx] >> bitOff) << bitOff

	// consume the sample bit itself, then walk `remaining` more ones.
	for remaining > 0 {
		shifted &= shifted - 1 // clear the lowest set bit
		for shifted == 0 {
			wIdx++
			if wIdx >= len(words) {
				return 0, false
			}
			shifted = words[wIdx]
		}
		remaining--
	}

	tz := bits.TrailingZeros64(shifted)
	return uint32(wIdx*64 + tz), true
}

// Len returns the number of bits in the underlying vector.
func (s *SelectIndex) Len() uint32 {
	return s.bv.numBits
}
