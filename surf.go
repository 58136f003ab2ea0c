// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

import (
	"bytes"
	"iter"
)

// SuRF is an immutable succinct range filter: a two-tier LOUDS trie (a
// dense upper tier plus a sparse lower tier) that answers approximate
// membership and range-emptiness queries with a bounded false-positive
// rate, built once from a sorted key set via Build.
type SuRF struct {
	cfg    BuildConfig
	dense  *DenseTier
	sparse *SparseTier
}

// Config returns the BuildConfig this filter was built with.
func (f *SuRF) Config() BuildConfig {
	return f.cfg
}

// LookupKey reports whether key is (possibly) a member of the filter.
// A false return is conclusive; a true return may be a false positive
// when the configured SuffixType cannot rule one out.
func (f *SuRF) LookupKey(key []byte) bool {
	found, _ := f.lookupKey(key)
	return found
}

// lookupKey is LookupKey's internal form, additionally reporting whether
// the positive result came from an ambiguous suffix comparison.
func (f *SuRF) lookupKey(key []byte) (found, maybe bool) {
	if f.dense.height == 0 {
		found, maybe = f.sparse.LookupKey(0, key, 0)
		return found, maybe
	}

	found, continueSparse, maybe, sparseNode := f.dense.LookupKey(key)
	if !continueSparse {
		return found, maybe
	}

	depth := int(f.dense.height)
	return f.sparse.LookupKey(sparseNode, key, depth)
}

// LookupRange reports whether the filter may contain a key in the range
// bounded by lo and hi, honoring each bound's inclusivity. A false return
// is conclusive; a true return may be a false positive.
func (f *SuRF) LookupRange(lo []byte, loInclusive bool, hi []byte, hiInclusive bool) bool {
	it := f.MoveToKeyGreaterThan(lo, loInclusive)
	if !it.Valid() {
		return false
	}
	cmp := bytes.Compare(it.Key(), hi)
	if hiInclusive {
		return cmp <= 0
	}
	return cmp < 0
}

// ApproxCount returns the number of stored keys in [lo, hi] (hi always
// inclusive, matching the original's approxCount signature). Unlike the
// original's O(1) position-subtraction estimate, this walks the matching
// keys via the iterator, so the count it returns is exact rather than
// approximate; see DESIGN.md.
func (f *SuRF) ApproxCount(lo, hi []byte) uint64 {
	it := f.MoveToKeyGreaterThan(lo, true)
	var count uint64
	for it.Valid() && bytes.Compare(it.Key(), hi) <= 0 {
		count++
		it = it.Next()
	}
	return count
}

// GetHeight returns the trie's total depth in levels, dense plus sparse.
func (f *SuRF) GetHeight() uint32 {
	return f.dense.height + uint32(len(f.sparse.levelCuts))
}

// GetSparseStartLevel returns the level at which the sparse tier begins.
func (f *SuRF) GetSparseStartLevel() uint32 {
	return f.dense.height
}

// GetMemoryUsage returns an approximate in-memory byte count.
func (f *SuRF) GetMemoryUsage() uint64 {
	return f.dense.memoryUsage() + f.sparse.memoryUsage()
}

// All iterates every stored key in sorted order, stopping early if yield
// returns false. It is built on MoveToFirst/Next, so it shares their
// per-step re-descent cost rather than holding a cached path; see
// DESIGN.md.
func (f *SuRF) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		it := f.MoveToFirst()
		for it.Valid() {
			if !yield(it.Key()) {
				return
			}
			it = it.Next()
		}
	}
}
