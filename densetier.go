// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

// DenseTier holds the upper trie levels, one 256-bit label_bitmap and one
// 256-bit child_bitmap per node, plus a one-bit-per-node prefix-key flag.
// Nodes are laid out and numbered in level order, node 0 being the root.
type DenseTier struct {
	height    uint32
	levelCuts []uint32

	labelBV *BitVector
	childBV *BitVector
	prefixBV *BitVector

	labelRank  *RankIndex
	childRank  *RankIndex
	prefixRank *RankIndex

	suffixes     *SuffixStore
	values       *ValueStore
	prefixValues *ValueStore

	nodeCount uint32
}

func newDenseTier() *DenseTier {
	return &DenseTier{
		labelBV:  NewBitVector(),
		childBV:  NewBitVector(),
		prefixBV: NewBitVector(),
	}
}

// addNode appends one dense node's 256-bit label/child bitmaps and its
// prefix-key bit, in node-number order. Leaf edges (label set, child
// unset) append their suffix/value to this tier's local stores.
func (d *DenseTier) addNode(n *trieNode, cfg BuildConfig) {
	if d.suffixes == nil {
		d.suffixes = NewSuffixStore(cfg.SuffixType, cfg.HashLen, cfg.RealLen)
		d.values = &ValueStore{}
		d.prefixValues = &ValueStore{}
	}

	for c := 0; c < 256; c++ {
		child, ok := n.children.Get(uint(c))
		labelSet := ok
		childSet := ok && child.children.Len() > 0

		d.labelBV.Append(labelSet)
		d.childBV.Append(childSet)

		if labelSet && !childSet {
			depth := n.level + 1
			d.suffixes.Append(child.key, depth)
			d.values.Append(child.value)
		}
	}

	d.prefixBV.Append(n.isKey)
	if n.isKey {
		d.prefixValues.Append(n.value)
	}

	d.nodeCount++
}

func (d *DenseTier) finalize() {
	d.height = uint32(len(d.levelCuts))
	if d.suffixes == nil {
		d.suffixes = NewSuffixStore(SuffixNone, 0, 0)
		d.values = &ValueStore{}
		d.prefixValues = &ValueStore{}
	}
	d.labelRank = NewRankIndex(d.labelBV)
	d.childRank = NewRankIndex(d.childBV)
	d.prefixRank = NewRankIndex(d.prefixBV)
}

// prefixValue returns the value recorded for nodeIdx's own prefix-key
// bit, if nodeIdx is itself a stored key.
func (d *DenseTier) prefixValue(nodeIdx uint32) (uint64, bool) {
	if !d.prefixRank.Get(nodeIdx) {
		return 0, false
	}
	idx := d.prefixRank.Rank1(nodeIdx+1) - 1
	return d.prefixValues.Get(idx), true
}

// leafIndex returns the tier-local leaf (suffix/value) index for the
// leaf-terminated position p: the count of (label set, child unset)
// positions at or before p, 0-indexed.
func (d *DenseTier) leafIndex(p uint32) uint32 {
	return d.labelRank.Rank1(p+1) - d.childRank.Rank1(p+1) - 1
}

// LookupKey walks the dense tier for key starting at the root.
//
// When the walk resolves entirely within the dense tier, found reports
// membership and continueSparse is false. When the walk reaches the
// dense/sparse boundary, continueSparse is true and sparseNodeNum names
// the sparse-local node to resume at. maybe reports a suffix comparison
// that could not rule out a false positive (SuffixHash/SuffixMixed
// ambiguity).
func (d *DenseTier) LookupKey(key []byte) (found, continueSparse, maybe bool, sparseNodeNum uint32) {
	nodeIdx := uint32(0)

	for lvl := 0; lvl < int(d.height); lvl++ {
		if lvl >= len(key) {
			return d.prefixRank.Get(nodeIdx), false, false, 0
		}

		c := key[lvl]
		p := nodeIdx*256 + uint32(c)

		if !d.labelRank.Get(p) {
			return false, false, false, 0
		}

		if !d.childRank.Get(p) {
			leafIdx := d.leafIndex(p)
			cmp := d.suffixes.CmpSuffix(leafIdx, key, lvl+1)
			if cmp == kCouldBePositive {
				return true, false, true, 0
			}
			return cmp == 0, false, false, 0
		}

		target := d.childRank.Rank1(p + 1)
		if target < d.nodeCount {
			nodeIdx = target
			continue
		}

		return false, true, false, target - d.nodeCount
	}

	// Every dense level either resolves (label unset, leaf, prefix-key) or
	// hands off to sparse before the loop runs out, so this is reached
	// only when height == 0 (no dense tier at all): hand straight to
	// sparse at the root.
	return false, true, false, 0
}

// firstSetLabel returns the smallest label set in node nodeIdx's 256-wide
// bitmap, if any.
func (d *DenseTier) firstSetLabel(nodeIdx uint32) (byte, bool) {
	base := nodeIdx * 256
	for c := 0; c < 256; c++ {
		if d.labelRank.Get(base + uint32(c)) {
			return byte(c), true
		}
	}
	return 0, false
}

// lastSetLabel returns the largest label set in node nodeIdx's bitmap, if
// any.
func (d *DenseTier) lastSetLabel(nodeIdx uint32) (byte, bool) {
	base := nodeIdx * 256
	for c := 255; c >= 0; c-- {
		if d.labelRank.Get(base + uint32(c)) {
			return byte(c), true
		}
	}
	return 0, false
}

// nextSetLabelAfter returns the smallest label strictly greater than
// after that is set in node nodeIdx's bitmap, if any.
func (d *DenseTier) nextSetLabelAfter(nodeIdx uint32, after int) (byte, bool) {
	base := nodeIdx * 256
	for c := after + 1; c < 256; c++ {
		if d.labelRank.Get(base + uint32(c)) {
			return byte(c), true
		}
	}
	return 0, false
}

// prevSetLabelBefore returns the largest label strictly smaller than
// before that is set in node nodeIdx's bitmap, if any.
func (d *DenseTier) prevSetLabelBefore(nodeIdx uint32, before int) (byte, bool) {
	base := nodeIdx * 256
	for c := before - 1; c >= 0; c-- {
		if d.labelRank.Get(base + uint32(c)) {
			return byte(c), true
		}
	}
	return 0, false
}

// childTarget reports what edge (nodeIdx, label) leads to: either a leaf
// (with its tier-local leaf index) or another node (dense if target <
// nodeCount, otherwise sparse, named by global node number).
func (d *DenseTier) childTarget(nodeIdx uint32, label byte) (target uint32, isLeaf bool, leafIdx uint32) {
	p := nodeIdx*256 + uint32(label)
	if !d.childRank.Get(p) {
		return 0, true, d.leafIndex(p)
	}
	return d.childRank.Rank1(p + 1), false, 0
}

// memoryUsage returns an approximate byte count for this tier's arrays.
func (d *DenseTier) memoryUsage() uint64 {
	bits := func(v *BitVector) uint64 { return uint64(len(v.Words())) * 8 }
	return bits(d.labelBV) + bits(d.childBV) + bits(d.prefixBV) +
		uint64(len(d.suffixes.bv.Words()))*8 +
		uint64(d.values.Len())*8 + uint64(d.prefixValues.Len())*8
}
