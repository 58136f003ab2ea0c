// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

// SparseTier holds the lower trie levels, LOUDS-sparse encoded as three
// parallel sequences (labels, has_child, louds) over only the edges that
// actually exist. Sparse node numbering continues directly from the
// dense tier's: global node number = nodeCountDense + sparse-local index.
type SparseTier struct {
	startLevel      uint32
	nodeCountDense  uint32
	childCountDense uint32
	levelCuts       []uint32

	labels     LabelVector
	hasChildBV *BitVector
	loudsBV    *BitVector
	nodeIsKeyBV *BitVector // one bit per node, in node-number order

	hasChildRank  *RankIndex
	loudsRank     *RankIndex
	loudsSelect   *SelectIndex
	nodeIsKeyRank *RankIndex

	suffixes     *SuffixStore
	values       *ValueStore
	prefixValues *ValueStore

	nodeCount uint32
}

func newSparseTier(cfg BuildConfig) *SparseTier {
	return &SparseTier{
		hasChildBV:  NewBitVector(),
		loudsBV:     NewBitVector(),
		nodeIsKeyBV: NewBitVector(),
	}
}

// addNode appends one sparse node's labels/has_child/louds triples, in
// node-number order. A node that is itself a stored key gets a leading
// kTerminator label (the node's "first" label). Leaf edges (has_child
// unset) append their suffix/value to this tier's local stores.
func (s *SparseTier) addNode(n *trieNode, cfg BuildConfig) {
	if s.suffixes == nil {
		s.suffixes = NewSuffixStore(cfg.SuffixType, cfg.HashLen, cfg.RealLen)
		s.values = &ValueStore{}
		s.prefixValues = &ValueStore{}
	}

	s.nodeIsKeyBV.Append(n.isKey)

	first := true
	if n.isKey {
		s.labels.Append(kTerminator)
		s.hasChildBV.Append(false)
		s.loudsBV.Append(true)
		first = false
		s.prefixValues.Append(n.value)
	}

	for _, c := range n.sortedLabels() {
		child, _ := n.children.Get(uint(c))
		childSet := child.children.Len() > 0

		s.labels.Append(c)
		s.hasChildBV.Append(childSet)
		s.loudsBV.Append(first)
		first = false

		if !childSet {
			depth := n.level + 1
			s.suffixes.Append(child.key, depth)
			s.values.Append(child.value)
		}
	}

	s.nodeCount++
}

func (s *SparseTier) finalize() {
	if s.suffixes == nil {
		s.suffixes = NewSuffixStore(SuffixNone, 0, 0)
		s.values = &ValueStore{}
		s.prefixValues = &ValueStore{}
	}
	s.hasChildRank = NewRankIndex(s.hasChildBV)
	s.loudsRank = NewRankIndex(s.loudsBV)
	s.loudsSelect = NewSelectIndex(s.loudsBV)
	s.nodeIsKeyRank = NewRankIndex(s.nodeIsKeyBV)
}

// prefixValue returns the value recorded for localIdx's own prefix-key
// bit, if localIdx is itself a stored key.
func (s *SparseTier) prefixValue(localIdx uint32) (uint64, bool) {
	if !s.nodeIsKeyRank.Get(localIdx) {
		return 0, false
	}
	idx := s.nodeIsKeyRank.Rank1(localIdx+1) - 1
	return s.prefixValues.Get(idx), true
}

// leafIndex returns the tier-local leaf (suffix/value) index for the
// leaf-terminated position p.
func (s *SparseTier) leafIndex(p uint32) uint32 {
	node := s.loudsRank.Rank1(p+1) - 1
	return s.hasChildRank.Rank0(p+1) - s.nodeIsKeyRank.Rank1(node+1) - 1
}

// nodeBounds returns the [start, end) label-array range for sparse-local
// node localIdx.
func (s *SparseTier) nodeBounds(localIdx uint32) (start, end uint32) {
	start, ok := s.loudsSelect.Select1(localIdx + 1)
	if !ok {
		return 0, 0
	}
	end, ok = s.loudsSelect.Select1(localIdx + 2)
	if !ok {
		end = s.labels.Len()
	}
	return start, end
}

// isKeyNode reports whether sparse-local node localIdx is itself a
// stored key (a leading kTerminator label).
func (s *SparseTier) isKeyNode(localIdx uint32) bool {
	start, end := s.nodeBounds(localIdx)
	return start < end && s.labels.Get(start) == kTerminator
}

// childTarget reports what edge at label position pos leads to: either a
// leaf (with its tier-local leaf index) or another node, named by global
// node number.
func (s *SparseTier) childTarget(pos uint32) (target uint32, isLeaf bool, leafIdx uint32) {
	if !s.hasChildRank.Get(pos) {
		return 0, true, s.leafIndex(pos)
	}
	return s.childCountDense + s.hasChildRank.Rank1(pos+1), false, 0
}

// firstRealLabel returns the smallest non-terminator label's position in
// node localIdx, if any.
func (s *SparseTier) firstRealLabel(localIdx uint32) (pos uint32, label byte, ok bool) {
	start, end := s.nodeBounds(localIdx)
	for i := start; i < end; i++ {
		l := s.labels.Get(i)
		if l == kTerminator {
			continue
		}
		return i, l, true
	}
	return 0, 0, false
}

// lastRealLabel returns the largest label's position in node localIdx,
// if any (labels are ascending apart from a possible leading terminator,
// so the last array entry is always the largest real label when one
// exists).
func (s *SparseTier) lastRealLabel(localIdx uint32) (pos uint32, label byte, ok bool) {
	start, end := s.nodeBounds(localIdx)
	if end == start {
		return 0, 0, false
	}
	i := end - 1
	l := s.labels.Get(i)
	if l == kTerminator {
		return 0, 0, false
	}
	return i, l, true
}

// nextLabelAfter returns the smallest label strictly greater than after
// within node localIdx, if any.
func (s *SparseTier) nextLabelAfter(localIdx uint32, after byte) (pos uint32, label byte, ok bool) {
	start, end := s.nodeBounds(localIdx)
	p, found := s.labels.SearchGreaterThan(start, end, after)
	if !found {
		return 0, 0, false
	}
	return p, s.labels.Get(p), true
}

// prevLabelBefore returns the largest non-terminator label strictly
// smaller than before within node localIdx, if any.
func (s *SparseTier) prevLabelBefore(localIdx uint32, before byte) (pos uint32, label byte, ok bool) {
	start, end := s.nodeBounds(localIdx)
	best := uint32(0)
	found := false
	for i := start; i < end; i++ {
		l := s.labels.Get(i)
		if l == kTerminator {
			continue
		}
		if l < before && (!found || l > s.labels.Get(best)) {
			best, found = i, true
		}
	}
	if !found {
		return 0, 0, false
	}
	return best, s.labels.Get(best), true
}

// LookupKey walks the sparse tier starting at sparse-local node
// startLocalNode, matching key from byte offset depth onward.
func (s *SparseTier) LookupKey(startLocalNode uint32, key []byte, depth int) (found, maybe bool) {
	localNode := startLocalNode

	for {
		start, end := s.nodeBounds(localNode)

		if depth >= len(key) {
			return start < end && s.labels.Get(start) == kTerminator, false
		}

		c := key[depth]
		pos, ok := s.labels.Search(start, end, c)
		if !ok {
			return false, false
		}

		target, isLeaf, leafIdx := s.childTarget(pos)
		if isLeaf {
			cmp := s.suffixes.CmpSuffix(leafIdx, key, depth+1)
			if cmp == kCouldBePositive {
				return true, true
			}
			return cmp == 0, false
		}

		localNode = target - s.nodeCountDense
		depth++
	}
}

func (s *SparseTier) memoryUsage() uint64 {
	bits := func(v *BitVector) uint64 { return uint64(len(v.Words())) * 8 }
	return uint64(s.labels.Len()) + bits(s.hasChildBV) + bits(s.loudsBV) + bits(s.nodeIsKeyBV) +
		uint64(len(s.suffixes.bv.Words()))*8 +
		uint64(s.values.Len())*8 + uint64(s.prefixValues.Len())*8
}
