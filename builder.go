// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

import (
	"bytes"

	"github.com/karlsurf/surf/internal/sparse"
)

// trieNode is the builder's in-memory scratch representation of one trie
// position. Builder streams the sorted key set into a full trie first,
// then walks it level by level (BFS) to decide the dense/sparse cutover
// and materialize both tiers' immutable arrays in one pass each.
//
// children is keyed by byte label (0-255), exactly the shape Array256
// was built for: the popcount-compressed bitset marks which labels are
// in use at this node, and Items holds the corresponding child pointers
// in label order, so a node's labels come out sorted for free.
type trieNode struct {
	children sparse.Array256[*trieNode]
	level    int
	number   int // global BFS node number, assigned to internal nodes only
	isKey    bool
	key      []byte // full key bytes, set when isKey is true
	hasValue bool
	value    uint64
}

func newTrieNode(level int) *trieNode {
	return &trieNode{level: level}
}

// sortedLabels returns this node's byte labels in ascending order.
func (n *trieNode) sortedLabels() []byte {
	all := n.children.All()
	labels := make([]byte, len(all))
	for i, u := range all {
		labels[i] = byte(u)
	}
	return labels
}

// insertKey walks/creates the path for key, marking the terminal node and
// recording its value when present.
func insertKey(root *trieNode, key []byte, value uint64, hasValue bool) {
	n := root
	for _, c := range key {
		child, ok := n.children.Get(uint(c))
		if !ok {
			child = newTrieNode(n.level + 1)
			n.children.InsertAt(uint(c), child)
		}
		n = child
	}
	n.isKey = true
	n.key = key
	n.value = value
	n.hasValue = hasValue
}

// Build consumes a sorted, unique key set and constructs an immutable
// SuRF. Keys must be strictly increasing; duplicate consecutive keys are
// ignored. values, if non-nil, must be the same length as keys.
func Build(keys [][]byte, values []uint64, cfg BuildConfig) (*SuRF, error) {
	root := newTrieNode(0)
	maxLevel := 0

	var prev []byte
	havePrev := false
	for i, key := range keys {
		if havePrev {
			c := bytes.Compare(prev, key)
			if c == 0 {
				continue // duplicate consecutive key, ignored
			}
			if c > 0 {
				return nil, unorderedInput(i, prev, key)
			}
		}
		prev = key
		havePrev = true

		var v uint64
		hasValue := false
		if values != nil {
			v = values[i]
			hasValue = true
		}
		insertKey(root, key, v, hasValue)
		if len(key) > maxLevel {
			maxLevel = len(key)
		}
	}

	levels := collectLevels(root, maxLevel)
	denseHeight := decideDenseHeight(levels, cfg)
	assignNodeNumbers(root, levels)

	d := newDenseTier()
	s := newSparseTier(cfg)

	nodeCountDense := 0

	// Materialize dense levels.
	for lvl := 0; lvl < denseHeight && lvl < len(levels); lvl++ {
		for _, n := range levels[lvl] {
			d.addNode(n, cfg)
			nodeCountDense++
		}
		d.levelCuts = append(d.levelCuts, d.nodeCount)
	}
	d.finalize()

	// Materialize sparse levels (including the root when denseHeight==0).
	for lvl := denseHeight; lvl < len(levels); lvl++ {
		for _, n := range levels[lvl] {
			s.addNode(n, cfg)
		}
		s.levelCuts = append(s.levelCuts, s.nodeCount)
	}
	s.nodeCountDense = uint32(nodeCountDense)
	s.startLevel = uint32(denseHeight)
	s.finalize()
	if d.childBV.Len() > 0 {
		s.childCountDense = d.childRank.Rank1(d.childBV.Len())
	}

	return &SuRF{
		cfg:    cfg,
		dense:  d,
		sparse: s,
	}, nil
}

// collectLevels walks the trie BFS and groups nodes by level. Level 0
// holds only the root.
func collectLevels(root *trieNode, maxLevel int) [][]*trieNode {
	levels := make([][]*trieNode, 0, maxLevel+1)
	queue := []*trieNode{root}
	levels = append(levels, []*trieNode{root})

	for len(queue) > 0 {
		next := make([]*trieNode, 0)
		for _, n := range queue {
			for _, c := range n.sortedLabels() {
				child, _ := n.children.Get(uint(c))
				if child.children.Len() > 0 {
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		levels = append(levels, next)
		queue = next
	}
	return levels
}

// assignNodeNumbers gives every internal node (any node with children,
// including the root) a global BFS node number, starting at 0. The order
// matches collectLevels' traversal exactly, so rank1 over a concatenated
// level-order child/has_child bitmap directly yields a target's global
// node number.
func assignNodeNumbers(root *trieNode, levels [][]*trieNode) {
	root.number = 0
	next := 1
	for _, level := range levels {
		for _, n := range level {
			for _, c := range n.sortedLabels() {
				child, _ := n.children.Get(uint(c))
				if child.children.Len() > 0 {
					child.number = next
					next++
				}
			}
		}
	}
}

// denseCostBits approximates the dense encoding cost of one level: one
// 256-bit label_bitmap, one 256-bit child_bitmap and one prefix-key bit
// per node.
func denseCostBits(nodeCount int) int {
	return nodeCount * (256 + 256 + 1)
}

// sparseCostBits approximates the sparse encoding cost of one level: one
// byte label plus one has_child bit plus one louds bit per edge slot
// (including a terminator slot for nodes that are themselves stored
// keys).
func sparseCostBits(level []*trieNode) int {
	slots := 0
	for _, n := range level {
		slots += n.children.Len()
		if n.isKey {
			slots++
		}
	}
	return slots * (8 + 1 + 1)
}

// decideDenseHeight finds the deepest contiguous prefix of levels,
// starting at the root, for which the dense encoding cost does not
// exceed ratio times the sparse encoding cost.
func decideDenseHeight(levels [][]*trieNode, cfg BuildConfig) int {
	if !cfg.IncludeDense {
		return 0
	}

	ratio := cfg.SparseDenseRatio
	if ratio == 0 {
		ratio = defaultSparseDenseRatio
	}

	height := 0
	for _, level := range levels {
		dCost := denseCostBits(len(level))
		sCost := sparseCostBits(level)
		if sCost == 0 {
			// a level with no outgoing edges at all cannot occur except
			// at the very end of the trie; stop growing dense here.
			break
		}
		if uint64(dCost) <= uint64(ratio)*uint64(sCost) {
			height++
		} else {
			break
		}
	}
	return height
}
