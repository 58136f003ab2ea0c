// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

// cursor names a single trie node, in either tier, by the addressing each
// tier's own childTarget already produces: a dense-local node index while
// inDense is true, a sparse-local node index otherwise.
type cursor struct {
	inDense bool
	nodeIdx uint32
}

// frame records one step of a matching descent: the node the step started
// from and the path accumulated before taking this step's edge. Frames let
// MoveToKeyGreaterThan/MoveToKeyLessThan backtrack to an ancestor and
// resume the search for a sibling edge without re-walking from the root.
type frame struct {
	cur  cursor
	path []byte
}

// Iterator names a single position in sorted key order, produced by
// MoveToFirst, MoveToLast, MoveToKeyGreaterThan or MoveToKeyLessThan, and
// advanced with Next/Prev. A zero-value-ish invalid Iterator (Valid()
// false) marks a position before the first or after the last key.
type Iterator struct {
	surf     *SuRF
	key      []byte
	valid    bool
	hasValue bool
	value    uint64
	maybe    bool
}

// Valid reports whether the iterator names a real key.
func (it *Iterator) Valid() bool {
	return it != nil && it.valid
}

// Key returns the current key. Only meaningful when Valid.
func (it *Iterator) Key() []byte {
	return it.key
}

// Value returns the value recorded alongside the current key, if any.
func (it *Iterator) Value() (uint64, bool) {
	return it.value, it.hasValue
}

// MaybePositive reports whether the current position was resolved via an
// ambiguous (hash-only) suffix comparison rather than a conclusive one.
// Iterator positions are resolved from the trie path alone, without a
// suffix comparison, so it always reports false.
func (it *Iterator) MaybePositive() bool {
	return it.maybe
}

// Next returns an iterator at the next key in sorted order, or an invalid
// iterator if the current key is the last one. Each call re-descends from
// the root rather than retracing a cached path; see DESIGN.md.
func (it *Iterator) Next() *Iterator {
	if !it.Valid() {
		return &Iterator{surf: it.surf}
	}
	return it.surf.MoveToKeyGreaterThan(it.key, false)
}

// Prev returns an iterator at the previous key in sorted order, or an
// invalid iterator if the current key is the first one.
func (it *Iterator) Prev() *Iterator {
	if !it.Valid() {
		return &Iterator{surf: it.surf}
	}
	return it.surf.MoveToKeyLessThan(it.key, false)
}

// rootCursor names the trie's root, in whichever tier holds it.
func (f *SuRF) rootCursor() cursor {
	if f.dense.height > 0 {
		return cursor{inDense: true, nodeIdx: 0}
	}
	return cursor{inDense: false, nodeIdx: 0}
}

// follow takes the edge labeled c from cur. ok is false when no such edge
// exists. When ok is true and isLeaf is true, the edge terminates at a
// stored key whose suffix/value lives at leafIdx in leafInDense's tier's
// local stores (leafInDense selects which tier). When ok is true and
// isLeaf is false, next names the node the edge leads to.
func (f *SuRF) follow(cur cursor, c byte) (next cursor, isLeaf bool, leafIdx uint32, leafInDense bool, ok bool) {
	if cur.inDense {
		p := cur.nodeIdx*256 + uint32(c)
		if !f.dense.labelRank.Get(p) {
			return cursor{}, false, 0, false, false
		}
		target, isLeaf2, leafIdx2 := f.dense.childTarget(cur.nodeIdx, c)
		if isLeaf2 {
			return cursor{}, true, leafIdx2, true, true
		}
		if target < f.dense.nodeCount {
			return cursor{inDense: true, nodeIdx: target}, false, 0, false, true
		}
		return cursor{inDense: false, nodeIdx: target - f.dense.nodeCount}, false, 0, false, true
	}

	start, end := f.sparse.nodeBounds(cur.nodeIdx)
	pos, found := f.sparse.labels.Search(start, end, c)
	if !found {
		return cursor{}, false, 0, false, false
	}
	target, isLeaf2, leafIdx2 := f.sparse.childTarget(pos)
	if isLeaf2 {
		return cursor{}, true, leafIdx2, false, true
	}
	return cursor{inDense: false, nodeIdx: target - f.sparse.nodeCountDense}, false, 0, false, true
}

// isKeyCursor reports whether cur's node is itself a stored key.
func (f *SuRF) isKeyCursor(cur cursor) bool {
	if cur.inDense {
		return f.dense.prefixRank.Get(cur.nodeIdx)
	}
	return f.sparse.isKeyNode(cur.nodeIdx)
}

// keyValueAt returns the value recorded for cur's own prefix-key bit, if
// cur names a node that is itself a stored key.
func (f *SuRF) keyValueAt(cur cursor) (uint64, bool) {
	if cur.inDense {
		return f.dense.prefixValue(cur.nodeIdx)
	}
	return f.sparse.prefixValue(cur.nodeIdx)
}

// leafValue returns the value stored for a leaf edge, given the tier it
// terminates in.
func (f *SuRF) leafValue(leafIdx uint32, leafInDense bool) uint64 {
	if leafInDense {
		return f.dense.values.Get(leafIdx)
	}
	return f.sparse.values.Get(leafIdx)
}

// makeLeafIterator builds a valid Iterator for a leaf edge reached at
// path, pulling its value from the appropriate tier's ValueStore.
func (f *SuRF) makeLeafIterator(path []byte, leafIdx uint32, leafInDense bool) *Iterator {
	return &Iterator{surf: f, key: path, valid: true, hasValue: true, value: f.leafValue(leafIdx, leafInDense)}
}

// makeKeyIterator builds a valid Iterator for a landing directly on a
// prefix-key node named by cur.
func (f *SuRF) makeKeyIterator(path []byte, cur cursor) *Iterator {
	v, _ := f.keyValueAt(cur)
	return &Iterator{surf: f, key: path, valid: true, hasValue: true, value: v}
}

// descendSmallest walks from cur down its smallest-label children,
// returning the smallest key in cur's subtree, its value and whether one
// was found. When skipKeyCheck is true, cur's own prefix-key status is
// ignored for exactly this one node (used when cur itself names the
// query key and a strictly-greater key is wanted).
func (f *SuRF) descendSmallest(path []byte, cur cursor, skipKeyCheck bool) ([]byte, uint64, bool) {
	for {
		if !skipKeyCheck {
			if v, isKey := f.keyValueAt(cur); isKey {
				return path, v, true
			}
		}
		skipKeyCheck = false

		var c byte
		var ok bool
		if cur.inDense {
			c, ok = f.dense.firstSetLabel(cur.nodeIdx)
		} else {
			_, c, ok = f.sparse.firstRealLabel(cur.nodeIdx)
		}
		if !ok {
			return nil, 0, false
		}

		next, isLeaf, leafIdx, leafInDense, _ := f.follow(cur, c)
		path = append(path, c)
		if isLeaf {
			return path, f.leafValue(leafIdx, leafInDense), true
		}
		cur = next
	}
}

// descendLargest walks from cur down its largest-label children,
// returning the largest key in cur's subtree, its value and whether one
// was found. A node with any outgoing edge always has a larger key
// somewhere beneath it than its own prefix-key value, so unlike
// descendSmallest this never needs to check cur's own key status.
func (f *SuRF) descendLargest(path []byte, cur cursor) ([]byte, uint64, bool) {
	for {
		var c byte
		var ok bool
		if cur.inDense {
			c, ok = f.dense.lastSetLabel(cur.nodeIdx)
		} else {
			_, c, ok = f.sparse.lastRealLabel(cur.nodeIdx)
		}
		if !ok {
			return nil, 0, false
		}

		next, isLeaf, leafIdx, leafInDense, _ := f.follow(cur, c)
		path = append(path, c)
		if isLeaf {
			return path, f.leafValue(leafIdx, leafInDense), true
		}
		cur = next
	}
}

// MoveToFirst returns an iterator at the smallest stored key.
func (f *SuRF) MoveToFirst() *Iterator {
	path, v, ok := f.descendSmallest(nil, f.rootCursor(), false)
	if !ok {
		return &Iterator{surf: f}
	}
	return &Iterator{surf: f, key: path, valid: true, hasValue: true, value: v}
}

// MoveToLast returns an iterator at the largest stored key.
func (f *SuRF) MoveToLast() *Iterator {
	path, v, ok := f.descendLargest(nil, f.rootCursor())
	if !ok {
		return &Iterator{surf: f}
	}
	return &Iterator{surf: f, key: path, valid: true, hasValue: true, value: v}
}

// backtrackGreater resumes a failed/exhausted greater-than descent at the
// deepest frame first, looking for a sibling edge labeled strictly
// greater than the byte that descent used at that frame (key[i]), then
// descending to that sibling's smallest key. It falls back to
// progressively shallower frames when a frame has no such sibling.
func (f *SuRF) backtrackGreater(frames []frame, key []byte) *Iterator {
	for i := len(frames) - 1; i >= 0; i-- {
		fr := frames[i]

		var nc byte
		var ok bool
		if fr.cur.inDense {
			nc, ok = f.dense.nextSetLabelAfter(fr.cur.nodeIdx, int(key[i]))
		} else {
			_, nc, ok = f.sparse.nextLabelAfter(fr.cur.nodeIdx, key[i])
		}
		if !ok {
			continue
		}

		next, isLeaf, leafIdx, leafInDense, _ := f.follow(fr.cur, nc)
		newPath := append(append([]byte(nil), fr.path...), nc)
		if isLeaf {
			return f.makeLeafIterator(newPath, leafIdx, leafInDense)
		}
		sub, v, ok2 := f.descendSmallest(newPath, next, false)
		if ok2 {
			return &Iterator{surf: f, key: sub, valid: true, hasValue: true, value: v}
		}
		return &Iterator{surf: f}
	}
	return &Iterator{surf: f}
}

// backtrackLess is backtrackGreater's mirror: it looks for a sibling edge
// labeled strictly less than key[i] at each frame, descending to that
// sibling's largest key. A smaller sibling, when one exists, always wins
// over an ancestor prefix-key candidate (it shares a longer prefix with
// key). Only when a frame's node has no smaller sibling at all does its
// own prefix-key status become a fallback candidate: the node's own path
// is itself a key strictly less than key (a prefix always sorts before
// any of its extensions).
func (f *SuRF) backtrackLess(frames []frame, key []byte) *Iterator {
	for i := len(frames) - 1; i >= 0; i-- {
		fr := frames[i]

		var pc byte
		var ok bool
		if fr.cur.inDense {
			pc, ok = f.dense.prevSetLabelBefore(fr.cur.nodeIdx, int(key[i]))
		} else {
			_, pc, ok = f.sparse.prevLabelBefore(fr.cur.nodeIdx, key[i])
		}
		if ok {
			next, isLeaf, leafIdx, leafInDense, _ := f.follow(fr.cur, pc)
			newPath := append(append([]byte(nil), fr.path...), pc)
			if isLeaf {
				return f.makeLeafIterator(newPath, leafIdx, leafInDense)
			}
			sub, v, ok2 := f.descendLargest(newPath, next)
			if ok2 {
				return &Iterator{surf: f, key: sub, valid: true, hasValue: true, value: v}
			}
			return &Iterator{surf: f}
		}

		if f.isKeyCursor(fr.cur) {
			return f.makeKeyIterator(append([]byte(nil), fr.path...), fr.cur)
		}
	}
	return &Iterator{surf: f}
}

// MoveToKeyGreaterThan returns an iterator at the smallest stored key
// greater than (or, if inclusive, greater than or equal to) key.
func (f *SuRF) MoveToKeyGreaterThan(key []byte, inclusive bool) *Iterator {
	cur := f.rootCursor()
	var path []byte
	var frames []frame

	for depth := 0; depth < len(key); depth++ {
		c := key[depth]
		frames = append(frames, frame{cur: cur, path: append([]byte(nil), path...)})

		next, isLeaf, leafIdx, leafInDense, ok := f.follow(cur, c)
		if !ok {
			return f.backtrackGreater(frames, key)
		}
		if isLeaf {
			path = append(path, c)
			if depth+1 == len(key) && inclusive {
				return f.makeLeafIterator(path, leafIdx, leafInDense)
			}
			return f.backtrackGreater(frames, key)
		}
		path = append(path, c)
		cur = next
	}

	if inclusive && f.isKeyCursor(cur) {
		return f.makeKeyIterator(path, cur)
	}
	sub, v, ok := f.descendSmallest(append([]byte(nil), path...), cur, true)
	if ok {
		return &Iterator{surf: f, key: sub, valid: true, hasValue: true, value: v}
	}
	return &Iterator{surf: f}
}

// MoveToKeyLessThan returns an iterator at the largest stored key less
// than (or, if inclusive, less than or equal to) key.
func (f *SuRF) MoveToKeyLessThan(key []byte, inclusive bool) *Iterator {
	cur := f.rootCursor()
	var path []byte
	var frames []frame

	for depth := 0; depth < len(key); depth++ {
		c := key[depth]
		frames = append(frames, frame{cur: cur, path: append([]byte(nil), path...)})

		next, isLeaf, leafIdx, leafInDense, ok := f.follow(cur, c)
		if !ok {
			return f.backtrackLess(frames, key)
		}
		if isLeaf {
			path = append(path, c)
			if depth+1 == len(key) {
				if inclusive {
					return f.makeLeafIterator(path, leafIdx, leafInDense)
				}
				return f.backtrackLess(frames, key)
			}
			// A strict prefix of key with no children of its own: nothing
			// can sort between it and key, so it is already the answer.
			return f.makeLeafIterator(path, leafIdx, leafInDense)
		}
		path = append(path, c)
		cur = next
	}

	if inclusive && f.isKeyCursor(cur) {
		return f.makeKeyIterator(path, cur)
	}
	return f.backtrackLess(frames, key)
}
