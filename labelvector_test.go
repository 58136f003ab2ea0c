// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

import "testing"

func TestLabelVectorSearch(t *testing.T) {
	t.Parallel()

	var lv LabelVector
	// kTerminator leads the node despite being the maximum byte value.
	for _, b := range []byte{kTerminator, 'a', 'c', 'f'} {
		lv.Append(b)
	}

	tests := []struct {
		target   byte
		wantPos  uint32
		wantOK   bool
	}{
		{'a', 1, true},
		{'c', 2, true},
		{'f', 3, true},
		{'b', 0, false},
		{kTerminator, 0, true},
	}

	for _, tc := range tests {
		pos, ok := lv.Search(0, lv.Len(), tc.target)
		if ok != tc.wantOK {
			t.Errorf("Search(%q) ok = %v, want %v", tc.target, ok, tc.wantOK)
			continue
		}
		if ok && pos != tc.wantPos {
			t.Errorf("Search(%q) pos = %d, want %d", tc.target, pos, tc.wantPos)
		}
	}
}

func TestLabelVectorSearchGreaterThanSkipsTerminator(t *testing.T) {
	t.Parallel()

	var lv LabelVector
	for _, b := range []byte{kTerminator, 'a', 'c', 'f'} {
		lv.Append(b)
	}

	pos, ok := lv.SearchGreaterThan(0, lv.Len(), 'a')
	if !ok || lv.Get(pos) != 'c' {
		t.Fatalf("SearchGreaterThan('a') = (%d, %v), want label 'c'", pos, ok)
	}

	// Nothing is greater than 'f' among the real labels, and kTerminator
	// (0xFF) must never be returned as if it were a real successor.
	if _, ok := lv.SearchGreaterThan(0, lv.Len(), 'f'); ok {
		t.Fatal("SearchGreaterThan('f') should find nothing")
	}
}
