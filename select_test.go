// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

import "testing"

func TestSelectIndexMatchesLinearScan(t *testing.T) {
	t.Parallel()

	v := NewBitVector()
	var onePositions []uint32
	for i := 0; i < 3000; i++ {
		bit := (i*2654435761)%11 == 0
		v.Append(bit)
		if bit {
			onePositions = append(onePositions, uint32(i))
		}
	}

	sel := NewSelectIndex(v)

	for k, want := range onePositions {
		got, ok := sel.Select1(uint32(k) + 1)
		if !ok {
			t.Fatalf("Select1(%d) not found, want %d", k+1, want)
		}
		if got != want {
			t.Fatalf("Select1(%d) = %d, want %d", k+1, got, want)
		}
	}

	if _, ok := sel.Select1(uint32(len(onePositions)) + 1); ok {
		t.Fatalf("Select1(%d) should not be found", len(onePositions)+1)
	}
}

func TestSelectIndexSampleBoundary(t *testing.T) {
	t.Parallel()

	v := NewBitVector()
	for i := 0; i < selectSampleInterval*3+5; i++ {
		v.Append(true)
	}
	sel := NewSelectIndex(v)

	for k := uint32(1); k <= uint32(selectSampleInterval*3+5); k++ {
		got, ok := sel.Select1(k)
		if !ok || got != k-1 {
			t.Fatalf("Select1(%d) = (%d, %v), want (%d, true)", k, got, ok, k-1)
		}
	}
}

func TestSelectIndexZero(t *testing.T) {
	t.Parallel()

	v := NewBitVector()
	v.Append(true)
	sel := NewSelectIndex(v)
	if _, ok := sel.Select1(0); ok {
		t.Fatal("Select1(0) should not be found")
	}
}
