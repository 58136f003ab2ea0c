// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

import (
	"errors"
	"testing"
)

func sortedKeys(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestBuildRejectsUnorderedInput(t *testing.T) {
	t.Parallel()

	_, err := Build(sortedKeys("banana", "apple"), nil, DefaultBuildConfig())
	if err == nil {
		t.Fatal("Build() with unordered keys should error")
	}
	var uoe *UnorderedInputError
	if !errors.As(err, &uoe) {
		t.Fatalf("error = %v, want *UnorderedInputError", err)
	}
	if !errors.Is(err, ErrUnorderedInput) {
		t.Fatal("errors.Is(err, ErrUnorderedInput) = false")
	}
}

func TestBuildIgnoresConsecutiveDuplicates(t *testing.T) {
	t.Parallel()

	f, err := Build(sortedKeys("apple", "apple", "banana"), nil, DefaultBuildConfig())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !f.LookupKey([]byte("apple")) {
		t.Error("LookupKey(apple) = false, want true")
	}
	if !f.LookupKey([]byte("banana")) {
		t.Error("LookupKey(banana) = false, want true")
	}
}

func TestBuildEmptyKeySet(t *testing.T) {
	t.Parallel()

	f, err := Build(nil, nil, DefaultBuildConfig())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if f.LookupKey([]byte("anything")) {
		t.Error("LookupKey on an empty filter should always be false")
	}
	if it := f.MoveToFirst(); it.Valid() {
		t.Error("MoveToFirst() on an empty filter should be invalid")
	}
}

func TestBuildForcedAllSparse(t *testing.T) {
	t.Parallel()

	cfg := DefaultBuildConfig()
	cfg.IncludeDense = false

	keys := sortedKeys("app", "apple", "application", "apply", "banana", "band", "bandana")
	f, err := Build(keys, nil, cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := f.GetSparseStartLevel(); got != 0 {
		t.Fatalf("GetSparseStartLevel() = %d, want 0", got)
	}
	for _, k := range keys {
		if !f.LookupKey(k) {
			t.Errorf("LookupKey(%q) = false, want true", k)
		}
	}
}
