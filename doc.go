// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package surf implements SuRF, a succinct range filter: a two-level
// LOUDS-encoded trie that supports approximate point lookups and,
// unlike a Bloom filter, approximate range-emptiness queries, at a
// memory cost close to a hash-based filter's.
//
// A SuRF is built once from a sorted key set via Build and is
// immutable afterward. Its upper levels are encoded densely (a 256-bit
// label/child bitmap per node) and its lower levels sparsely (parallel
// label/has-child/louds arrays over only the edges that exist); the
// cutover level is chosen automatically from BuildConfig.SparseDenseRatio.
// Leaves optionally carry a few suffix bits (SuffixType) to cut down the
// false-positive rate without storing full keys.
package surf
