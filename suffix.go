// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

import (
	"github.com/cespare/xxhash/v2"
)

// SuffixStore packs variable-width suffix bits per leaf back-to-back in a
// single bit vector, addressed by leaf index. The bit width per entry is
// fixed for the lifetime of the store (L = HashLen, RealLen, or both,
// depending on SuffixType).
type SuffixStore struct {
	typ      SuffixType
	hashLen  uint32
	realLen  uint32
	bitsLen  uint32 // L, bits per entry
	bv       BitVector
	count    uint32
}

// NewSuffixStore returns an empty store configured for the given type and
// bit widths.
func NewSuffixStore(typ SuffixType, hashLen, realLen uint32) *SuffixStore {
	s := &SuffixStore{typ: typ, hashLen: hashLen, realLen: realLen}
	switch typ {
	case SuffixHash:
		s.bitsLen = hashLen
	case SuffixReal:
		s.bitsLen = realLen
	case SuffixMixed:
		s.bitsLen = hashLen + realLen
	default:
		s.bitsLen = 0
	}
	return s
}

func mask64(n uint32) uint64 {
	if n == 0 {
		return 0
	}
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// hashSuffixBits computes the H-bit hash suffix of key per the original
// kHashShift convention: the low-order bits of a 64-bit hash are
// discarded before truncating to H bits, so that successive suffix
// lengths share their low bits rather than being unrelated hashes.
func hashSuffixBits(key []byte, hashLen uint32) uint64 {
	h := xxhash.Sum64(key)
	return (h >> kHashShift) & mask64(hashLen)
}

// realSuffixBits returns the realLen most-significant bits of the key
// bytes immediately following depth (the trie's branching point).
func realSuffixBits(key []byte, depth int, realLen uint32) uint64 {
	if realLen == 0 {
		return 0
	}
	nBytes := int((realLen + 7) / 8)

	var val uint64
	for j := 0; j < nBytes; j++ {
		var b byte
		if depth+j < len(key) {
			b = key[depth+j]
		}
		val = val<<8 | uint64(b)
	}

	extra := uint32(nBytes)*8 - realLen
	return (val >> extra) & mask64(realLen)
}

// suffixValue computes the packed suffix bits this store would record for
// key at trie depth depth.
func (s *SuffixStore) suffixValue(key []byte, depth int) uint64 {
	switch s.typ {
	case SuffixHash:
		return hashSuffixBits(key, s.hashLen)
	case SuffixReal:
		return realSuffixBits(key, depth, s.realLen)
	case SuffixMixed:
		h := hashSuffixBits(key, s.hashLen)
		r := realSuffixBits(key, depth, s.realLen)
		return h<<s.realLen | r
	default:
		return 0
	}
}

// Append computes and packs the suffix for key at depth, returning the
// new entry's leaf index.
func (s *SuffixStore) Append(key []byte, depth int) uint32 {
	idx := s.count
	s.count++

	if s.bitsLen == 0 {
		return idx
	}

	val := s.suffixValue(key, depth)
	for b := uint32(0); b < s.bitsLen; b++ {
		s.bv.Append(val&(1<<b) != 0)
	}
	return idx
}

// Get returns the raw L-bit value stored at leaf index i.
func (s *SuffixStore) Get(i uint32) uint64 {
	if s.bitsLen == 0 {
		return 0
	}
	base := uint32(i) * s.bitsLen
	var val uint64
	for b := uint32(0); b < s.bitsLen; b++ {
		if s.bv.Get(base + b) {
			val |= 1 << b
		}
	}
	return val
}

// Len returns the number of entries stored.
func (s *SuffixStore) Len() uint32 {
	return s.count
}

// CmpSuffix compares the suffix stored at leaf index i against key at
// trie depth depth, per the store's configured SuffixType. It returns
// -1/0/1 when the comparison is conclusive, or kCouldBePositive when a
// hash-only suffix matches or no suffix is stored.
func (s *SuffixStore) CmpSuffix(i uint32, key []byte, depth int) int {
	if s.typ == SuffixNone {
		return kCouldBePositive
	}

	stored := s.Get(i)

	switch s.typ {
	case SuffixHash:
		query := hashSuffixBits(key, s.hashLen)
		if query == stored {
			return kCouldBePositive
		}
		return -1

	case SuffixReal:
		query := realSuffixBits(key, depth, s.realLen)
		switch {
		case query == stored:
			return 0
		case query < stored:
			return -1
		default:
			return 1
		}

	case SuffixMixed:
		storedHash := stored >> s.realLen
		storedReal := stored & mask64(s.realLen)

		queryReal := realSuffixBits(key, depth, s.realLen)
		if queryReal != storedReal {
			if queryReal < storedReal {
				return -1
			}
			return 1
		}

		queryHash := hashSuffixBits(key, s.hashLen)
		if queryHash == storedHash {
			return 0
		}
		return -1

	default:
		return kCouldBePositive
	}
}
