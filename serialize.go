// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package surf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// magic identifies a serialized SuRF; version gates the wire format so a
// later incompatible change can be detected rather than misparsed.
const (
	magic   uint32 = 0x53754246 // "SuBF"
	version uint32 = 1
)

// SerializedSize returns the exact byte length Serialize will write.
func (f *SuRF) SerializedSize() int64 {
	var n int64
	n += 4 + 4 // magic, version
	n += 1 + 4 + 1 + 4 + 4 // IncludeDense, SparseDenseRatio, SuffixType, HashLen, RealLen

	n += bitVectorSize(f.dense.labelBV)
	n += bitVectorSize(f.dense.childBV)
	n += bitVectorSize(f.dense.prefixBV)
	n += suffixStoreSize(f.dense.suffixes)
	n += valueStoreSize(f.dense.values)
	n += valueStoreSize(f.dense.prefixValues)
	n += 4 + 4 // nodeCount, height

	n += 4 // labels length
	n += int64(len(f.sparse.labels.labels))
	n += bitVectorSize(f.sparse.hasChildBV)
	n += bitVectorSize(f.sparse.loudsBV)
	n += bitVectorSize(f.sparse.nodeIsKeyBV)
	n += suffixStoreSize(f.sparse.suffixes)
	n += valueStoreSize(f.sparse.values)
	n += valueStoreSize(f.sparse.prefixValues)
	n += 4 + 4 + 4 + 4 // nodeCount, nodeCountDense, childCountDense, startLevel
	n += 4 + int64(len(f.sparse.levelCuts))*4

	return n
}

func bitVectorSize(v *BitVector) int64 {
	return 4 + 4 + int64(len(v.Words()))*8 // numBits, word count, words
}

func valueStoreSize(vs *ValueStore) int64 {
	return 4 + int64(len(vs.values))*8
}

func suffixStoreSize(s *SuffixStore) int64 {
	return 1 + 4 + 4 + 4 + 4 + bitVectorSize(&s.bv) // typ, hashLen, realLen, bitsLen, count, bits
}

// Serialize writes the filter's on-disk representation to w.
func (f *SuRF) Serialize(w io.Writer) error {
	bw := &binWriter{w: w}
	bw.u32(magic)
	bw.u32(version)

	bw.byteVal(boolByte(f.cfg.IncludeDense))
	bw.u32(f.cfg.SparseDenseRatio)
	bw.byteVal(byte(f.cfg.SuffixType))
	bw.u32(f.cfg.HashLen)
	bw.u32(f.cfg.RealLen)

	bw.bitVector(f.dense.labelBV)
	bw.bitVector(f.dense.childBV)
	bw.bitVector(f.dense.prefixBV)
	bw.suffixStore(f.dense.suffixes)
	bw.valueStore(f.dense.values)
	bw.valueStore(f.dense.prefixValues)
	bw.u32(f.dense.nodeCount)
	bw.u32(f.dense.height)

	bw.u32(uint32(len(f.sparse.labels.labels)))
	bw.raw(f.sparse.labels.labels)
	bw.bitVector(f.sparse.hasChildBV)
	bw.bitVector(f.sparse.loudsBV)
	bw.bitVector(f.sparse.nodeIsKeyBV)
	bw.suffixStore(f.sparse.suffixes)
	bw.valueStore(f.sparse.values)
	bw.valueStore(f.sparse.prefixValues)
	bw.u32(f.sparse.nodeCount)
	bw.u32(f.sparse.nodeCountDense)
	bw.u32(f.sparse.childCountDense)
	bw.u32(f.sparse.startLevel)
	bw.u32(uint32(len(f.sparse.levelCuts)))
	for _, c := range f.sparse.levelCuts {
		bw.u32(c)
	}

	return bw.err
}

// Deserialize reconstructs a SuRF previously written by Serialize.
func Deserialize(r io.Reader) (*SuRF, error) {
	br := &binReader{r: r}

	if br.u32() != magic {
		return nil, ErrFormat
	}
	if v := br.u32(); v != version {
		if br.err == nil {
			return nil, ErrVersion
		}
		return nil, fmt.Errorf("%w: %v", ErrFormat, br.err)
	}

	cfg := BuildConfig{
		IncludeDense:     br.byteVal() != 0,
		SparseDenseRatio: br.u32(),
		SuffixType:       SuffixType(br.byteVal()),
		HashLen:          br.u32(),
		RealLen:          br.u32(),
	}

	d := newDenseTier()
	d.labelBV = br.bitVector()
	d.childBV = br.bitVector()
	d.prefixBV = br.bitVector()
	d.suffixes = br.suffixStore()
	d.values = br.valueStore()
	d.prefixValues = br.valueStore()
	d.nodeCount = br.u32()
	d.height = br.u32()
	if br.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, br.err)
	}
	d.labelRank = NewRankIndex(d.labelBV)
	d.childRank = NewRankIndex(d.childBV)
	d.prefixRank = NewRankIndex(d.prefixBV)

	s := newSparseTier(cfg)
	labelLen := br.u32()
	s.labels.labels = br.bytes(int(labelLen))
	s.hasChildBV = br.bitVector()
	s.loudsBV = br.bitVector()
	s.nodeIsKeyBV = br.bitVector()
	s.suffixes = br.suffixStore()
	s.values = br.valueStore()
	s.prefixValues = br.valueStore()
	s.nodeCount = br.u32()
	s.nodeCountDense = br.u32()
	s.childCountDense = br.u32()
	s.startLevel = br.u32()
	nCuts := br.u32()
	s.levelCuts = make([]uint32, nCuts)
	for i := range s.levelCuts {
		s.levelCuts[i] = br.u32()
	}
	if br.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, br.err)
	}
	s.hasChildRank = NewRankIndex(s.hasChildBV)
	s.loudsRank = NewRankIndex(s.loudsBV)
	s.loudsSelect = NewSelectIndex(s.loudsBV)
	s.nodeIsKeyRank = NewRankIndex(s.nodeIsKeyBV)

	return &SuRF{cfg: cfg, dense: d, sparse: s}, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// binWriter accumulates the first error from a sequence of writes so
// callers don't need to check every call individually.
type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) u32(v uint32) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *binWriter) u64(v uint64) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *binWriter) byteVal(v byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write([]byte{v})
}

func (bw *binWriter) raw(b []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(b)
}

func (bw *binWriter) bitVector(v *BitVector) {
	bw.u32(v.numBits)
	words := v.Words()
	bw.u32(uint32(len(words)))
	for _, w := range words {
		bw.u64(w)
	}
}

func (bw *binWriter) valueStore(vs *ValueStore) {
	bw.u32(uint32(len(vs.values)))
	for _, v := range vs.values {
		bw.u64(v)
	}
}

func (bw *binWriter) suffixStore(s *SuffixStore) {
	bw.byteVal(byte(s.typ))
	bw.u32(s.hashLen)
	bw.u32(s.realLen)
	bw.u32(s.bitsLen)
	bw.u32(s.count)
	bw.bitVector(&s.bv)
}

type binReader struct {
	r   io.Reader
	err error
}

func (br *binReader) u32() uint32 {
	if br.err != nil {
		return 0
	}
	var v uint32
	br.err = binary.Read(br.r, binary.LittleEndian, &v)
	return v
}

func (br *binReader) u64() uint64 {
	if br.err != nil {
		return 0
	}
	var v uint64
	br.err = binary.Read(br.r, binary.LittleEndian, &v)
	return v
}

func (br *binReader) byteVal() byte {
	if br.err != nil {
		return 0
	}
	buf := make([]byte, 1)
	_, br.err = io.ReadFull(br.r, buf)
	return buf[0]
}

func (br *binReader) bytes(n int) []byte {
	if br.err != nil || n == 0 {
		return nil
	}
	buf := make([]byte, n)
	_, br.err = io.ReadFull(br.r, buf)
	return buf
}

func (br *binReader) bitVector() *BitVector {
	numBits := br.u32()
	nWords := br.u32()
	words := make([]uint64, nWords)
	for i := range words {
		words[i] = br.u64()
	}
	return &BitVector{bits: words, numBits: numBits}
}

func (br *binReader) valueStore() *ValueStore {
	n := br.u32()
	vs := &ValueStore{values: make([]uint64, n)}
	for i := range vs.values {
		vs.values[i] = br.u64()
	}
	return vs
}

func (br *binReader) suffixStore() *SuffixStore {
	s := &SuffixStore{}
	s.typ = SuffixType(br.byteVal())
	s.hashLen = br.u32()
	s.realLen = br.u32()
	s.bitsLen = br.u32()
	s.count = br.u32()
	bv := br.bitVector()
	if bv != nil {
		s.bv = *bv
	}
	return s
}
