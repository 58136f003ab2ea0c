// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command surfdump builds a SuRF from a newline-delimited key file and
// reports its height, memory usage and serialized size. Pass -out to
// also write the serialized filter to disk.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"sort"

	"github.com/karlsurf/surf"
)

func main() {
	log.SetFlags(0)

	keysPath := flag.String("keys", "", "newline-delimited sorted key file (required)")
	outPath := flag.String("out", "", "write the serialized filter here")
	ratio := flag.Uint("ratio", 16, "dense/sparse cutover ratio")
	suffixBits := flag.Uint("hash-suffix-bits", 0, "hash suffix bits per leaf")
	flag.Parse()

	if *keysPath == "" {
		log.Fatal("surfdump: -keys is required")
	}

	keys, err := readKeys(*keysPath)
	if err != nil {
		log.Fatalf("surfdump: %v", err)
	}

	cfg := surf.DefaultBuildConfig()
	cfg.SparseDenseRatio = uint32(*ratio)
	if *suffixBits > 0 {
		cfg.SuffixType = surf.SuffixHash
		cfg.HashLen = uint32(*suffixBits)
	}

	f, err := surf.Build(keys, nil, cfg)
	if err != nil {
		log.Fatalf("surfdump: build: %v", err)
	}

	log.Printf("keys: %d", len(keys))
	log.Printf("height: %d (sparse starts at %d)", f.GetHeight(), f.GetSparseStartLevel())
	log.Printf("memory usage: %d bytes", f.GetMemoryUsage())
	log.Printf("serialized size: %d bytes", f.SerializedSize())

	if *outPath != "" {
		out, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("surfdump: %v", err)
		}
		defer out.Close()
		if err := f.Serialize(out); err != nil {
			log.Fatalf("surfdump: serialize: %v", err)
		}
		log.Printf("wrote %s", *outPath)
	}
}

// readKeys reads one key per line, sorting defensively since Build
// requires strictly ascending input.
func readKeys(path string) ([][]byte, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var keys [][]byte
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		keys = append(keys, append([]byte(nil), line...))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i]) < string(keys[j])
	})
	return keys, nil
}
