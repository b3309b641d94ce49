/*
NAME
  rng.go - per-(message,field) deterministic PRNG streams.

DESCRIPTION
  Realizes the "splittable construction" of spec.md §4.3/§9: each
  (message, field) pair derives its own independent PRNG stream from the
  scenario's seed and a hash of the pair's names, so fields can be
  evaluated in any order (or concurrently, by a hosting application running
  multiple independent generate calls) without a shared mutable RNG.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package generate

import (
	"hash/fnv"
	"math/rand/v2"
)

// SubStream returns a new, independent PRNG seeded deterministically from
// parentSeed and the (message, field) pair.
func SubStream(parentSeed uint64, message, field string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(message))
	h.Write([]byte{0})
	h.Write([]byte(field))
	key := h.Sum64() ^ (parentSeed*0x9E3779B97F4A7C15 + 0xD1B54A32D192ED03)
	return rand.New(rand.NewPCG(key, parentSeed))
}
