package util

import (
	"hash/fnv"
	"math/bits"
)

// HashString returns a uint64 hash of the input string using FNV-1a
func HashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// Mix64 is the murmur3 64-bit finalizer. FNV leaves the high bits of short,
// similar keys poorly mixed; Mix64 spreads every input bit across the word.
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// Bucket maps key deterministically onto [0, n). It returns 0 when n is 0.
func Bucket(key string, n uint64) uint64 {
	hi, _ := bits.Mul64(Mix64(HashString(key)), n)
	return hi
}
