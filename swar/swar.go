// Package swar locates a byte inside a machine word without a per-byte branch.
package swar

import "math/bits"

const (
	lo7x4 = 0x7f7f7f7f
	lo7x8 = 0x7f7f7f7f7f7f7f7f
)

func Broadcast32(c byte) uint32 { return 0x01010101 * uint32(c) }
func Broadcast64(c byte) uint64 { return 0x0101010101010101 * uint64(c) }

// Index64 returns the index of the first byte of the little endian word w that
// equals the byte repeated in pat, or 8 if there is none.
//
// Bytes of x = w^pat are zero exactly where w matches. Adding 0x7f to the low 7
// bits of each byte carries into the high bit unless they were zero, so after
// or-ing x back in and inverting, only the high bits of zero bytes survive.
// Carries never cross a byte, so there are no false positives past the first
// match either.
func Index64(w, pat uint64) uint {
	x := w ^ pat
	t := ^((x&lo7x8 + lo7x8) | x | lo7x8)
	return uint(bits.TrailingZeros64(t)) >> 3
}

// Index32 is Index64 for a 4 byte word. It returns 4 if there is no match.
func Index32(w, pat uint32) uint {
	x := w ^ pat
	t := ^((x&lo7x4 + lo7x4) | x | lo7x4)
	return uint(bits.TrailingZeros32(t)) >> 3
}

// Mask64 keeps the low n bytes of w. n must be less than 8.
func Mask64(w uint64, n uint) uint64 {
	return w & (1<<(8*n) - 1)
}
