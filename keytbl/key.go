package keytbl

import (
	"encoding/binary"

	"github.com/histdb/brc/swar"
)

var le = binary.LittleEndian

const (
	// KeyCap is the storage reserved for a key inside each slot.
	KeyCap = 128

	// DefaultMul is the default odd multiplier for key hashing.
	DefaultMul = 0x9e3779b1
)

// Key is a key together with its fingerprint. Lo and Hi hold the first 8 bytes
// of Name as little endian words, zero padded when Name is shorter.
type Key struct {
	Hash uint32
	Lo   uint32
	Hi   uint32
	Name []byte
}

// Mix folds the word w into the running hash h.
func Mix(h, w, mul uint32) uint32 { return (h ^ w) * mul }

// Finish spreads the high bits of a running hash into the low bits that are
// used to pick a slot.
func Finish(h uint32) uint32 { return h ^ h>>15 }

// MakeKey builds the fingerprint of name the same way the scanner does while
// it reads a record: both prefix words first, then every byte after the 8th.
func MakeKey(name []byte, mul uint32) Key {
	var pre [8]byte
	copy(pre[:], name)
	w := le.Uint64(pre[:])

	k := Key{Lo: uint32(w), Hi: uint32(w >> 32), Name: name}
	h := Mix(0, k.Lo, mul)
	if len(name) > 4 {
		h = Mix(h, k.Hi, mul)
	}
	for i := 8; i < len(name); i++ {
		h = Mix(h, uint32(name[i]), mul)
	}
	k.Hash = Finish(h)
	return k
}

// Prefix splits the first 8 bytes of a record into the prefix words of a key
// of length n. n must be less than 8; longer keys use the whole word.
func Prefix(w uint64, n uint) (lo, hi uint32) {
	w = swar.Mask64(w, n)
	return uint32(w), uint32(w >> 32)
}
