package buffer

import (
	"encoding/binary"
	"unsafe"
)

type (
	ptr  = unsafe.Pointer
	uptr = uintptr
)

var le = binary.LittleEndian

//
// read-only region with unchecked word loads :sonic:
//

// T is a read-only view of a byte region. Word loads that would cross the end
// of the region are served by a slow path that zero-pads the missing bytes, so
// nothing ever reads past the last byte.
type T struct {
	base ptr
	cap  uptr
}

func Of(b []byte) T {
	return T{
		base: ptr(unsafe.SliceData(b)),
		cap:  uptr(len(b)),
	}
}

func (buf T) Len() uptr { return buf.cap }

func (buf T) at(n uptr) ptr { return unsafe.Add(buf.base, n) }

// Byte returns the byte at n or 0 if n is past the end.
func (buf T) Byte(n uptr) byte {
	if n < buf.cap {
		return *(*byte)(buf.at(n))
	}
	return 0
}

// Word4 returns the 4 bytes starting at n as a little endian word.
func (buf T) Word4(n uptr) uint32 {
	if n+4 <= buf.cap {
		return le.Uint32((*[4]byte)(buf.at(n))[:])
	}
	return uint32(buf.tail(n, 4))
}

// Word8 returns the 8 bytes starting at n as a little endian word.
func (buf T) Word8(n uptr) uint64 {
	if n+8 <= buf.cap {
		return le.Uint64((*[8]byte)(buf.at(n))[:])
	}
	return buf.tail(n, 8)
}

//go:noinline
func (buf T) tail(n, w uptr) (x uint64) {
	for i := uptr(0); i < w && n+i < buf.cap; i++ {
		x |= uint64(*(*byte)(buf.at(n + i))) << (8 * i)
	}
	return x
}

// Slice returns the l bytes starting at n without copying. The caller must
// ensure n+l <= Len().
func (buf T) Slice(n, l uptr) []byte {
	return unsafe.Slice((*byte)(buf.at(n)), l)
}

// Suffix returns every byte from n to the end without copying.
func (buf T) Suffix(n uptr) []byte {
	if n >= buf.cap {
		return nil
	}
	return buf.Slice(n, buf.cap-n)
}
