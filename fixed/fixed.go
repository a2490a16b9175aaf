// Package fixed reads and writes signed decimals with exactly one fractional
// digit as integers scaled by ten.
package fixed

import (
	"strconv"

	"github.com/histdb/brc/buffer"
)

const (
	Terminator = '\n'

	// Limit is the largest magnitude a value can have, in tenths.
	Limit = 999
)

// Parse decodes a value of the form -?D.D or -?DD.D followed by a terminator
// (or the end of the buffer) starting at pos. It returns the value in tenths and
// the position just past the terminator. ok is false if the bytes do not have
// that shape, in which case v and next are meaningless.
func Parse(buf buffer.T, pos uintptr) (v int32, next uintptr, ok bool) {
	neg := buf.Byte(pos) == '-'
	if neg {
		pos++
	}

	w := buf.Word8(pos)
	b0, b1, b2 := byte(w), byte(w>>8), byte(w>>16)
	b3, b4 := byte(w>>24), byte(w>>32)

	switch {
	case b1 == '.':
		ok = isDigit(b0) && isDigit(b2) &&
			(b3 == Terminator || pos+3 == buf.Len())
		v = int32(b0&0xf)*10 + int32(b2&0xf)
		next = pos + 4

	case b2 == '.':
		ok = isDigit(b0) && isDigit(b1) && isDigit(b3) &&
			(b4 == Terminator || pos+4 == buf.Len())
		v = int32(b0&0xf)*100 + int32(b1&0xf)*10 + int32(b3&0xf)
		next = pos + 5

	default:
		return 0, pos, false
	}

	if neg {
		v = -v
	}
	return v, next, ok
}

func isDigit(b byte) bool { return b&0xf0 == 0x30 && b&0xf < 10 }

// Append formats the tenths value v as -?D+.D onto dst.
func Append(dst []byte, v int64) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	dst = strconv.AppendInt(dst, v/10, 10)
	return append(dst, '.', byte('0'+v%10))
}

// Mean returns sum/count in tenths, rounded half away from zero. count must be
// positive.
func Mean(sum int64, count uint64) int64 {
	c := int64(count)
	if sum < 0 {
		return -((-2*sum + c) / (2 * c))
	}
	return (2*sum + c) / (2 * c)
}
