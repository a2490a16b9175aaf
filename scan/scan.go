// Package scan turns a range of key;value records into table observations.
package scan

import (
	"fmt"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/brc/buffer"
	"github.com/histdb/brc/fixed"
	"github.com/histdb/brc/keytbl"
	"github.com/histdb/brc/split"
	"github.com/histdb/brc/swar"
)

const (
	Separator  = ';'
	Terminator = fixed.Terminator
)

var (
	separators  = swar.Broadcast64(Separator)
	terminators = swar.Broadcast64(Terminator)
)

type Kind uint8

const (
	Malformed Kind = iota + 1
	KeyTooLong
)

func (k Kind) String() string {
	switch k {
	case Malformed:
		return "malformed record"
	case KeyTooLong:
		return "key too long"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Error reports a record that does not follow the input format. Offset is the
// position of the first byte of the record.
type Error struct {
	Kind   Kind
	Offset uintptr
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
}

// Range records every key;value pair in r into t and returns the number of
// records read. r must start on a record boundary. The first record that does
// not parse stops the scan with an *Error.
func Range(buf buffer.T, r split.Range, t *keytbl.T, maxKeyLen int) (records int, err error) {
	if maxKeyLen < 1 || maxKeyLen > keytbl.KeyCap {
		return 0, errs.Errorf("max key length %d outside [1, %d]", maxKeyLen, keytbl.KeyCap)
	}

	var (
		mul   = t.Mul()
		limit = uintptr(maxKeyLen)
		end   = buf.Len()
		k     keytbl.Key
	)

	for pos := r.Start; pos < r.End; records++ {
		// both prefix words come from one load; the separator is usually in it
		w := buf.Word8(pos)
		n := uintptr(swar.Index64(w, separators))
		if uintptr(swar.Index64(w, terminators)) < n {
			return records, &Error{Kind: Malformed, Offset: pos}
		}

		var h uint32
		if n < 8 {
			k.Lo, k.Hi = keytbl.Prefix(w, uint(n))
			h = keytbl.Mix(0, k.Lo, mul)
			if n > 4 {
				h = keytbl.Mix(h, k.Hi, mul)
			}
		} else {
			k.Lo, k.Hi = uint32(w), uint32(w>>32)
			h = keytbl.Mix(keytbl.Mix(0, k.Lo, mul), k.Hi, mul)
			for {
				if pos+n >= end {
					return records, &Error{Kind: Malformed, Offset: pos}
				}
				c := buf.Byte(pos + n)
				if c == Separator {
					break
				} else if c == Terminator {
					return records, &Error{Kind: Malformed, Offset: pos}
				}
				h = keytbl.Mix(h, uint32(c), mul)
				if n++; n > limit {
					return records, &Error{Kind: KeyTooLong, Offset: pos}
				}
			}
		}

		if n == 0 {
			return records, &Error{Kind: Malformed, Offset: pos}
		} else if n > limit {
			return records, &Error{Kind: KeyTooLong, Offset: pos}
		}

		k.Hash = keytbl.Finish(h)
		k.Name = buf.Slice(pos, n)

		v, next, ok := fixed.Parse(buf, pos+n+1)
		if !ok {
			return records, &Error{Kind: Malformed, Offset: pos}
		}
		if err := t.Observe(&k, v); err != nil {
			return records, errs.Wrap(err)
		}
		pos = next
	}

	return records, nil
}
