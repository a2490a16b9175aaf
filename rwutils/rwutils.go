package rwutils

import (
	"io"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/brc/buffer"
)

type RW interface {
	AppendTo(w *W)
	ReadFrom(r *R) error
}

// W buffers little endian values in front of an io.Writer. The first write
// error is sticky and reported by Done.
type W struct {
	buf []byte
	err error
	w   io.Writer
}

func (w *W) Init(wr io.Writer, buf []byte) {
	*w = W{
		buf: buf[:0],
		w:   wr,
	}
}

func (w *W) Done() error {
	w.flush()
	return w.err
}

func (w *W) reserve(n int) {
	if len(w.buf)+n > cap(w.buf) {
		w.flush()
	}
}

func (w *W) Uint8(x uint8) {
	w.reserve(1)
	w.buf = append(w.buf, x)
}

func (w *W) Uint32(x uint32) {
	w.reserve(4)
	w.buf = append(w.buf, byte(x), byte(x>>8), byte(x>>16), byte(x>>24))
}

func (w *W) Uint64(x uint64) {
	w.reserve(8)
	w.buf = append(w.buf,
		byte(x), byte(x>>8), byte(x>>16), byte(x>>24),
		byte(x>>32), byte(x>>40), byte(x>>48), byte(x>>56),
	)
}

func (w *W) Bytes(buf []byte) {
	if len(w.buf)+len(buf) > cap(w.buf) {
		w.flush()
		if len(buf) > cap(w.buf) {
			if w.err == nil {
				_, w.err = w.w.Write(buf)
				w.err = errs.Wrap(w.err)
			}
			return
		}
	}
	w.buf = append(w.buf, buf...)
}

//go:noinline
func (w *W) flush() {
	if w.err == nil && len(w.buf) > 0 {
		_, w.err = w.w.Write(w.buf)
		w.err = errs.Wrap(w.err)
	}
	w.buf = w.buf[:0]
}

// R reads little endian values out of a byte region. Reading past the end sets
// a sticky error and returns zero values from then on.
type R struct {
	buf buffer.T
	pos uintptr
	err error
}

func (r *R) Init(buf []byte) {
	*r = R{
		buf: buffer.Of(buf),
	}
}

func (r *R) Err() error { return r.err }

// Done returns the unread suffix and the first error.
func (r *R) Done() ([]byte, error) {
	return r.buf.Suffix(r.pos), r.err
}

func (r *R) Remaining() uintptr { return r.buf.Len() - r.pos }

func (r *R) Uint8() (x uint8) {
	if r.err == nil {
		if r.Remaining() >= 1 {
			x = r.buf.Byte(r.pos)
			r.pos++
		} else {
			r.bad(1)
		}
	}
	return
}

func (r *R) Uint32() (x uint32) {
	if r.err == nil {
		if r.Remaining() >= 4 {
			x = r.buf.Word4(r.pos)
			r.pos += 4
		} else {
			r.bad(4)
		}
	}
	return
}

func (r *R) Uint64() (x uint64) {
	if r.err == nil {
		if r.Remaining() >= 8 {
			x = r.buf.Word8(r.pos)
			r.pos += 8
		} else {
			r.bad(8)
		}
	}
	return
}

// Bytes returns the next n bytes without copying.
func (r *R) Bytes(n int) (x []byte) {
	if r.err == nil {
		if n >= 0 && r.Remaining() >= uintptr(n) {
			x = r.buf.Slice(r.pos, uintptr(n))
			r.pos += uintptr(n)
		} else {
			r.bad(n)
		}
	}
	return
}

func (r *R) bad(n int) {
	r.err = errs.Errorf("short buffer: needed %d bytes", n)
	r.pos = r.buf.Len()
}
