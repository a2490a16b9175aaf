package rwutils

import (
	"bytes"
	"testing"

	"github.com/zeebo/assert"
)

func TestRoundTrip(t *testing.T) {
	var out bytes.Buffer
	var w W
	w.Init(&out, make([]byte, 0, 16))

	w.Uint8(7)
	w.Uint32(0xdeadbeef)
	w.Uint64(1 << 60)
	w.Bytes([]byte("short"))
	w.Bytes(bytes.Repeat([]byte("x"), 40)) // larger than the buffer
	w.Uint8(9)
	assert.NoError(t, w.Done())

	var r R
	r.Init(out.Bytes())
	assert.Equal(t, r.Uint8(), uint8(7))
	assert.Equal(t, r.Uint32(), uint32(0xdeadbeef))
	assert.Equal(t, r.Uint64(), uint64(1<<60))
	assert.Equal(t, string(r.Bytes(5)), "short")
	assert.Equal(t, string(r.Bytes(40)), string(bytes.Repeat([]byte("x"), 40)))
	assert.Equal(t, r.Uint8(), uint8(9))

	rem, err := r.Done()
	assert.NoError(t, err)
	assert.Equal(t, len(rem), 0)
}

func TestShortBuffer(t *testing.T) {
	var r R
	r.Init([]byte{1, 2, 3})

	assert.Equal(t, r.Uint32(), uint32(0))
	assert.Error(t, r.Err())

	// sticky
	assert.Equal(t, r.Uint8(), uint8(0))
	_, err := r.Done()
	assert.Error(t, err)
}

func TestSuffix(t *testing.T) {
	var r R
	r.Init([]byte{1, 0, 0, 0, 'a', 'b'})

	assert.Equal(t, r.Uint32(), uint32(1))
	rem, err := r.Done()
	assert.NoError(t, err)
	assert.Equal(t, string(rem), "ab")
}

type errWriter struct{ n int }

func (e *errWriter) Write(p []byte) (int, error) {
	e.n++
	return 0, bytes.ErrTooLarge
}

func TestWriteError(t *testing.T) {
	var ew errWriter
	var w W
	w.Init(&ew, make([]byte, 0, 4))

	w.Uint64(1)
	w.Uint64(2)
	w.Uint64(3)
	assert.Error(t, w.Done())
	assert.Equal(t, ew.n, 1)
}
