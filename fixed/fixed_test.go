package fixed

import (
	"testing"

	"github.com/zeebo/assert"

	"github.com/histdb/brc/buffer"
)

func parseString(s string) (int32, uintptr, bool) {
	return Parse(buffer.Of([]byte(s)), 0)
}

func TestParse(t *testing.T) {
	cases := []struct {
		In   string
		V    int32
		Next uintptr
	}{
		{"0.0\n", 0, 4},
		{"1.2\n", 12, 4},
		{"-1.2\n", -12, 5},
		{"12.3\n", 123, 5},
		{"-99.9\n", -999, 6},
		{"8.9\nX;1.0\n", 89, 4},

		// final record without a terminator
		{"5.3", 53, 4},
		{"-45.6", -456, 6},
	}

	for _, tc := range cases {
		v, next, ok := parseString(tc.In)
		assert.That(t, ok)
		assert.Equal(t, tc.V, v)
		assert.Equal(t, tc.Next, next)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"\n",
		"1\n",
		"1.\n",
		"1.23\n",
		"123.4\n",
		"a.0\n",
		"1.x\n",
		"--1.0\n",
		"1.0;",
		"1,0\n",
		".5\n",
		"1.0 \n",
	} {
		_, _, ok := parseString(in)
		assert.That(t, !ok)
	}
}

func TestRoundTrip(t *testing.T) {
	var buf []byte
	for v := int64(-Limit); v <= Limit; v++ {
		buf = append(Append(buf[:0], v), Terminator)

		got, next, ok := Parse(buffer.Of(buf), 0)
		assert.That(t, ok)
		assert.Equal(t, int64(got), v)
		assert.Equal(t, next, uintptr(len(buf)))
	}
}

func TestAppend(t *testing.T) {
	assert.Equal(t, string(Append(nil, 0)), "0.0")
	assert.Equal(t, string(Append(nil, 5)), "0.5")
	assert.Equal(t, string(Append(nil, -5)), "-0.5")
	assert.Equal(t, string(Append(nil, 120)), "12.0")
	assert.Equal(t, string(Append(nil, -999)), "-99.9")
	assert.Equal(t, string(Append([]byte("x="), 1234567)), "x=123456.7")
}

func TestMean(t *testing.T) {
	assert.Equal(t, Mean(0, 2), int64(0))
	assert.Equal(t, Mean(240, 2), int64(120))

	// exact halves round away from zero
	assert.Equal(t, Mean(5, 2), int64(3))
	assert.Equal(t, Mean(-5, 2), int64(-3))
	assert.Equal(t, Mean(15, 2), int64(8))
	assert.Equal(t, Mean(-15, 2), int64(-8))

	// small negatives round to zero rather than a negative zero
	assert.Equal(t, Mean(-1, 4), int64(0))
	assert.Equal(t, Mean(-1, 3), int64(0))
	assert.Equal(t, Mean(-2, 3), int64(-1))

	assert.Equal(t, Mean(10, 3), int64(3))
	assert.Equal(t, Mean(11, 3), int64(4))
}

func BenchmarkParse(b *testing.B) {
	buf := buffer.Of([]byte("-12.3\n4.5\n"))
	var sink int32
	for b.Loop() {
		v, next, _ := Parse(buf, 0)
		w, _, _ := Parse(buf, next)
		sink += v + w
	}
	_ = sink
}
