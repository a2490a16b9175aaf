package testhelp

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/zeebo/mwc"
)

var (
	nameRng = mwc.Rand()
	valRng  = mwc.Rand()
)

// Name returns a random key of n bytes. Bytes are printable, never ';', and
// include multi byte UTF-8 sequences.
func Name(n int) []byte {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ .-'()"
	v := make([]byte, 0, n)
	for len(v) < n {
		if n-len(v) >= 2 && nameRng.Uint64()%16 == 0 {
			v = append(v, "éü"[2*(nameRng.Uint64()%2):][:2]...)
			continue
		}
		v = append(v, alphabet[nameRng.Uint64()%uint64(len(alphabet))])
	}
	return v
}

// Names returns n distinct random keys with lengths in [1, maxLen].
func Names(n, maxLen int) [][]byte {
	seen := make(map[string]bool, n)
	out := make([][]byte, 0, n)
	for len(out) < n {
		name := Name(1 + int(nameRng.Uint64()%uint64(maxLen)))
		if !seen[string(name)] {
			seen[string(name)] = true
			out = append(out, name)
		}
	}
	return out
}

// Value returns a random value in tenths within the accepted range.
func Value() int64 {
	return int64(valRng.Uint64()%1999) - 999
}

// AppendValue writes v in the input format, not relying on the code under test.
func AppendValue(dst []byte, v int64) []byte {
	return strconv.AppendFloat(dst, float64(v)/10, 'f', 1, 64)
}

// Records returns n records over names with random values, each terminated
// by a newline.
func Records(names [][]byte, n int) []byte {
	var buf []byte
	for i := 0; i < n; i++ {
		buf = append(buf, names[nameRng.Uint64()%uint64(len(names))]...)
		buf = append(buf, ';')
		buf = AppendValue(buf, Value())
		buf = append(buf, '\n')
	}
	return buf
}

// Stat is the expected summary of one key.
type Stat struct {
	Count int64
	Sum   int64
	Min   int64
	Max   int64
}

// Aggregate is a slow, obviously correct reading of the input format.
func Aggregate(data []byte) map[string]*Stat {
	out := make(map[string]*Stat)
	for _, line := range bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n")) {
		name, value, ok := bytes.Cut(line, []byte(";"))
		if !ok {
			panic("bad line: " + string(line))
		}
		f, err := strconv.ParseFloat(string(value), 64)
		if err != nil {
			panic(err)
		}
		v := int64(math.Round(f * 10))

		s := out[string(name)]
		if s == nil {
			s = &Stat{Min: v, Max: v}
			out[string(name)] = s
		}
		s.Count++
		s.Sum += v
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	return out
}

// Render formats stats the canonical way using floating point.
func Render(stats map[string]*Stat) string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	format := func(tenths float64) string {
		s := strconv.FormatFloat(tenths/10, 'f', 1, 64)
		if s == "-0.0" {
			s = "0.0"
		}
		return s
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		s := stats[name]
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(format(float64(s.Min)))
		b.WriteByte('/')
		b.WriteString(format(math.Round(float64(s.Sum) / float64(s.Count))))
		b.WriteByte('/')
		b.WriteString(format(float64(s.Max)))
	}
	b.WriteByte('}')
	return b.String()
}
