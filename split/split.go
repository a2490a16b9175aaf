// Package split divides a buffer of newline terminated records into ranges
// that start and end on record boundaries.
package split

const terminator = '\n'

// Range is the half open byte range [Start, End).
type Range struct {
	Start uintptr
	End   uintptr
}

func (r Range) Len() uintptr { return r.End - r.Start }

// Ranges returns w contiguous ranges covering data. Each range nominally holds
// len(data)/w bytes, with the last one taking the remainder, and every interior
// boundary is pushed forward until it lands just after a terminator. Ranges can
// be empty when there are fewer records than workers.
func Ranges(data []byte, w int) []Range {
	if w < 1 {
		w = 1
	}

	size := uintptr(len(data))
	step := size / uintptr(w)
	out := make([]Range, w)

	var start uintptr
	for i := 0; i < w-1; i++ {
		end := max(uintptr(i+1)*step, start)
		for end > 0 && end < size && data[end-1] != terminator {
			end++
		}
		out[i] = Range{Start: start, End: end}
		start = end
	}
	out[w-1] = Range{Start: start, End: size}

	return out
}
