package keytbl

import (
	"math"

	"github.com/histdb/brc/fixed"
)

// Agg summarizes every value observed for a key. Values are in tenths.
type Agg struct {
	Count uint64
	Sum   int64
	Min   int32
	Max   int32
}

func emptyAgg() Agg { return Agg{Min: math.MaxInt32, Max: math.MinInt32} }

// Record adds one value.
func (a *Agg) Record(v int32) {
	a.Count++
	a.Sum += int64(v)
	if v < a.Min {
		a.Min = v
	}
	if v > a.Max {
		a.Max = v
	}
}

// Merge folds b into a. It is commutative and associative.
func (a *Agg) Merge(b Agg) {
	a.Count += b.Count
	a.Sum += b.Sum
	if b.Min < a.Min {
		a.Min = b.Min
	}
	if b.Max > a.Max {
		a.Max = b.Max
	}
}

// Mean is the rounded average in tenths.
func (a Agg) Mean() int64 { return fixed.Mean(a.Sum, a.Count) }
