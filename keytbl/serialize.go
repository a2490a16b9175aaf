package keytbl

import (
	"github.com/zeebo/errs/v2"

	"github.com/histdb/brc/rwutils"
)

const snapshotMagic = 0x31637262 // "brc1"

var _ rwutils.RW = (*T)(nil)

// AppendTo writes every entry of the table. Fingerprints are not written; they
// are recomputed by ReadFrom so the output does not depend on the multiplier.
func (t *T) AppendTo(w *rwutils.W) {
	w.Uint32(snapshotMagic)
	w.Uint64(uint64(t.eles))

	t.Range(func(name []byte, a Agg) bool {
		w.Uint8(uint8(len(name)))
		w.Bytes(name)
		w.Uint64(a.Count)
		w.Uint64(uint64(a.Sum))
		w.Uint32(uint32(a.Min))
		w.Uint32(uint32(a.Max))
		return true
	})
}

// ReadFrom merges the entries written by AppendTo into the table.
func (t *T) ReadFrom(r *rwutils.R) error {
	if magic := r.Uint32(); r.Err() == nil && magic != snapshotMagic {
		return errs.Errorf("invalid snapshot magic %#x", magic)
	}

	n := r.Uint64()
	for i := uint64(0); i < n && r.Err() == nil; i++ {
		l := int(r.Uint8())
		name := r.Bytes(l)
		a := Agg{
			Count: r.Uint64(),
			Sum:   int64(r.Uint64()),
			Min:   int32(r.Uint32()),
			Max:   int32(r.Uint32()),
		}
		if err := r.Err(); err != nil {
			break
		}
		if l == 0 || l > KeyCap || a.Count == 0 {
			return errs.Errorf("invalid snapshot entry %d: length %d count %d", i, l, a.Count)
		}

		k := t.Key(name)
		s, err := t.upsert(&k)
		if err != nil {
			return err
		}
		s.agg.Merge(a)
	}

	return r.Err()
}
