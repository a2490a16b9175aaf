package keytbl

import (
	"errors"
	"math"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/errs/v2"
)

const maxLoadFactor = 0.8

// ErrFull is returned when a new key would push the table past its load limit.
// Tables never grow, so this means the configured capacity is too small.
var ErrFull = errors.New("key table full")

type slot struct {
	hash uint32
	n    uint32 // 0 for an empty slot
	lo   uint32
	hi   uint32
	agg  Agg
	name [KeyCap]byte
}

func (s *slot) match(k *Key) bool {
	return s.hash == k.Hash &&
		s.n == uint32(len(k.Name)) &&
		s.lo == k.Lo &&
		s.hi == k.Hi &&
		(s.n <= 8 || string(s.name[8:s.n]) == string(k.Name[8:]))
}

func (s *slot) key() Key {
	return Key{Hash: s.hash, Lo: s.lo, Hi: s.hi, Name: s.name[:s.n]}
}

// T is an open addressing table from keys to aggregates. Collisions are
// resolved by linear probing and entries are never removed, so an empty slot on
// a probe path means the key is absent. It is not safe for concurrent use.
type T struct {
	_ [0]func() // no equality

	slots []slot
	mask  uint32
	mul   uint32
	eles  int
	full  int
	used  *roaring.Bitmap
}

// New returns a table with 1<<bits slots hashing keys with mul.
func New(bits uint, mul uint32) *T {
	n := 1 << (bits % 32)
	return &T{
		slots: make([]slot, n),
		mask:  uint32(n - 1),
		mul:   mul,
		full:  int(math.Min(float64(n)*maxLoadFactor, float64(n-1))),
		used:  roaring.New(),
	}
}

func (t *T) Len() int    { return t.eles }
func (t *T) Cap() int    { return len(t.slots) }
func (t *T) Mul() uint32 { return t.mul }

func (t *T) Load() float64 {
	return float64(t.eles) / float64(t.mask+1)
}

func (t *T) Size() uint64 {
	return 0 +
		/* slots */ 24 + uint64(unsafe.Sizeof(slot{}))*uint64(len(t.slots)) +
		/* mask  */ 4 +
		/* mul   */ 4 +
		/* eles  */ 8 +
		/* full  */ 8 +
		/* used  */ t.used.GetSizeInBytes() +
		0
}

// Key builds the fingerprint of name for this table.
func (t *T) Key(name []byte) Key { return MakeKey(name, t.mul) }

// Observe records v for the key k. The home slot is tried inline before
// falling back to the probe loop. The only error is ErrFull.
func (t *T) Observe(k *Key, v int32) error {
	if s := &t.slots[k.Hash&t.mask]; s.match(k) {
		s.agg.Record(v)
		return nil
	}
	return t.observeSlow(k, v)
}

//go:noinline
func (t *T) observeSlow(k *Key, v int32) error {
	s, err := t.upsert(k)
	if err != nil {
		return err
	}
	s.agg.Record(v)
	return nil
}

// upsert returns the slot holding k, installing an empty aggregate for it if
// it is not present yet.
func (t *T) upsert(k *Key) (*slot, error) {
	for i := k.Hash & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		if s.n == 0 {
			if t.eles >= t.full {
				return nil, errs.Errorf("%w: %d keys in %d slots", ErrFull, t.eles, len(t.slots))
			}
			s.hash, s.n, s.lo, s.hi = k.Hash, uint32(len(k.Name)), k.Lo, k.Hi
			copy(s.name[:], k.Name)
			s.agg = emptyAgg()
			t.eles++
			t.used.Add(i)
			return s, nil
		}
		if s.match(k) {
			return s, nil
		}
	}
}

// Get returns the aggregate for name, if present.
func (t *T) Get(name []byte) (Agg, bool) {
	if len(name) == 0 || len(name) > KeyCap {
		return Agg{}, false
	}
	k := t.Key(name)
	for i := k.Hash & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		if s.n == 0 {
			return Agg{}, false
		}
		if s.match(&k) {
			return s.agg, true
		}
	}
}

// Merge folds every entry of src into t. src is left untouched. Both tables
// must hash with the same multiplier.
func (t *T) Merge(src *T) error {
	if t.mul != src.mul {
		return errs.Errorf("cannot merge tables with multipliers %#x and %#x", t.mul, src.mul)
	}
	for it := src.used.Iterator(); it.HasNext(); {
		s := &src.slots[it.Next()]
		k := s.key()
		d, err := t.upsert(&k)
		if err != nil {
			return err
		}
		d.agg.Merge(s.agg)
	}
	return nil
}

// Range calls cb for every entry in slot order until it returns false. name is
// only valid during the callback.
func (t *T) Range(cb func(name []byte, a Agg) bool) {
	for it := t.used.Iterator(); it.HasNext(); {
		s := &t.slots[it.Next()]
		if !cb(s.name[:s.n], s.agg) {
			return
		}
	}
}
