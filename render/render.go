// Package render formats a merged table as {key=min/mean/max, ...}.
package render

import (
	"bytes"
	"slices"

	"github.com/zeebo/xxh3"

	"github.com/histdb/brc/fixed"
	"github.com/histdb/brc/keytbl"
)

// Row is the rendered summary of one key. Values are in tenths.
type Row struct {
	Name []byte
	Min  int64
	Mean int64
	Max  int64
}

// Rows summarizes every entry of t, ordered by the bytes of the key.
func Rows(t *keytbl.T) []Row {
	rows := make([]Row, 0, t.Len())
	t.Range(func(name []byte, a keytbl.Agg) bool {
		rows = append(rows, Row{
			Name: bytes.Clone(name),
			Min:  int64(a.Min),
			Mean: a.Mean(),
			Max:  int64(a.Max),
		})
		return true
	})
	slices.SortFunc(rows, func(a, b Row) int { return bytes.Compare(a.Name, b.Name) })
	return rows
}

// Append writes rows in the canonical form onto dst.
func Append(dst []byte, rows []Row) []byte {
	dst = append(dst, '{')
	for i, r := range rows {
		if i > 0 {
			dst = append(dst, ',', ' ')
		}
		dst = append(dst, r.Name...)
		dst = append(dst, '=')
		dst = fixed.Append(dst, r.Min)
		dst = append(dst, '/')
		dst = fixed.Append(dst, r.Mean)
		dst = append(dst, '/')
		dst = fixed.Append(dst, r.Max)
	}
	return append(dst, '}')
}

// Format renders t in the canonical form.
func Format(t *keytbl.T) []byte {
	return Append(make([]byte, 0, 32*t.Len()+2), Rows(t))
}

// Digest is a short fingerprint of rendered output for comparing runs.
func Digest(out []byte) uint64 { return xxh3.Hash(out) }
