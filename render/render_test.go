package render

import (
	"testing"

	"github.com/zeebo/assert"

	"github.com/histdb/brc/keytbl"
)

func table(t *testing.T, obs ...any) *keytbl.T {
	tb := keytbl.New(8, keytbl.DefaultMul)
	for i := 0; i < len(obs); i += 2 {
		k := tb.Key([]byte(obs[i].(string)))
		assert.NoError(t, tb.Observe(&k, int32(obs[i+1].(int))))
	}
	return tb
}

func TestFormat(t *testing.T) {
	tb := table(t,
		"Hamburg", 120,
		"Bulawayo", 89,
		"Hamburg", 120,
	)
	assert.Equal(t, string(Format(tb)), "{Bulawayo=8.9/8.9/8.9, Hamburg=12.0/12.0/12.0}")
}

func TestFormatNegativeMean(t *testing.T) {
	assert.Equal(t, string(Format(table(t, "X", -53, "X", 53))), "{X=-5.3/0.0/5.3}")
	assert.Equal(t, string(Format(table(t, "X", -10, "X", -5))), "{X=-1.0/-0.8/-0.5}")
	assert.Equal(t, string(Format(table(t, "X", -1, "X", 0, "X", 0, "X", 0))), "{X=-0.1/0.0/0.0}")
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, string(Format(keytbl.New(4, keytbl.DefaultMul))), "{}")
}

func TestRowsOrder(t *testing.T) {
	// byte order, not locale order: upper case and multi byte keys sort as bytes
	tb := table(t,
		"İzmir", 1,
		"zeta", 1,
		"Zürich", 1,
		"Abéché", 1,
		"Abha", 1,
		"a", 1,
	)
	var names []string
	for _, r := range Rows(tb) {
		names = append(names, string(r.Name))
	}
	assert.Equal(t, names, []string{"Abha", "Abéché", "Zürich", "a", "zeta", "İzmir"})
}

func TestDigest(t *testing.T) {
	a := Format(table(t, "a", 1))
	b := Format(table(t, "a", 2))
	assert.Equal(t, Digest(a), Digest([]byte("{a=0.1/0.1/0.1}")))
	assert.That(t, Digest(a) != Digest(b))
}
