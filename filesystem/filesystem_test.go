package filesystem

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/errs/v2"
)

func TestMap(t *testing.T) {
	fs := &T{Base: t.TempDir()}

	fh, err := fs.Create("data")
	assert.NoError(t, err)
	_, err = fh.Write([]byte("Hamburg;12.0\n"))
	assert.NoError(t, err)
	assert.NoError(t, errs.Combine(fh.Sync(), fh.Close()))

	fh, err = fs.OpenRead("data")
	assert.NoError(t, err)
	m, err := fh.Map()
	assert.NoError(t, err)
	assert.NoError(t, fh.Close())

	// still readable after the handle is closed
	assert.Equal(t, string(m.Data), "Hamburg;12.0\n")
	assert.NoError(t, m.Unmap())
	assert.That(t, m.Data == nil)
	assert.NoError(t, m.Unmap())
}

func TestMapEmpty(t *testing.T) {
	fs := &T{Base: t.TempDir()}

	fh, err := fs.Create("empty")
	assert.NoError(t, err)
	m, err := fh.Map()
	assert.NoError(t, err)
	assert.Equal(t, len(m.Data), 0)
	assert.NoError(t, errs.Combine(m.Unmap(), fh.Close()))
}

func TestOpenMissing(t *testing.T) {
	fs := &T{Base: t.TempDir()}

	_, err := fs.OpenRead("missing")
	assert.Error(t, err)
	_, err = fs.ReadFile("missing")
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	fs := &T{Base: t.TempDir()}

	fh, err := fs.Create("x")
	assert.NoError(t, err)
	assert.NoError(t, fh.Close())
	assert.NoError(t, fs.Remove("x"))
	assert.Error(t, fs.Remove("x"))
}
