package filesystem

import (
	"io"
	"os"

	"github.com/zeebo/errs/v2"
)

type H struct {
	_ [0]func() // no equality

	fs *T
	fh *os.File
}

func wrap(err error) error {
	if err != nil && err != io.EOF {
		return errs.Wrap(err)
	}
	return err
}

func (h H) Valid() bool { return h.fs != nil && h.fh != nil }

func (h H) Close() (err error) {
	if !h.Valid() {
		return nil
	}
	return wrap(h.fh.Close())
}

func (h H) Filesystem() *T {
	return h.fs
}

func (h H) Name() string {
	return h.fh.Name()
}

func (h H) Write(p []byte) (n int, err error) {
	n, err = h.fh.Write(p)
	return n, wrap(err)
}

func (h H) Read(p []byte) (n int, err error) {
	n, err = h.fh.Read(p)
	return n, wrap(err)
}

func (h H) Sync() (err error) {
	return wrap(h.fh.Sync())
}

func (h H) Size() (int64, error) {
	fi, err := h.fh.Stat()
	if err != nil {
		return 0, wrap(err)
	}
	return fi.Size(), nil
}

// Mapping is the read-only contents of a file. Data must not be used after
// Unmap.
type Mapping struct {
	Data   []byte
	mapped bool
}

// Map returns the whole file as a read-only byte region. The mapping stays
// valid after the handle is closed.
func (h H) Map() (m Mapping, err error) {
	size, err := h.Size()
	if err != nil {
		return m, err
	}
	if size != int64(int(size)) {
		return m, errs.Errorf("file too large to map: %d bytes", size)
	}
	if size == 0 {
		return Mapping{Data: []byte{}}, nil
	}
	return mmap(h.fh, int(size))
}

func (m *Mapping) Unmap() error {
	if !m.mapped {
		m.Data = nil
		return nil
	}
	err := munmap(m.Data)
	m.Data, m.mapped = nil, false
	return err
}
