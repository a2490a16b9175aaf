package filesystem

import (
	"os"
	"path/filepath"

	"github.com/zeebo/errs/v2"
)

type T struct {
	_ [0]func() // no equality

	Base string
}

func (t *T) child(path string) string {
	return filepath.Join(t.Base, path)
}

func (t *T) Create(path string) (fh H, err error) {
	path = t.child(path)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	return H{fs: t, fh: f}, errs.Wrap(err)
}

func (t *T) OpenRead(path string) (fh H, err error) {
	path = t.child(path)

	f, err := os.Open(path)
	return H{fs: t, fh: f}, errs.Wrap(err)
}

func (t *T) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(t.child(path))
	return data, errs.Wrap(err)
}

func (t *T) Remove(path string) error {
	path = t.child(path)

	return errs.Wrap(os.Remove(path))
}
