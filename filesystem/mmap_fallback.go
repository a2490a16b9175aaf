//go:build !linux && !darwin && !freebsd

package filesystem

import (
	"io"
	"os"

	"github.com/zeebo/errs/v2"
)

func mmap(fh *os.File, size int) (Mapping, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(fh, 0, int64(size)), data); err != nil {
		return Mapping{}, errs.Wrap(err)
	}
	return Mapping{Data: data}, nil
}

func munmap(data []byte) error { return nil }
