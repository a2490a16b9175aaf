//go:build linux || darwin || freebsd

package filesystem

import (
	"os"

	"github.com/zeebo/errs/v2"
	"golang.org/x/sys/unix"
)

func mmap(fh *os.File, size int) (Mapping, error) {
	data, err := unix.Mmap(int(fh.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return Mapping{}, errs.Wrap(err)
	}
	// one sequential pass per range: let the kernel read ahead
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return Mapping{Data: data, mapped: true}, nil
}

func munmap(data []byte) error {
	return errs.Wrap(unix.Munmap(data))
}
