//go:build unix

package dictionary

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps the file read-only and shared, so child worker processes
// opening the same dictionary share its pages.
func mapFile(path string, size int64) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	// access hint only; alignment errors are harmless
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return data, func() error { return unix.Munmap(data) }, nil
}
