//go:build !unix

package dictionary

import "os"

// mapFile reads the whole file where mmap is unavailable.
func mapFile(path string, _ int64) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
