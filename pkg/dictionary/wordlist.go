package dictionary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// OpenWordList opens a line oriented word list for the builder. "" and "-"
// mean stdin. Files ending in .gz, .zst/.zstd or .lz4 are decompressed on
// the fly.
func OpenWordList(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}

	var r io.Reader
	var closeInner func()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to read gzip word list %s: %w", path, err)
		}
		r, closeInner = gz, func() { gz.Close() }
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to read zstd word list %s: %w", path, err)
		}
		r, closeInner = zr, zr.Close
	case ".lz4":
		r = lz4.NewReader(file)
	default:
		return file, nil
	}

	return &wordListReader{Reader: r, file: file, closeInner: closeInner}, nil
}

type wordListReader struct {
	io.Reader
	file       *os.File
	closeInner func()
}

func (w *wordListReader) Close() error {
	if w.closeInner != nil {
		w.closeInner()
	}
	return w.file.Close()
}
