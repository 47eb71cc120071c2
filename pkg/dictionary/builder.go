package dictionary

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// maxScanLine bounds how much of an oversized line is buffered before it is
// rejected.
const maxScanLine = 1 << 20

// BuildStats describes a finished build.
type BuildStats struct {
	Words         int
	Skipped       int // empty lines
	MaxWordLength int
	Bytes         int64
}

// ReadWordList reads one word per line. Trailing "\r" is stripped, empty
// lines are skipped, and a line over 255 bytes fails the whole read.
func ReadWordList(r io.Reader) ([][]byte, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanLine)

	var words [][]byte
	skipped, line := 0, 0
	for scanner.Scan() {
		line++
		word := bytes.TrimSuffix(scanner.Bytes(), []byte{'\r'})
		if len(word) == 0 {
			skipped++
			continue
		}
		if len(word) > 255 {
			return nil, 0, fmt.Errorf("%w: line %d has %d bytes", ErrWordTooLong, line, len(word))
		}
		if bytes.IndexByte(word, 0) >= 0 {
			return nil, 0, fmt.Errorf("%w: line %d contains a NUL byte", ErrInvalidWord, line)
		}
		words = append(words, bytes.Clone(word))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, 0, fmt.Errorf("%w: line %d", ErrWordTooLong, line+1)
		}
		return nil, 0, fmt.Errorf("failed to read word list: %w", err)
	}
	return words, skipped, nil
}

// Build reads a word list from r and writes the encoded dictionary to w.
func Build(r io.Reader, w io.Writer, opts EncodeOptions) (BuildStats, error) {
	words, skipped, err := ReadWordList(r)
	if err != nil {
		return BuildStats{}, err
	}
	stats, err := WriteWords(w, words, opts)
	stats.Skipped = skipped
	return stats, err
}

// WriteWords encodes an already read word list to w and reports what was
// written.
func WriteWords(w io.Writer, words [][]byte, opts EncodeOptions) (BuildStats, error) {
	stats := BuildStats{Words: len(words)}
	for _, word := range words {
		stats.MaxWordLength = max(stats.MaxWordLength, len(word))
	}
	log.Debugf("Encoding %d words, max word length %d, format %s",
		stats.Words, stats.MaxWordLength, opts.Format)

	cw := &countingWriter{w: w}
	if err := Encode(cw, words, opts); err != nil {
		return BuildStats{}, err
	}
	stats.Bytes = cw.n
	return stats, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
