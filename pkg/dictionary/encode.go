package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// EncodeOptions selects the output format. Runs is the number of variable
// length runs, which must equal the worker count used to search the file.
// It is ignored for fixed width output, which any worker count can stripe.
type EncodeOptions struct {
	Format FileFormat
	Runs   int
}

// validateWords checks the shared word invariants and returns the length of
// the longest word.
func validateWords(words [][]byte) (int, error) {
	if len(words) == 0 {
		return 0, ErrEmptyWordList
	}
	maxLen := 0
	for i, w := range words {
		switch {
		case len(w) == 0:
			return 0, fmt.Errorf("%w: word %d is empty", ErrInvalidWord, i)
		case len(w) > 255:
			return 0, fmt.Errorf("%w: word %d has %d bytes", ErrWordTooLong, i, len(w))
		case bytes.IndexByte(w, 0) >= 0:
			return 0, fmt.Errorf("%w: word %d contains a NUL byte", ErrInvalidWord, i)
		}
		maxLen = max(maxLen, len(w))
	}
	return maxLen, nil
}

// Encode writes words to w in the requested format.
func Encode(w io.Writer, words [][]byte, opts EncodeOptions) error {
	maxLen, err := validateWords(words)
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(w, 64*1024)
	switch opts.Format {
	case FormatFixed:
		err = encodeFixed(bw, words, maxLen)
	case FormatVariable:
		err = encodeVariable(bw, words, maxLen, opts.Runs)
	default:
		return fmt.Errorf("%w: cannot encode %v", ErrUnknownFormat, opts.Format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func encodeFixed(bw *bufio.Writer, words [][]byte, maxLen int) error {
	if err := bw.WriteByte(byte(maxLen)); err != nil {
		return err
	}
	pad := make([]byte, maxLen+1)
	for _, word := range words {
		if _, err := bw.Write(word); err != nil {
			return err
		}
		if _, err := bw.Write(pad[:maxLen+1-len(word)]); err != nil {
			return err
		}
	}
	return nil
}

// encodeVariable stripes word k into run k mod runs and writes every run into
// a window of identical size, zero padded after its terminator.
func encodeVariable(bw *bufio.Writer, words [][]byte, maxLen, runs int) error {
	if runs < 1 {
		return ErrInvalidRuns
	}

	sizes := make([]int, runs)
	for k, word := range words {
		sizes[k%runs] += 1 + len(word)
	}
	window := runWindowSize(sizes)

	if err := bw.WriteByte(byte(maxLen)); err != nil {
		return err
	}
	for r := 0; r < runs; r++ {
		for k := r; k < len(words); k += runs {
			if err := bw.WriteByte(byte(len(words[k]))); err != nil {
				return err
			}
			if _, err := bw.Write(words[k]); err != nil {
				return err
			}
		}
		// terminator plus padding
		for i := sizes[r]; i < window; i++ {
			if err := bw.WriteByte(0); err != nil {
				return err
			}
		}
	}
	return nil
}
