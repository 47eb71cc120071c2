package dictionary

import (
	"bytes"
	"fmt"
	"iter"
	"os"

	"github.com/charmbracelet/log"
)

// Dictionary is a read-only view over one encoded dictionary buffer.
// Words handed out by its iterators are borrowed slices of that buffer and
// stay valid until Close. A Dictionary is safe for concurrent readers.
type Dictionary struct {
	data    []byte
	format  FileFormat
	maxLen  int
	records int
	runs    int // run count of a variable length file; 0 for fixed width
	release func() error
}

// Open maps the dictionary file at path and validates it. FormatAuto
// detects the format from the file's structure.
func Open(path string, format FileFormat) (*Dictionary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat dictionary %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedHeader, path)
	}

	return openMapped(path, info.Size(), func(data []byte) (*Dictionary, error) {
		return FromBytes(data, format)
	})
}

// Layout is the format and run count of a dictionary that has already been
// validated, typically by the process that hands work to a child worker.
type Layout struct {
	Format FileFormat
	Runs   int // variable length only
}

// OpenLayout maps the dictionary at path like Open but trusts l instead of
// validating every record. Only the header and the size arithmetic of l are
// checked, so opening costs no pass over the file. A file that changed since
// it was validated can make later reads panic.
func OpenLayout(path string, l Layout) (*Dictionary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat dictionary %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedHeader, path)
	}
	return openMapped(path, info.Size(), func(data []byte) (*Dictionary, error) {
		return FromBytesLayout(data, l)
	})
}

func openMapped(path string, size int64, wrap func([]byte) (*Dictionary, error)) (*Dictionary, error) {
	data, release, err := mapFile(path, size)
	if err != nil {
		return nil, fmt.Errorf("failed to map dictionary %s: %w", path, err)
	}

	d, err := wrap(data)
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	d.release = release

	log.Debugf("Dictionary %s mapped: format=%s records=%d maxLen=%d runs=%d",
		path, d.format, d.records, d.maxLen, d.runs)
	return d, nil
}

// FromBytesLayout is FromBytes for a buffer whose layout is already known.
// Len reports -1 for variable length data since its records are not counted.
func FromBytesLayout(data []byte, l Layout) (*Dictionary, error) {
	if l.Format != FormatFixed && l.Format != FormatVariable {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, l.Format)
	}
	if err := validateHeader(data, l.Format); err != nil {
		return nil, err
	}

	d := &Dictionary{data: data, format: l.Format, maxLen: int(data[0])}
	body := len(data) - 1

	switch l.Format {
	case FormatFixed:
		stride := d.maxLen + 1
		if body%stride != 0 {
			return nil, fmt.Errorf("%w: body of %d bytes is not a multiple of record size %d",
				ErrCorruptRecord, body, stride)
		}
		d.records = body / stride
	case FormatVariable:
		if l.Runs < 1 {
			return nil, ErrInvalidRuns
		}
		if body < l.Runs || body%l.Runs != 0 {
			return nil, fmt.Errorf("%w: %d body bytes do not split into %d runs", ErrLayoutMismatch, body, l.Runs)
		}
		d.runs = l.Runs
		d.records = -1
	}
	return d, nil
}

// FromBytes wraps an encoded dictionary held in memory. The buffer must not
// be modified while the Dictionary is in use.
func FromBytes(data []byte, format FileFormat) (*Dictionary, error) {
	var err error
	if format == FormatAuto {
		if format, err = detectFormat(data); err != nil {
			return nil, err
		}
	}

	d := &Dictionary{data: data, format: format}

	switch format {
	case FormatFixed:
		if err := validateFixed(data); err != nil {
			return nil, err
		}
		d.records = (len(data) - 1) / (int(data[0]) + 1)
	case FormatVariable:
		if err := validateHeader(data, FormatVariable); err != nil {
			return nil, err
		}
		if d.runs, err = detectRuns(data); err != nil {
			return nil, err
		}
		if _, d.records, err = windows(data, d.runs); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}

	d.maxLen = int(data[0])
	return d, nil
}

// Close releases the underlying mapping. Words obtained from the dictionary
// must not be used afterwards.
func (d *Dictionary) Close() error {
	if d.release == nil {
		return nil
	}
	release := d.release
	d.release = nil
	d.data = nil
	return release()
}

// Format returns the encoding of the dictionary.
func (d *Dictionary) Format() FileFormat { return d.format }

// MaxWordLength returns the header byte: no word is longer than this.
func (d *Dictionary) MaxWordLength() int { return d.maxLen }

// Len returns the number of records, or -1 for a variable length dictionary
// opened from a Layout.
func (d *Dictionary) Len() int { return d.records }

// Runs returns the run count a variable length file was built with, or 0
// for fixed width files.
func (d *Dictionary) Runs() int { return d.runs }

// Layout returns the format and run count d was opened with.
func (d *Dictionary) Layout() Layout { return Layout{Format: d.format, Runs: d.runs} }

// Bytes returns the raw encoded buffer including the header.
func (d *Dictionary) Bytes() []byte { return d.data }

// Record returns the i-th fixed width record as a borrowed view.
// It panics for variable length dictionaries and out of range indexes.
func (d *Dictionary) Record(i int) []byte {
	if d.format != FormatFixed {
		panic("dictionary: Record on variable length dictionary")
	}
	stride := d.maxLen + 1
	off := 1 + i*stride
	rec := d.data[off : off+stride]
	n := bytes.IndexByte(rec, 0)
	return rec[:n:n]
}

// Windows returns the windows of a variable length dictionary split into
// runs runs. It fails with ErrLayoutMismatch when the file was built for a
// different run count.
func (d *Dictionary) Windows(runs int) ([]Window, error) {
	if d.format != FormatVariable {
		return nil, fmt.Errorf("%w: run windows need a variable length dictionary", ErrUnknownFormat)
	}
	if runs == d.runs {
		return splitWindows(d.data, runs), nil
	}
	w, _, err := windows(d.data, runs)
	return w, err
}

// Words yields every word in original build order. Variable length runs are
// interleaved back the way the builder striped them.
func (d *Dictionary) Words() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		switch d.format {
		case FormatFixed:
			for i := 0; i < d.records; i++ {
				if !yield(d.Record(i)) {
					return
				}
			}
		case FormatVariable:
			wins := splitWindows(d.data, d.runs)
			cursors := make([]int, len(wins))
			for i, w := range wins {
				cursors[i] = w.Offset
			}
			for {
				progressed := false
				for i := range cursors {
					word, next, ok := d.Next(cursors[i])
					if !ok {
						continue
					}
					progressed = true
					cursors[i] = next
					if !yield(word) {
						return
					}
				}
				if !progressed {
					return
				}
			}
		}
	}
}

// Next decodes the length prefixed record at offset off. It returns the
// word, the offset of the following record and false at a run terminator.
func (d *Dictionary) Next(off int) ([]byte, int, bool) {
	if off >= len(d.data) {
		return nil, off, false
	}
	n := int(d.data[off])
	if n == 0 {
		return nil, off, false
	}
	start := off + 1
	return d.data[start : start+n : start+n], start + n, true
}

// RunWords yields the words of one variable length window in order.
func (d *Dictionary) RunWords(w Window) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		off := w.Offset
		for {
			word, next, ok := d.Next(off)
			if !ok || !yield(word) {
				return
			}
			off = next
		}
	}
}
