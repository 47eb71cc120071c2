// Package shard splits a dictionary into disjoint shards, one per worker.
//
// Fixed width dictionaries are striped at search time: record i belongs to
// shard i mod N. Variable length dictionaries were striped by the builder,
// so shard i is simply run i and the worker count has to match the run count
// the file was built with. Partition checks that instead of guessing.
package shard

import (
	"errors"
	"fmt"
	"iter"

	"github.com/bastiangx/wordfuzz/pkg/dictionary"
)

// ErrInvalidCount is returned for a shard count below 1.
var ErrInvalidCount = errors.New("shard count must be at least 1")

// Shard is the part of a dictionary one worker scans.
type Shard struct {
	Index int
	Count int

	format dictionary.FileFormat
	window dictionary.Window // variable length only
	total  int               // records in the whole dictionary, fixed width only
}

// Partition splits d into n shards.
func Partition(d *dictionary.Dictionary, n int) ([]Shard, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}

	shards := make([]Shard, n)
	switch d.Format() {
	case dictionary.FormatFixed:
		for i := range shards {
			shards[i] = Shard{Index: i, Count: n, format: dictionary.FormatFixed, total: d.Len()}
		}
	case dictionary.FormatVariable:
		wins, err := d.Windows(n)
		if err != nil {
			return nil, fmt.Errorf("dictionary built with %d runs, searched with %d workers: %w", d.Runs(), n, err)
		}
		for i, w := range wins {
			shards[i] = Shard{Index: i, Count: n, format: dictionary.FormatVariable, window: w}
		}
	default:
		return nil, fmt.Errorf("%w: %v", dictionary.ErrUnknownFormat, d.Format())
	}
	return shards, nil
}

// Records returns how many fixed width records the shard holds. Stripes
// differ by at most one record. Variable length runs report -1 since their
// size is only known after a scan.
func (s Shard) Records() int {
	if s.format != dictionary.FormatFixed {
		return -1
	}
	if s.Index >= s.total {
		return 0
	}
	return (s.total-s.Index-1)/s.Count + 1
}

// Format returns the encoding of the dictionary the shard was cut from.
func (s Shard) Format() dictionary.FileFormat {
	return s.format
}

// Words yields the shard's words in scan order as borrowed views into d.
func (s Shard) Words(d *dictionary.Dictionary) iter.Seq[[]byte] {
	if s.format == dictionary.FormatVariable {
		return d.RunWords(s.window)
	}
	return func(yield func([]byte) bool) {
		for i := s.Index; i < s.total; i += s.Count {
			if !yield(d.Record(i)) {
				return
			}
		}
	}
}

// Locate rebuilds the shard with the given index and count for d. Child
// worker processes use it to find their shard without partitioning twice.
func Locate(d *dictionary.Dictionary, index, count int) (Shard, error) {
	if index < 0 || index >= count {
		return Shard{}, fmt.Errorf("shard index %d out of range for %d shards", index, count)
	}
	shards, err := Partition(d, count)
	if err != nil {
		return Shard{}, err
	}
	return shards[index], nil
}
