// Package search scans dictionary shards for words within an edit distance
// of a query, one worker per shard, and merges the workers' match streams.
//
// Each worker owns a private scratch matrix and reads the shared dictionary
// without locks. Matches flow one way, from worker to coordinator, over an
// ordered per-worker stream. The coordinator drains the streams in worker
// index order, so output is grouped by worker rather than sorted.
//
//	d, _ := dictionary.Open("dictionary", dictionary.FormatAuto)
//	shards, _ := shard.Partition(d, 4)
//	coord := search.NewCoordinator(&search.LocalRunner{Dict: d})
//	sink := search.NewTextSink(os.Stdout)
//	err := coord.Run(shards, []byte("kitten"), search.DefaultParams(), sink)
//	sink.Flush()
//
// A non-nil error from Run means some results may be missing.
package search

import "fmt"

// Params are the per-query thresholds.
type Params struct {
	// MaxLengthDiff skips words whose length differs from the query by
	// more than this without computing a distance.
	MaxLengthDiff int
	// MaxDistance is the largest edit distance reported.
	MaxDistance int
	// FoldCase makes the exact match shortcut ignore ASCII/Unicode case.
	// The distance itself is always case sensitive.
	FoldCase bool
}

// DefaultParams returns the thresholds wordfuzz uses when none are given.
func DefaultParams() Params {
	return Params{MaxLengthDiff: 5, MaxDistance: 5}
}

// Validate reports negative thresholds.
func (p Params) Validate() error {
	if p.MaxLengthDiff < 0 {
		return fmt.Errorf("%w: max length difference %d", ErrInvalidParams, p.MaxLengthDiff)
	}
	if p.MaxDistance < 0 {
		return fmt.Errorf("%w: max distance %d", ErrInvalidParams, p.MaxDistance)
	}
	return nil
}

// ValidateQuery checks that a query fits the dictionary's one byte lengths.
func ValidateQuery(query []byte) error {
	if len(query) > 255 {
		return fmt.Errorf("%w: %d bytes", ErrQueryTooLong, len(query))
	}
	return nil
}

// Match is one dictionary word within range of the query. Word borrows
// from the dictionary buffer unless it came through a CollectSink.
type Match struct {
	Distance int
	Word     []byte
}

func (m Match) String() string {
	return fmt.Sprintf("%d\t%s", m.Distance, m.Word)
}
