package search

import (
	"bytes"
	"iter"

	"github.com/bastiangx/wordfuzz/pkg/levenshtein"
)

// Worker compares one query against a stream of words. It owns its scratch
// matrix and must not be shared between goroutines.
type Worker struct {
	matrix *levenshtein.Matrix
	query  []byte
	params Params
}

// NewWorker allocates the scratch matrix once, sized for the longer of the
// dictionary's longest word and the query.
func NewWorker(maxWordLen int, query []byte, p Params) *Worker {
	return &Worker{
		matrix: levenshtein.NewMatrix(max(maxWordLen, len(query))),
		query:  query,
		params: p,
	}
}

// Match tests a single word. Words whose length is too far from the query's
// are rejected before any distance is computed.
func (w *Worker) Match(word []byte) (Match, bool) {
	diff := len(word) - len(w.query)
	if diff < 0 {
		diff = -diff
	}
	if diff > w.params.MaxLengthDiff {
		return Match{}, false
	}

	if diff == 0 && w.equal(word) {
		return Match{Distance: 0, Word: word}, true
	}

	if d := w.matrix.Distance(w.query, word); d <= w.params.MaxDistance {
		return Match{Distance: d, Word: word}, true
	}
	return Match{}, false
}

func (w *Worker) equal(word []byte) bool {
	if w.params.FoldCase {
		return bytes.EqualFold(w.query, word)
	}
	return bytes.Equal(w.query, word)
}

// Scan emits every match in words, in order. It stops early when emit
// returns false and returns the number of words examined.
func (w *Worker) Scan(words iter.Seq[[]byte], emit func(Match) bool) int {
	n := 0
	for word := range words {
		n++
		if m, ok := w.Match(word); ok && !emit(m) {
			break
		}
	}
	return n
}
