package utils

import (
	"bytes"
	"fmt"
	"strconv"
)

// WordFilter drops repeated words from a word list, optionally treating
// words that differ only in case as repeats.
type WordFilter struct {
	seen     map[string]struct{}
	foldCase bool
}

// NewWordFilter creates an empty filter.
func NewWordFilter(foldCase bool) *WordFilter {
	return &WordFilter{seen: make(map[string]struct{}), foldCase: foldCase}
}

// ShouldInclude reports whether word has not been seen before and records it.
func (f *WordFilter) ShouldInclude(word []byte) bool {
	key := word
	if f.foldCase {
		key = bytes.ToLower(word)
	}
	if _, ok := f.seen[string(key)]; ok {
		return false
	}
	f.seen[string(key)] = struct{}{}
	return true
}

// Dedupe keeps the first occurrence of every word, in order, and returns the
// number of words dropped.
func Dedupe(words [][]byte, foldCase bool) ([][]byte, int) {
	f := NewWordFilter(foldCase)
	out := words[:0:0]
	for _, w := range words {
		if f.ShouldInclude(w) {
			out = append(out, w)
		}
	}
	return out, len(words) - len(out)
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}
	var b bytes.Buffer
	for i, c := range []byte(str) {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
