package search

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/bastiangx/wordfuzz/pkg/shard"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeWords(t testing.TB, words []string, format dictionary.FileFormat, runs int) []byte {
	t.Helper()
	list := make([][]byte, len(words))
	for i, w := range words {
		list[i] = []byte(w)
	}
	var buf bytes.Buffer
	require.NoError(t, dictionary.Encode(&buf, list, dictionary.EncodeOptions{Format: format, Runs: runs}))
	// Exact capacity so out of range reads fail instead of seeing spare bytes.
	return bytes.Clone(buf.Bytes())[:buf.Len():buf.Len()]
}

func newDict(t testing.TB, words []string, format dictionary.FileFormat, runs int) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.FromBytes(encodeWords(t, words, format, runs), format)
	require.NoError(t, err)
	return d
}

func quietCoordinator(r Runner) *Coordinator {
	c := NewCoordinator(r)
	c.Logger = log.New(&bytes.Buffer{})
	return c
}

func matchSet(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	slices.Sort(out)
	return out
}

func TestWorkerMatch(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		word   string
		params Params
		want   int
		ok     bool
	}{
		{"exact", "cat", "cat", Params{MaxLengthDiff: 1, MaxDistance: 2}, 0, true},
		{"substitution", "cat", "bat", Params{MaxLengthDiff: 1, MaxDistance: 2}, 1, true},
		{"insertion", "cat", "cats", Params{MaxLengthDiff: 1, MaxDistance: 2}, 1, true},
		{"too far", "cat", "dog", Params{MaxLengthDiff: 1, MaxDistance: 2}, 0, false},
		{"length filtered", "cat", "catalog", Params{MaxLengthDiff: 3, MaxDistance: 10}, 0, false},
		{"length at limit", "cat", "catalo", Params{MaxLengthDiff: 3, MaxDistance: 3}, 3, true},
		{"zero thresholds", "cat", "cat", Params{}, 0, true},
		{"zero thresholds miss", "cat", "cut", Params{}, 0, false},
		{"case sensitive", "Cat", "cat", Params{MaxLengthDiff: 0, MaxDistance: 1}, 1, true},
		{"fold case", "Cat", "cat", Params{MaxLengthDiff: 0, MaxDistance: 1, FoldCase: true}, 0, true},
		{"empty query", "", "ab", Params{MaxLengthDiff: 2, MaxDistance: 2}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorker(len(tt.word), []byte(tt.query), tt.params)
			m, ok := w.Match([]byte(tt.word))
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, m.Distance)
				assert.Equal(t, tt.word, string(m.Word))
			}
		})
	}
}

func TestWorkerQueryLongerThanDictionary(t *testing.T) {
	w := NewWorker(3, []byte("catalogue"), Params{MaxLengthDiff: 10, MaxDistance: 10})
	m, ok := w.Match([]byte("cat"))
	require.True(t, ok)
	assert.Equal(t, 6, m.Distance)
}

func TestWorkerScan(t *testing.T) {
	words := []string{"cat", "dog", "bat", "cot", "cap"}
	seq := func(yield func([]byte) bool) {
		for _, w := range words {
			if !yield([]byte(w)) {
				return
			}
		}
	}
	w := NewWorker(3, []byte("cat"), Params{MaxLengthDiff: 0, MaxDistance: 1})

	var got []string
	n := w.Scan(seq, func(m Match) bool {
		got = append(got, m.String())
		return true
	})
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"0\tcat", "1\tbat", "1\tcot", "1\tcap"}, got)

	got = got[:0]
	n = w.Scan(seq, func(m Match) bool {
		got = append(got, string(m.Word))
		return len(got) < 2
	})
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"cat", "bat"}, got)
}

func TestSearchSmallDictionary(t *testing.T) {
	words := []string{"cat", "bat", "cats", "dog"}
	want := []string{"0\tcat", "1\tbat", "1\tcats"}

	params := []struct {
		name string
		p    Params
	}{
		{"l2d1", Params{MaxLengthDiff: 2, MaxDistance: 1}},
		{"l1d2", Params{MaxLengthDiff: 1, MaxDistance: 2}},
	}

	for _, pc := range params {
		for _, n := range []int{1, 2, 3, 4, 7} {
			t.Run(fmt.Sprintf("%s/fixed/%d", pc.name, n), func(t *testing.T) {
				got, err := Search(newDict(t, words, dictionary.FormatFixed, 0), n, []byte("cat"), pc.p)
				require.NoError(t, err)
				assert.Equal(t, want, matchSet(got))
			})
			t.Run(fmt.Sprintf("%s/variable/%d", pc.name, n), func(t *testing.T) {
				got, err := Search(newDict(t, words, dictionary.FormatVariable, n), n, []byte("cat"), pc.p)
				require.NoError(t, err)
				assert.Equal(t, want, matchSet(got))
			})
		}
	}
}

func TestSearchWorkerCountDoesNotChangeMatches(t *testing.T) {
	var words []string
	for _, a := range []string{"", "s", "re", "un"} {
		for _, b := range []string{"cat", "cart", "coat", "chat", "act", "scat", "tack"} {
			for _, c := range []string{"", "s", "ed", "ing"} {
				words = append(words, a+b+c)
			}
		}
	}
	p := Params{MaxLengthDiff: 2, MaxDistance: 2}

	base, err := Search(newDict(t, words, dictionary.FormatFixed, 0), 1, []byte("cats"), p)
	require.NoError(t, err)
	require.NotEmpty(t, base)
	want := matchSet(base)

	for _, n := range []int{2, 3, 5, 8, 13, 200} {
		got, err := Search(newDict(t, words, dictionary.FormatFixed, 0), n, []byte("cats"), p)
		require.NoError(t, err)
		assert.Equal(t, want, matchSet(got), "fixed width, %d workers", n)

		got, err = Search(newDict(t, words, dictionary.FormatVariable, n), n, []byte("cats"), p)
		require.NoError(t, err)
		assert.Equal(t, want, matchSet(got), "variable length, %d runs", n)
	}
}

func TestSearchMoreWorkersThanWords(t *testing.T) {
	words := []string{"cat", "bat"}
	got, err := Search(newDict(t, words, dictionary.FormatFixed, 0), 16, []byte("cat"), Params{MaxLengthDiff: 1, MaxDistance: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"0\tcat", "1\tbat"}, matchSet(got))
}

func TestRunOutputGroupedByWorker(t *testing.T) {
	words := []string{"aa", "ab", "ac", "ad", "ae"}
	d := newDict(t, words, dictionary.FormatFixed, 0)
	shards, err := shard.Partition(d, 2)
	require.NoError(t, err)

	var sink CollectSink
	err = quietCoordinator(&LocalRunner{Dict: d}).Run(shards, []byte("aa"), Params{MaxDistance: 1}, &sink)
	require.NoError(t, err)

	var got []string
	for _, m := range sink.Matches() {
		got = append(got, string(m.Word))
	}
	// Worker 0 holds records 0, 2, 4 and is drained first.
	assert.Equal(t, []string{"aa", "ac", "ae", "ab", "ad"}, got)
}

func TestRunPanickingWorker(t *testing.T) {
	small := newDict(t, []string{"cat", "bat", "dog"}, dictionary.FormatFixed, 0)
	big := newDict(t, []string{"cat", "bat", "dog", "cow"}, dictionary.FormatFixed, 0)

	// Shards cut for the bigger dictionary make worker 1 read past the
	// end of the smaller one after it has already matched "bat".
	shards, err := shard.Partition(big, 2)
	require.NoError(t, err)

	var sink CollectSink
	err = quietCoordinator(&LocalRunner{Dict: small}).Run(shards, []byte("cat"), Params{MaxLengthDiff: 1, MaxDistance: 1}, &sink)
	require.Error(t, err)

	var werr *WorkerError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, 1, werr.Index)
	assert.Contains(t, werr.Error(), "panicked")
	assert.Equal(t, []string{"0\tcat", "1\tbat"}, matchSet(sink.Matches()))
}

type failingSink struct {
	accepted int
	limit    int
}

func (s *failingSink) Write(Match) error {
	if s.accepted >= s.limit {
		return errors.New("disk full")
	}
	s.accepted++
	return nil
}

func TestRunSinkFailureStillDrains(t *testing.T) {
	words := make([]string, 100)
	for i := range words {
		words[i] = fmt.Sprintf("w%02d", i)
	}
	d := newDict(t, words, dictionary.FormatFixed, 0)
	shards, err := shard.Partition(d, 3)
	require.NoError(t, err)

	c := quietCoordinator(&LocalRunner{Dict: d})
	c.Buffer = 0
	sink := &failingSink{limit: 5}
	err = c.Run(shards, []byte("w00"), Params{MaxDistance: 3}, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 5, sink.accepted)

	var werr *WorkerError
	assert.False(t, errors.As(err, &werr))
}

func TestRunRejectsBadInput(t *testing.T) {
	d := newDict(t, []string{"cat"}, dictionary.FormatFixed, 0)
	shards, err := shard.Partition(d, 1)
	require.NoError(t, err)
	c := quietCoordinator(&LocalRunner{Dict: d})
	var sink CollectSink

	err = c.Run(shards, []byte("cat"), Params{MaxLengthDiff: -1}, &sink)
	assert.ErrorIs(t, err, ErrInvalidParams)

	err = c.Run(shards, []byte("cat"), Params{MaxDistance: -1}, &sink)
	assert.ErrorIs(t, err, ErrInvalidParams)

	err = c.Run(shards, bytes.Repeat([]byte("a"), 256), DefaultParams(), &sink)
	assert.ErrorIs(t, err, ErrQueryTooLong)

	err = c.Run(nil, []byte("cat"), DefaultParams(), &sink)
	assert.ErrorIs(t, err, ErrNoShards)

	assert.Empty(t, sink.Matches())
}

func TestSearchLayoutMismatch(t *testing.T) {
	words := make([]string, 20)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	d := newDict(t, words, dictionary.FormatVariable, 4)
	_, err := Search(d, 3, []byte("word1"), DefaultParams())
	assert.ErrorIs(t, err, dictionary.ErrLayoutMismatch)
}

func TestTextSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTextSink(&buf)
	require.NoError(t, sink.Write(Match{Distance: 0, Word: []byte("cat")}))
	require.NoError(t, sink.Write(Match{Distance: 12, Word: []byte("tab\tword")}))
	assert.Zero(t, buf.Len(), "output is buffered until Flush")
	require.NoError(t, sink.Flush())
	assert.Equal(t, "0\tcat\n12\ttab\tword\n", buf.String())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	m, err := ParseLine([]byte(lines[1]))
	require.NoError(t, err)
	assert.Equal(t, 12, m.Distance)
	assert.Equal(t, "tab\tword", string(m.Word))
}

func TestParseLineErrors(t *testing.T) {
	for _, line := range []string{"", "cat", "\tcat", "x\tcat", "-1\tcat"} {
		_, err := ParseLine([]byte(line))
		assert.Error(t, err, "line %q", line)
	}
}

func TestCollectSinkCopiesWords(t *testing.T) {
	word := []byte("cat")
	var sink CollectSink
	require.NoError(t, sink.Write(Match{Distance: 1, Word: word}))
	word[0] = 'b'
	assert.Equal(t, "cat", string(sink.Matches()[0].Word))
}

func TestWorkerErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("run: %w", &WorkerError{Index: 3, Err: ErrSpawn})
	assert.ErrorIs(t, err, ErrSpawn)
	assert.Equal(t, "run: worker 3 failed: failed to spawn worker", err.Error())
}

func BenchmarkScan(b *testing.B) {
	words := make([]string, 10000)
	for i := range words {
		words[i] = fmt.Sprintf("word%05dx", i)
	}
	d := newDict(b, words, dictionary.FormatFixed, 0)
	w := NewWorker(d.MaxWordLength(), []byte("word12345"), DefaultParams())

	b.ReportAllocs()
	for b.Loop() {
		w.Scan(d.Words(), func(Match) bool { return true })
	}
}

func TestScanAllocationsDoNotGrowWithDictionary(t *testing.T) {
	words := make([]string, 5000)
	for i := range words {
		words[i] = fmt.Sprintf("w%04d", i)
	}
	d := newDict(t, words, dictionary.FormatFixed, 0)
	w := NewWorker(d.MaxWordLength(), []byte("w1234"), DefaultParams())

	allocs := testing.AllocsPerRun(10, func() {
		w.Scan(d.Words(), func(Match) bool { return true })
	})
	assert.LessOrEqual(t, allocs, 10.0)
}
