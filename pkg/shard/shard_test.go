package shard

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, n int, opts dictionary.EncodeOptions) (*dictionary.Dictionary, []string) {
	t.Helper()
	words := make([][]byte, n)
	want := make([]string, n)
	for i := range words {
		want[i] = fmt.Sprintf("word%d", i)
		words[i] = []byte(want[i])
	}
	var buf bytes.Buffer
	require.NoError(t, dictionary.Encode(&buf, words, opts))
	d, err := dictionary.FromBytes(buf.Bytes(), opts.Format)
	require.NoError(t, err)
	return d, want
}

// every record lands in exactly one shard
func assertCoverage(t *testing.T, d *dictionary.Dictionary, shards []Shard, want []string) {
	t.Helper()
	seen := make(map[string]int)
	for _, s := range shards {
		for w := range s.Words(d) {
			seen[string(w)]++
		}
	}
	assert.Len(t, seen, len(want))
	for _, w := range want {
		assert.Equal(t, 1, seen[w], "word %s", w)
	}
}

func TestPartitionFixed(t *testing.T) {
	for _, size := range []int{1, 2, 7, 10, 33} {
		for _, n := range []int{1, 2, 3, 4, 8, 50} {
			t.Run(fmt.Sprintf("m%d_n%d", size, n), func(t *testing.T) {
				d, want := build(t, size, dictionary.EncodeOptions{Format: dictionary.FormatFixed})
				shards, err := Partition(d, n)
				require.NoError(t, err)
				require.Len(t, shards, n)
				assertCoverage(t, d, shards, want)

				lo, hi := size/n, (size+n-1)/n
				total := 0
				for i, s := range shards {
					assert.Equal(t, i, s.Index)
					count := 0
					for range s.Words(d) {
						count++
					}
					assert.Equal(t, s.Records(), count)
					assert.GreaterOrEqual(t, count, lo)
					assert.LessOrEqual(t, count, hi)
					total += count
				}
				assert.Equal(t, size, total)
			})
		}
	}
}

func TestPartitionFixedStriped(t *testing.T) {
	d, _ := build(t, 5, dictionary.EncodeOptions{Format: dictionary.FormatFixed})
	shards, err := Partition(d, 2)
	require.NoError(t, err)

	var got []string
	for w := range shards[1].Words(d) {
		got = append(got, string(w))
	}
	assert.Equal(t, []string{"word1", "word3"}, got)
}

func TestPartitionVariable(t *testing.T) {
	for _, size := range []int{1, 2, 7, 33} {
		for _, n := range []int{1, 2, 3, 8, 50} {
			t.Run(fmt.Sprintf("m%d_n%d", size, n), func(t *testing.T) {
				d, want := build(t, size, dictionary.EncodeOptions{Format: dictionary.FormatVariable, Runs: n})
				shards, err := Partition(d, n)
				require.NoError(t, err)
				require.Len(t, shards, n)
				assertCoverage(t, d, shards, want)
				assert.Equal(t, -1, shards[0].Records())

				// run i holds source lines i, i+n, ...
				var got []string
				for w := range shards[n-1].Words(d) {
					got = append(got, string(w))
				}
				for k, w := range got {
					assert.Equal(t, fmt.Sprintf("word%d", n-1+k*n), w)
				}
			})
		}
	}
}

func TestPartitionVariableMismatch(t *testing.T) {
	d, _ := build(t, 20, dictionary.EncodeOptions{Format: dictionary.FormatVariable, Runs: 4})
	for _, n := range []int{1, 2, 3, 5} {
		_, err := Partition(d, n)
		assert.ErrorIs(t, err, dictionary.ErrLayoutMismatch, "n=%d", n)
	}
}

func TestPartitionInvalid(t *testing.T) {
	d, _ := build(t, 3, dictionary.EncodeOptions{Format: dictionary.FormatFixed})
	_, err := Partition(d, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestLocate(t *testing.T) {
	d, _ := build(t, 9, dictionary.EncodeOptions{Format: dictionary.FormatVariable, Runs: 3})
	s, err := Locate(d, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Index)

	_, err = Locate(d, 3, 3)
	assert.Error(t, err)
}

func TestLocateTrustedLayout(t *testing.T) {
	d, want := build(t, 9, dictionary.EncodeOptions{Format: dictionary.FormatVariable, Runs: 3})
	trusted, err := dictionary.FromBytesLayout(d.Bytes(), d.Layout())
	require.NoError(t, err)

	var got []string
	for i := range 3 {
		s, err := Locate(trusted, i, 3)
		require.NoError(t, err)
		assert.Equal(t, dictionary.FormatVariable, s.Format())
		for w := range s.Words(trusted) {
			got = append(got, string(w))
		}
	}
	assert.ElementsMatch(t, want, got)
}
