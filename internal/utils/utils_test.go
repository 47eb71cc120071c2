package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWithCommas(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWithCommas(tt.in))
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "3.0 MiB", FormatBytes(3*1024*1024))
}

func TestDedupe(t *testing.T) {
	words := [][]byte{[]byte("cat"), []byte("Cat"), []byte("bat"), []byte("cat")}

	out, dropped := Dedupe(words, false)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, [][]byte{[]byte("cat"), []byte("Cat"), []byte("bat")}, out)

	out, dropped = Dedupe(words, true)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, [][]byte{[]byte("cat"), []byte("bat")}, out)
}

func TestSaveAndLoadTOML(t *testing.T) {
	type section struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}
	type doc struct {
		Main section `toml:"main"`
	}

	path := filepath.Join(t.TempDir(), "doc.toml")
	require.NoError(t, SaveTOMLFile(doc{Main: section{Name: "x", Count: 3}}, path))
	assert.True(t, FileExists(path))

	var got doc
	require.NoError(t, LoadTOMLFile(path, &got))
	assert.Equal(t, "x", got.Main.Name)
	assert.Equal(t, 3, got.Main.Count)

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	main, ok := ExtractSection(raw, "main")
	require.True(t, ok)
	name, ok := ExtractString(main, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", name)
	count, ok := ExtractInt64(main, "count")
	assert.True(t, ok)
	assert.Equal(t, 3, count)
	_, ok = ExtractBool(main, "count")
	assert.False(t, ok)
}

func TestResolveDictPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dictionary")

	assert.Equal(t, []string{path}, DictCandidates(path))
	assert.Equal(t, path, ResolveDictPath(path), "missing files resolve to themselves")

	require.NoError(t, os.WriteFile(path, []byte{3}, 0o644))
	assert.Equal(t, path, ResolveDictPath(path))
	assert.False(t, FileExists(dir), "directories are not dictionary files")
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.NoError(t, res.Error)
}
