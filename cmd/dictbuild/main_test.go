package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBuildAndInfo(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "words.txt")
	out := filepath.Join(dir, "dictionary")
	require.NoError(t, os.WriteFile(list, []byte("cat\nbat\n\ncat\nCat\n"), 0o644))

	require.Equal(t, 0, runBuild([]string{"-q", "-U", "-f", "variable", "-p", "2", "-o", out, list}))

	d, err := dictionary.Open(out, dictionary.FormatAuto)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, dictionary.FormatVariable, d.Format())
	assert.Equal(t, 2, d.Len())

	var buf bytes.Buffer
	require.NoError(t, printInfo(&buf, d.Info(), true))
	var info dictionary.Info
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, "variable", info.Format)
	assert.Equal(t, 2, info.Records)
	assert.Equal(t, d.Info().Fingerprint, info.Fingerprint)

	buf.Reset()
	require.NoError(t, printInfo(&buf, d.Info(), false))
	assert.Contains(t, buf.String(), "records:         2")
}

func TestRunBuildRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "words.txt")
	out := filepath.Join(dir, "dictionary")
	require.NoError(t, os.WriteFile(list, []byte("ok\nbad\x00word\n"), 0o644))

	assert.Equal(t, 1, runBuild([]string{"-q", "-o", out, list}))
	assert.NoFileExists(t, out)
	assert.Equal(t, 2, runBuild([]string{"-q", "-f", "auto", "-o", out, list}))
	assert.Equal(t, 1, runBuild([]string{"-q", "-o", out, filepath.Join(dir, "missing.txt")}))
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "fixed or variable", formatNames(" or "))
	for _, name := range strings.Split(formatNames(","), ",") {
		f, err := dictionary.ParseFormat(name)
		require.NoError(t, err)
		assert.NotEqual(t, dictionary.FormatAuto, f)
	}
}
