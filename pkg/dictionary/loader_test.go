package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeed(t *testing.T) {
	input := strings.Join([]string{
		"成功 3",
		"赋予 6 v",
		"rare 2",
		"",
		"lonely",
		"bogus x",
		"  spaced   10  ",
		"成功 12",
	}, "\n")

	freqs, stats, err := ReadSeed(strings.NewReader(input), DefaultMinSeedCount)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"成功": 12, "赋予": 6, "spaced": 10}, freqs)
	assert.Equal(t, 8, stats.Lines)
	assert.Equal(t, 4, stats.Kept)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 2, stats.Malformed)
}

func TestReadSeedMinCount(t *testing.T) {
	freqs, _, err := ReadSeed(strings.NewReader("a 1\nb 5\nc 9"), 5)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"c": 9}, freqs)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha 30\nbeta 1\n"), 0o644))

	freqs, stats, err := LoadSeed(path, DefaultMinSeedCount)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"alpha": 30}, freqs)
	assert.Equal(t, 1, stats.Dropped)

	_, _, err = LoadSeed(filepath.Join(t.TempDir(), "missing.txt"), DefaultMinSeedCount)
	assert.Error(t, err)
}

func TestReadStopWords(t *testing.T) {
	words, err := ReadStopWords(strings.NewReader("的\n  了 \n\nthe\n"))
	require.NoError(t, err)
	assert.Len(t, words, 3)
	assert.True(t, words.Contains("了"))
	assert.True(t, words.Contains("the"))
	assert.False(t, words.Contains(""))

	var none StopWords
	assert.False(t, none.Contains("the"))
}

func TestLoadStopWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nan\n"), 0o644))

	words, err := LoadStopWords(path)
	require.NoError(t, err)
	assert.True(t, words.Contains("an"))

	_, err = LoadStopWords(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
