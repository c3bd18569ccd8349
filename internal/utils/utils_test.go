package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWithCommas(t *testing.T) {
	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		123456:   "123,456",
		1234567:  "1,234,567",
		-9876543: "-9,876,543",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatWithCommas(in))
	}
}

func TestTokenPredicates(t *testing.T) {
	assert.True(t, IsOnlyNumbers("2019"))
	assert.False(t, IsOnlyNumbers("20a9"))
	assert.False(t, IsOnlyNumbers(""))
	assert.True(t, ContainsSpecialChars("new-york"))
	assert.False(t, ContainsSpecialChars("word2vec"))

	assert.True(t, IsValidToken("纽约"))
	assert.True(t, IsValidToken("york"))
	assert.False(t, IsValidToken("42"))
	assert.False(t, IsValidToken("a,b"))
	assert.False(t, IsValidToken(""))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{}, CreateRankList(0))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
	ranks := CreateRankList(70000)
	assert.Equal(t, uint16(65535), ranks[len(ranks)-1])
}

func TestExtractors(t *testing.T) {
	data := map[string]any{
		"i": int64(7),
		"f": 2.5,
		"b": true,
		"s": "x",
		"t": map[string]any{"k": int64(1)},
	}

	i, ok := ExtractInt64(data, "i")
	assert.True(t, ok)
	assert.Equal(t, 7, i)

	f, ok := ExtractFloat64(data, "f")
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	f, ok = ExtractFloat64(data, "i")
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	b, ok := ExtractBool(data, "b")
	assert.True(t, ok)
	assert.True(t, b)

	s, ok := ExtractString(data, "s")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = ExtractString(data, "i")
	assert.False(t, ok)

	section, ok := ExtractSection(data, "t")
	assert.True(t, ok)
	assert.Equal(t, int64(1), section["k"])
}

func TestSaveTOMLFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "cfg.toml")

	type sample struct {
		Name string `toml:"name"`
	}
	require.NoError(t, SaveTOMLFile(sample{Name: "wordfind"}, path))
	assert.True(t, FileExists(path))

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	assert.Equal(t, "wordfind", raw["name"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}
