package model

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrie(t *testing.T) *cooccur.Trie {
	t.Helper()
	trie := cooccur.New(cooccur.WithPMIThreshold(2))
	trie.Seed(map[string]int{"seed": 5})
	for _, seq := range [][]string{{"a"}, {"b"}, {"c"}, {"a", "b"}, {"b", "c"}, {"a", "b", "c"}} {
		require.NoError(t, trie.Insert(seq))
	}
	return trie
}

func TestWriteRead(t *testing.T) {
	trie := sampleTrie(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, trie))
	assert.True(t, strings.HasPrefix(buf.String(), Magic))

	restored, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, trie.Equal(restored))
	assert.Equal(t, trie.DebugString(), restored.DebugString())
	assert.Equal(t, 2.0, restored.PMIThreshold())
}

func TestReadRejectsForeignData(t *testing.T) {
	_, err := Read(strings.NewReader("nope, plain text"))
	assert.ErrorIs(t, err, ErrNotModel)

	_, err = Read(strings.NewReader("WF"))
	assert.ErrorIs(t, err, ErrNotModel)

	_, err = Read(strings.NewReader(Magic + "\x09\x00"))
	assert.ErrorContains(t, err, "unsupported model version 9")

	_, err = Read(strings.NewReader(Magic + "\x01\x00\xc1"))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	trie := sampleTrie(t)
	path := filepath.Join(t.TempDir(), "models", "corpus.wfm")

	require.NoError(t, Save(path, trie))
	restored, err := Load(path)
	require.NoError(t, err)
	assert.True(t, trie.Equal(restored))

	format, err := DetectFileFormat(path)
	require.NoError(t, err)
	assert.Equal(t, FormatModel, format)
}

func TestSaveLoadAnyExtension(t *testing.T) {
	trie := sampleTrie(t)
	dir := t.TempDir()

	for _, name := range []string{"news.model", "news", "news.WFM", "news.txt"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, trie))

			restored, err := Load(path)
			require.NoError(t, err)
			assert.True(t, trie.Equal(restored))

			format, err := DetectFileFormat(path)
			require.NoError(t, err)
			assert.Equal(t, FormatModel, format)
		})
	}
}

func TestLoadRejectsText(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("X Y X Y Z\n"), 0o644))

	_, err := Load(textPath)
	assert.ErrorIs(t, err, ErrNotModel)

	format, err := DetectFileFormat(textPath)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)

	fakeModel := filepath.Join(dir, "fake.wfm")
	require.NoError(t, os.WriteFile(fakeModel, []byte("XXXXXXXX"), 0o644))
	_, err = Load(fakeModel)
	assert.ErrorIs(t, err, ErrNotModel)
}

func TestValidateTextFormat(t *testing.T) {
	dir := t.TempDir()

	// a 3-byte rune straddling the 1 KiB read boundary
	long := strings.Repeat("a", 1023) + "世界"
	path := filepath.Join(dir, "long.txt")
	require.NoError(t, os.WriteFile(path, []byte(long), 0o644))
	assert.NoError(t, ValidateFileFormat(path, FormatText))

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe, 'a', 'b'}, 0o644))
	assert.Error(t, ValidateFileFormat(bad, FormatText))

	assert.Error(t, ValidateFileFormat(dir, FormatText))
}
