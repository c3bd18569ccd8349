package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngest(t *testing.T) {
	trie := cooccur.New()
	in := NewIngester(trie, NewTokenizer(Options{}), 2)

	stats, err := in.Ingest(context.Background(), strings.NewReader("X Y X Y Z\n"))
	require.NoError(t, err)
	assert.Equal(t, IngestStats{Lines: 1, Sentences: 1, Tokens: 5, Sequences: 9}, stats)

	count, _ := trie.Count("X", "Y")
	assert.Equal(t, 2, count)
	count, _ = trie.Count("Y", "X")
	assert.Equal(t, 1, count)
	count, _ = trie.Count("Y", "Z")
	assert.Equal(t, 1, count)
}

func TestIngestSentencesDoNotBridge(t *testing.T) {
	trie := cooccur.New()
	in := NewIngester(trie, NewTokenizer(Options{}), 3)

	_, err := in.Ingest(context.Background(), strings.NewReader("a b. c d\ne f"))
	require.NoError(t, err)

	_, terminal := trie.Count("b", "c")
	assert.False(t, terminal)
	_, terminal = trie.Count("d", "e")
	assert.False(t, terminal)
	_, terminal = trie.Count("e", "f")
	assert.True(t, terminal)
}

func TestIngestSpanClamp(t *testing.T) {
	trie := cooccur.New()
	in := NewIngester(trie, NewTokenizer(Options{}), 10)

	stats, err := in.Ingest(context.Background(), strings.NewReader("a b c d"))
	require.NoError(t, err)
	assert.Equal(t, 4+3+2, stats.Sequences)

	count, terminal := trie.RotatedCount("b", "c", "d")
	assert.Equal(t, 1, count)
	assert.True(t, terminal)
}

func TestIngestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := NewIngester(cooccur.New(), NewTokenizer(Options{}), 3)
	_, err := in.Ingest(ctx, strings.NewReader("a b c"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("one two\nthree\n"), 0o644))

	in := NewIngester(cooccur.New(), NewTokenizer(Options{}), 3)
	stats, err := in.IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Lines)
	assert.Equal(t, 3, stats.Tokens)

	var total IngestStats
	total.Add(stats)
	total.Add(stats)
	assert.Equal(t, 4, total.Lines)

	_, err = in.IngestFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
