package discover

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordfind/pkg/config"
	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cityCorpus = "new york is big\nnew york is old\ni love new york\n"

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Discover.PMIThreshold = 0
	cfg.Discover.MaxCandidates = 10
	cfg.Discover.Parallelism = 1
	return cfg
}

func words(cands []cooccur.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Word
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildAndDiscover(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "city.txt", cityCorpus)

	p := New(testConfig())
	trie, stats, err := p.Build(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Lines)
	assert.Equal(t, 12, stats.Tokens)
	assert.Equal(t, 27, stats.Sequences)

	count, terminal := trie.Count("new", "york")
	assert.True(t, terminal)
	assert.Equal(t, 3, count)

	result, err := p.Discover(trie)
	require.NoError(t, err)
	assert.Len(t, result.Ranked, 6)
	assert.Equal(t, "newyork", result.Ranked[0].Word)
	// yorkis starts with the second part of newyork, lovenew ends with its first part
	assert.Equal(t, []string{"newyork", "ilove", "isbig", "isold"}, words(result.Accepted))
}

func TestDiscoverSkipKnown(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Dict.SeedPath = writeFile(t, dir, "seed.txt", "newyork 10\nrare 1\nbroken\n")
	cfg.Discover.SkipKnown = true

	p := New(cfg)
	trie, _, err := p.BuildFrom(context.Background(), strings.NewReader(cityCorpus))
	require.NoError(t, err)

	assert.True(t, p.Lexicon().Contains("newyork"))
	assert.False(t, p.Lexicon().Contains("rare"))

	count, terminal := trie.Count("newyork")
	assert.True(t, terminal)
	assert.Equal(t, 10, count)

	result, err := p.Discover(trie)
	require.NoError(t, err)
	assert.Contains(t, words(result.Ranked), "newyork")
	assert.NotContains(t, words(result.Accepted), "newyork")
	// the excluded word does not block its neighbours
	assert.Contains(t, words(result.Accepted), "yorkis")
}

func TestBuildStopWords(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Corpus.StopWordsPath = writeFile(t, dir, "stop.txt", "is\n  i \n")

	p := New(cfg)
	trie, stats, err := p.BuildFrom(context.Background(), strings.NewReader(cityCorpus))
	require.NoError(t, err)
	assert.Equal(t, 9, stats.Tokens)

	_, terminal := trie.Count("is")
	assert.False(t, terminal)
	count, _ := trie.Count("york", "big")
	assert.Equal(t, 1, count)
}

func TestBuildErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Dict.SeedPath = filepath.Join(t.TempDir(), "missing.txt")
	_, _, err := New(cfg).Build(context.Background())
	assert.Error(t, err)

	_, _, err = New(testConfig()).Build(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = New(testConfig()).BuildFrom(ctx, strings.NewReader(cityCorpus))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscoverLimits(t *testing.T) {
	cfg := testConfig()
	p := New(cfg)
	trie, _, err := p.BuildFrom(context.Background(), strings.NewReader(cityCorpus))
	require.NoError(t, err)

	cfg.Discover.MaxCandidates = 1
	result, err := p.Discover(trie)
	require.NoError(t, err)
	assert.Equal(t, []string{"newyork"}, words(result.Accepted))

	cfg.Discover.MaxCandidates = 0
	result, err = p.Discover(trie)
	require.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Len(t, result.Ranked, 6)

	empty, err := p.Discover(p.NewTrie())
	require.NoError(t, err)
	assert.Empty(t, empty.Ranked)
}

func TestWriteWords(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWords(&buf, []cooccur.Candidate{
		{Word: "newyork", Score: 0.80500001},
		{Word: "ilove", Score: 0.25},
	})
	require.NoError(t, err)
	assert.Equal(t, "newyork 0.8050\nilove 0.2500\n", buf.String())
}
