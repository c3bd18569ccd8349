package cooccur

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCorpus = `
new york is a big city and new york never sleeps
she moved to new york for machine learning work
machine learning needs data and machine learning needs compute
the city that never sleeps is new york
big data and machine learning changed the city
`

func sampleTrie(t testing.TB, opts ...Option) *Trie {
	t.Helper()
	trie := New(opts...)
	for _, line := range strings.Split(strings.TrimSpace(sampleCorpus), "\n") {
		ingest(t, trie, strings.Fields(line), 3)
	}
	return trie
}

func TestConflicts(t *testing.T) {
	accepted := Pair{"A", "B"}
	tests := []struct {
		name      string
		candidate Pair
		want      bool
	}{
		{"first_equals_accepted_second", Pair{"B", "C"}, true},
		{"second_equals_accepted_first", Pair{"C", "A"}, true},
		{"contains_accepted_word", Pair{"XA", "BY"}, true},
		{"same_word_different_split", Pair{"AB", "Z"}, true},
		{"unrelated", Pair{"D", "E"}, false},
		{"shares_first_token", Pair{"A", "C"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conflicts(tt.candidate, accepted))
		})
	}
}

func TestSelectWords(t *testing.T) {
	ranked := []Candidate{
		{Pair: Pair{"A", "B"}, Word: "AB", Score: 5},
		{Pair: Pair{"B", "C"}, Word: "BC", Score: 4},
		{Pair: Pair{"XA", "BY"}, Word: "XABY", Score: 3},
		{Pair: Pair{"D", "E"}, Word: "DE", Score: 2},
		{Pair: Pair{"C", "A"}, Word: "CA", Score: 1},
		{Pair: Pair{"F", "G"}, Word: "FG", Score: 0.5},
	}

	words := func(cs []Candidate) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Word)
		}
		return out
	}

	assert.Equal(t, []string{"AB", "DE", "FG"}, words(selectWords(ranked, 10, nil)))
	assert.Equal(t, []string{"AB", "DE"}, words(selectWords(ranked, 2, nil)))
	assert.Equal(t, []string{"AB"}, words(selectWords(ranked, 1, nil)))
	assert.Empty(t, selectWords(ranked, 0, nil))
	assert.Empty(t, selectWords(ranked, -3, nil))

	// with AB excluded nothing blocks BC or XABY
	skipAB := func(w string) bool { return w == "AB" }
	assert.Equal(t, []string{"BC", "XABY", "DE", "FG"}, words(selectWords(ranked, 10, skipAB)))
}

func TestExtractCandidates(t *testing.T) {
	trie := sampleTrie(t, WithPMIThreshold(math.Inf(-1)))

	result, err := trie.ExtractCandidates(5)
	require.NoError(t, err)
	require.NotEmpty(t, result.Ranked)
	assert.LessOrEqual(t, len(result.Accepted), 5)
	require.NotEmpty(t, result.Accepted)

	for i := 1; i < len(result.Ranked); i++ {
		assert.GreaterOrEqual(t, result.Ranked[i-1].Score, result.Ranked[i].Score)
	}

	for _, c := range result.Ranked {
		stats, found, err := trie.PairStats(c.Pair.First, c.Pair.Second)
		require.NoError(t, err)
		require.True(t, found)
		assert.InDelta(t, stats.Score(), c.Score, 1e-12, "word %s", c.Word)
		assert.Equal(t, c.Pair.Word(), c.Word)
	}

	for i, a := range result.Accepted {
		for _, earlier := range result.Accepted[:i] {
			assert.False(t, conflicts(a.Pair, earlier.Pair), "%s accepted after %s", a.Word, earlier.Word)
		}
	}

	words := result.Words()
	assert.Len(t, words, len(result.Accepted))
	assert.Equal(t, result.Accepted[0].Score, words[result.Accepted[0].Word])
}

func TestExtractCandidatesDeterministic(t *testing.T) {
	trie := sampleTrie(t, WithPMIThreshold(0))

	first, err := trie.ExtractCandidates(10)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := trie.ExtractCandidates(10)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	parallel := sampleTrie(t, WithPMIThreshold(0), WithParallelism(3))
	fromParallel, err := parallel.ExtractCandidates(10)
	require.NoError(t, err)
	assert.Equal(t, first, fromParallel)
}

func TestExtractCandidatesExclude(t *testing.T) {
	trie := sampleTrie(t, WithPMIThreshold(math.Inf(-1)))

	plain, err := trie.ExtractCandidates(3)
	require.NoError(t, err)
	require.NotEmpty(t, plain.Accepted)
	top := plain.Accepted[0].Word

	filtered, err := trie.ExtractCandidates(3, WithExclude(func(w string) bool { return w == top }))
	require.NoError(t, err)
	assert.Equal(t, plain.Ranked, filtered.Ranked)
	assert.NotContains(t, filtered.Words(), top)
}

func TestExtractCandidatesEmpty(t *testing.T) {
	result, err := New().ExtractCandidates(10)
	assert.NoError(t, err)
	assert.Empty(t, result.Ranked)
	assert.Empty(t, result.Accepted)

	// default threshold filters everything in a small corpus
	result, err = sampleTrie(t).ExtractCandidates(10)
	assert.NoError(t, err)
	assert.Empty(t, result.Ranked)
}

func BenchmarkInsert(b *testing.B) {
	tokens := strings.Fields(strings.Repeat(sampleCorpus, 50))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		trie := New()
		ingest(b, trie, tokens, 3)
	}
}

func BenchmarkExtractCandidates(b *testing.B) {
	tokens := strings.Fields(strings.Repeat(sampleCorpus, 50))
	for _, parallelism := range []int{1, 4} {
		trie := New(WithPMIThreshold(0), WithParallelism(parallelism))
		ingest(b, trie, tokens, 3)
		b.Run(fmt.Sprintf("parallelism=%d", parallelism), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := trie.ExtractCandidates(20); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
