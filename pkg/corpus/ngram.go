// Package corpus turns raw text into token sequences and feeds them into a co-occurrence trie.
package corpus

// NGrams returns every contiguous span of 1..n tokens, all unigrams first, then all
// bigrams, and so on. Shorter spans come first so that every token of a pair is
// already counted as a unigram when the pair is inserted.
// Empty input or n < 1 yields no spans.
func NGrams(tokens []string, n int) [][]string {
	var out [][]string
	_ = EachNGram(tokens, n, func(gram []string) error {
		out = append(out, gram)
		return nil
	})
	return out
}

// EachNGram calls fn for every span NGrams would return and stops at the first error.
// The slices passed to fn alias tokens and must not be modified.
func EachNGram(tokens []string, n int, fn func(gram []string) error) error {
	for size := 1; size <= n; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			if err := fn(tokens[i : i+size : i+size]); err != nil {
				return err
			}
		}
	}
	return nil
}
