package cooccur

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// LeftEntropy returns, for every depth-2 node, the entropy of the tokens seen
// immediately before the pair. It reads the rotated depth-3 terminals.
// A rotated depth-2 node yields a *StructureError.
func (t *Trie) LeftEntropy() (map[Pair]float64, bool, error) {
	return t.boundaryEntropy(true)
}

// RightEntropy returns, for every depth-2 node, the entropy of the tokens seen
// immediately after the pair. It reads the forward depth-3 terminals.
func (t *Trie) RightEntropy() (map[Pair]float64, bool, error) {
	return t.boundaryEntropy(false)
}

type entropyEntry struct {
	pair  Pair
	value float64
}

func (t *Trie) boundaryEntropy(rotated bool) (map[Pair]float64, bool, error) {
	firsts := t.nodes[rootIndex].children
	if len(firsts) == 0 {
		return nil, false, nil
	}

	parts := make([][]entropyEntry, len(firsts))
	if t.parallelism < 2 {
		for i, c1 := range firsts {
			part, err := t.subtreeEntropy(c1, rotated)
			if err != nil {
				return nil, false, err
			}
			parts[i] = part
		}
	} else {
		var g errgroup.Group
		g.SetLimit(t.parallelism)
		for i, c1 := range firsts {
			i, c1 := i, c1
			g.Go(func() error {
				part, err := t.subtreeEntropy(c1, rotated)
				parts[i] = part
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, false, err
		}
	}

	result := make(map[Pair]float64)
	for _, part := range parts {
		for _, e := range part {
			result[e.pair] = e.value
		}
	}
	return result, true, nil
}

func (t *Trie) subtreeEntropy(first NodeIndex, rotated bool) ([]entropyEntry, error) {
	x := t.nodes[first]
	entries := make([]entropyEntry, 0, len(x.children))
	for _, c2 := range x.children {
		y := t.nodes[c2]
		if x.rotated || y.rotated {
			return nil, &StructureError{
				Op:     "boundary entropy",
				Prefix: []string{x.token, y.token},
				Depth:  y.depth,
				Err:    ErrMisplacedRotation,
			}
		}
		entries = append(entries, entropyEntry{
			pair:  Pair{First: x.token, Second: y.token},
			value: t.nodeEntropy(c2, rotated),
		})
	}
	return entries, nil
}

// nodeEntropy computes the Shannon entropy over the terminal depth-3 children
// of a pair node in the requested variant.
func (t *Trie) nodeEntropy(pair NodeIndex, rotated bool) float64 {
	var counts []int
	for _, c := range t.nodes[pair].children {
		n := t.nodes[c]
		if n.terminal && n.rotated == rotated {
			counts = append(counts, n.count)
		}
	}
	return Entropy(counts)
}

// Entropy returns -Σ p·log2(p) over the given counts.
// An empty or zero-sum set has entropy 0.
func Entropy(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}

	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	if h <= 0 {
		return 0
	}
	return h
}
