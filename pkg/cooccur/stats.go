package cooccur

import (
	"math"
)

// Pair is a two-token span reached through a depth-1 node and one of its depth-2 children.
type Pair struct {
	First  string
	Second string
}

// Word returns the concatenated pair.
func (p Pair) Word() string {
	return p.First + p.Second
}

func (p Pair) String() string {
	return p.First + "_" + p.Second
}

// PairScore is one retained entry of PairPMI.
type PairScore struct {
	Pair        Pair
	Count       int
	PMI         float64
	Probability float64
}

// UnigramDistribution maps each terminal depth-1 token to count / total.
// ok is false when the root has no terminal children.
func (t *Trie) UnigramDistribution() (dist map[string]float64, total int, ok bool) {
	root := t.nodes[rootIndex]
	if len(root.children) == 0 {
		return nil, 0, false
	}

	for _, c := range root.children {
		if n := t.nodes[c]; n.terminal {
			total += n.count
		}
	}
	if total == 0 {
		return nil, 0, false
	}

	dist = make(map[string]float64, len(root.children))
	for _, c := range root.children {
		if n := t.nodes[c]; n.terminal {
			dist[n.token] = float64(n.count) / float64(total)
		}
	}
	return dist, total, true
}

// pairTotal sums the counts of all terminal depth-2 nodes.
func (t *Trie) pairTotal() int {
	total := 0
	for _, c1 := range t.nodes[rootIndex].children {
		for _, c2 := range t.nodes[c1].children {
			if n := t.nodes[c2]; n.terminal {
				total += n.count
			}
		}
	}
	return total
}

// PMI computes log2(max(count,1)) - log2(total) - log2(px) - log2(py).
func PMI(count, total int, px, py float64) float64 {
	return math.Log2(math.Max(float64(count), 1)) - math.Log2(float64(total)) - math.Log2(px) - math.Log2(py)
}

// PairPMI scores every terminal depth-2 pair and keeps those above the PMI threshold,
// in trie insertion order. ok is false when there are no unigrams or no pairs.
// A pair whose token has no unigram probability yields a *StructureError.
func (t *Trie) PairPMI() ([]PairScore, bool, error) {
	unigrams, _, ok := t.UnigramDistribution()
	if !ok {
		return nil, false, nil
	}
	total := t.pairTotal()
	if total == 0 {
		return nil, false, nil
	}

	var scores []PairScore
	for _, c1 := range t.nodes[rootIndex].children {
		first := t.nodes[c1]
		for _, c2 := range first.children {
			second := t.nodes[c2]
			if !second.terminal {
				continue
			}

			pmi, err := t.pairPMI(first.token, second.token, second.count, total, unigrams)
			if err != nil {
				return nil, false, err
			}
			if pmi <= t.pmiThreshold {
				continue
			}
			scores = append(scores, PairScore{
				Pair:        Pair{First: first.token, Second: second.token},
				Count:       second.count,
				PMI:         pmi,
				Probability: float64(second.count) / float64(total),
			})
		}
	}
	return scores, true, nil
}

func (t *Trie) pairPMI(x, y string, count, total int, unigrams map[string]float64) (float64, error) {
	px, ok := unigrams[x]
	if !ok || px <= 0 {
		return 0, &StructureError{Op: "pair pmi", Prefix: []string{x}, Depth: 1, Err: ErrUndefinedProbability}
	}
	py, ok := unigrams[y]
	if !ok || py <= 0 {
		return 0, &StructureError{Op: "pair pmi", Prefix: []string{x, y}, Depth: 2, Err: ErrUndefinedProbability}
	}
	return PMI(count, total, px, py), nil
}

// PairStats describes one pair regardless of the PMI threshold.
type PairStats struct {
	Pair         Pair
	Count        int
	Terminal     bool
	HasPMI       bool
	PMI          float64
	Probability  float64
	LeftEntropy  float64
	RightEntropy float64
}

// Score combines the pair statistics the same way ExtractCandidates does.
func (s PairStats) Score() float64 {
	return candidateScore(s.PMI, s.LeftEntropy, s.RightEntropy, s.Probability)
}

// PairStats looks up the pair (x, y). found is false when no depth-2 node exists for it.
// PMI is only filled in for terminal pairs.
func (t *Trie) PairStats(x, y string) (PairStats, bool, error) {
	idx, ok := t.find(x, y)
	if !ok {
		return PairStats{}, false, nil
	}

	n := t.nodes[idx]
	stats := PairStats{
		Pair:         Pair{First: x, Second: y},
		Count:        n.count,
		Terminal:     n.terminal,
		LeftEntropy:  t.nodeEntropy(idx, true),
		RightEntropy: t.nodeEntropy(idx, false),
	}
	if !n.terminal {
		return stats, true, nil
	}

	unigrams, _, ok := t.UnigramDistribution()
	if !ok {
		return stats, true, nil
	}
	total := t.pairTotal()
	pmi, err := t.pairPMI(x, y, n.count, total, unigrams)
	if err != nil {
		return stats, true, err
	}
	stats.HasPMI = true
	stats.PMI = pmi
	stats.Probability = float64(n.count) / float64(total)
	return stats, true, nil
}

// Summary holds aggregate counts of a trie.
type Summary struct {
	Nodes        int
	Unigrams     int
	UnigramTotal int
	Pairs        int
	PairTotal    int
	Forward3     int
	Rotated3     int
}

// Summarize counts nodes per depth and variant.
func (t *Trie) Summarize() Summary {
	s := Summary{Nodes: len(t.nodes)}
	for _, n := range t.nodes[1:] {
		if !n.terminal {
			continue
		}
		switch {
		case n.depth == 1:
			s.Unigrams++
			s.UnigramTotal += n.count
		case n.depth == 2:
			s.Pairs++
			s.PairTotal += n.count
		case n.rotated:
			s.Rotated3++
		default:
			s.Forward3++
		}
	}
	return s
}
