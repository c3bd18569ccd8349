package cooccur

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Candidate is a scored pair considered as a new word.
type Candidate struct {
	Pair         Pair
	Word         string
	Score        float64
	PMI          float64
	Probability  float64
	LeftEntropy  float64
	RightEntropy float64
}

// Result holds the full ranking and the accepted words in acceptance order.
type Result struct {
	Ranked   []Candidate
	Accepted []Candidate
}

// Words maps each accepted word to its score.
func (r Result) Words() map[string]float64 {
	words := make(map[string]float64, len(r.Accepted))
	for _, c := range r.Accepted {
		words[c.Word] = c.Score
	}
	return words
}

type rankOptions struct {
	exclude func(word string) bool
}

// RankOption configures ExtractCandidates.
type RankOption func(*rankOptions)

// WithExclude skips candidates whose word matches fn during acceptance.
// Excluded candidates stay in the ranked list and do not block later ones.
func WithExclude(fn func(word string) bool) RankOption {
	return func(o *rankOptions) {
		o.exclude = fn
	}
}

func candidateScore(pmi, left, right, probability float64) float64 {
	return (pmi + math.Min(left, right)) * probability
}

// ExtractCandidates ranks every pair above the PMI threshold by
// (PMI + min(left entropy, right entropy)) * pair probability and greedily accepts
// up to maxCount words that do not overlap an already accepted word.
// A non-positive maxCount accepts nothing.
func (t *Trie) ExtractCandidates(maxCount int, opts ...RankOption) (Result, error) {
	var o rankOptions
	for _, opt := range opts {
		opt(&o)
	}

	scores, ok, err := t.PairPMI()
	if err != nil {
		return Result{}, err
	}
	if !ok || len(scores) == 0 {
		return Result{}, nil
	}

	left, _, err := t.LeftEntropy()
	if err != nil {
		return Result{}, err
	}
	right, _, err := t.RightEntropy()
	if err != nil {
		return Result{}, err
	}

	ranked := make([]Candidate, 0, len(scores))
	for _, s := range scores {
		hl, okl := left[s.Pair]
		hr, okr := right[s.Pair]
		if !okl || !okr {
			return Result{}, &StructureError{
				Op:     "extract candidates",
				Prefix: []string{s.Pair.First, s.Pair.Second},
				Depth:  2,
				Err:    ErrMissingEntropy,
			}
		}
		ranked = append(ranked, Candidate{
			Pair:         s.Pair,
			Word:         s.Pair.Word(),
			Score:        candidateScore(s.PMI, hl, hr, s.Probability),
			PMI:          s.PMI,
			Probability:  s.Probability,
			LeftEntropy:  hl,
			RightEntropy: hr,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return Result{Ranked: ranked, Accepted: selectWords(ranked, maxCount, o.exclude)}, nil
}

func selectWords(ranked []Candidate, maxCount int, exclude func(string) bool) []Candidate {
	if maxCount <= 0 {
		return nil
	}

	var accepted []Candidate
	for _, c := range ranked {
		if exclude != nil && exclude(c.Word) {
			log.Debug("candidate excluded", "word", c.Word, "score", c.Score)
			continue
		}
		if blocker, ok := firstConflict(c.Pair, accepted); ok {
			log.Debug("candidate rejected", "word", c.Word, "score", c.Score, "blocked_by", blocker.Word)
			continue
		}

		log.Debug("candidate accepted", "word", c.Word, "score", c.Score)
		accepted = append(accepted, c)
		if len(accepted) >= maxCount {
			break
		}
	}
	return accepted
}

func firstConflict(p Pair, accepted []Candidate) (Candidate, bool) {
	for _, a := range accepted {
		if conflicts(p, a.Pair) {
			return a, true
		}
	}
	return Candidate{}, false
}

// conflicts is the overlap heuristic: a candidate is blocked when it chains onto an
// accepted pair from either side or contains the accepted word.
// It also blocks some legitimate chains; that is accepted behavior.
func conflicts(candidate, accepted Pair) bool {
	return candidate.Second == accepted.First ||
		candidate.First == accepted.Second ||
		strings.Contains(candidate.Word(), accepted.Word())
}
