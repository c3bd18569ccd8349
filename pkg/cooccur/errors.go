package cooccur

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSequenceLength is returned by Insert for sequences outside 1..3 tokens.
	ErrSequenceLength = errors.New("sequence must hold 1 to 3 tokens")

	// ErrUndefinedProbability marks a pair whose token has no unigram probability.
	// It means the trie was built out of order and scores cannot be trusted.
	ErrUndefinedProbability = errors.New("undefined unigram probability")

	// ErrMissingEntropy marks a scored pair with no entropy entry.
	ErrMissingEntropy = errors.New("missing boundary entropy")

	// ErrMisplacedRotation marks a rotated node above depth 3.
	ErrMisplacedRotation = errors.New("rotated node above depth 3")

	// ErrCorruptSnapshot is returned when a decoded node graph is not a valid trie.
	ErrCorruptSnapshot = errors.New("corrupt trie snapshot")
)

// StructureError reports a broken trie invariant with the prefix and depth it was found at.
type StructureError struct {
	Op     string
	Prefix []string
	Depth  int
	Err    error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: prefix [%s] at depth %d: %v", e.Op, strings.Join(e.Prefix, " "), e.Depth, e.Err)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}
