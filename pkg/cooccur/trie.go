// Package cooccur is the statistics core: a token trie that accumulates 1..3-gram counts
// and derives pair PMI, boundary entropy and ranked new-word candidates from them.
//
// Nodes live in a single arena slice and are addressed by index. Every node keeps its
// children in insertion order plus two lookup maps, one for forward children and one
// for rotated children, so depth-3 statistics can tell "what follows x,y" apart from
// "what precedes x,y" without a mirrored tree.
//
// A 3-gram (a, b, c) is stored twice: forward as a→b→c and rotated as b→c→a with the
// final node flagged as rotated. The rotated terminal under prefix (b, c) therefore
// records the left context a of the pair b,c.
package cooccur

import (
	"sort"
	"strings"
)

// DefaultPMIThreshold is the minimum PMI a pair needs to become a candidate.
const DefaultPMIThreshold = 20.0

// MaxSequence is the longest sequence Insert accepts.
const MaxSequence = 3

// NodeIndex is the position of a node in the arena.
type NodeIndex int

const rootIndex NodeIndex = 0

type node struct {
	token    string
	count    int
	terminal bool
	rotated  bool
	depth    int
	children []NodeIndex
	forward  map[string]NodeIndex
	rotation map[string]NodeIndex
}

// Trie holds the co-occurrence counts of a corpus.
// It is built by sequential Insert calls and is read-only afterwards.
type Trie struct {
	nodes        []node
	pmiThreshold float64
	parallelism  int
}

// Option configures a Trie.
type Option func(*Trie)

// WithPMIThreshold sets the minimum PMI for candidate pairs.
func WithPMIThreshold(threshold float64) Option {
	return func(t *Trie) {
		t.pmiThreshold = threshold
	}
}

// WithParallelism sets how many depth-1 subtrees the entropy pass visits concurrently.
// Values below 2 keep it sequential.
func WithParallelism(n int) Option {
	return func(t *Trie) {
		t.parallelism = n
	}
}

// New returns an empty trie with only the root sentinel.
func New(opts ...Option) *Trie {
	t := &Trie{
		nodes:        make([]node, 0, 1024),
		pmiThreshold: DefaultPMIThreshold,
		parallelism:  1,
	}
	t.nodes = append(t.nodes, node{})
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// PMIThreshold returns the configured minimum PMI.
func (t *Trie) PMIThreshold() float64 {
	return t.pmiThreshold
}

// SetPMIThreshold changes the minimum PMI used by PairPMI and ExtractCandidates.
func (t *Trie) SetPMIThreshold(threshold float64) {
	t.pmiThreshold = threshold
}

// SetParallelism changes the entropy pass concurrency.
func (t *Trie) SetParallelism(n int) {
	t.parallelism = n
}

// Len returns the number of nodes, root included.
func (t *Trie) Len() int {
	return len(t.nodes)
}

// Seed adds known single-token counts as terminal children of the root.
// Call it before any corpus ingestion. Tokens are seeded in sorted order.
func (t *Trie) Seed(freqs map[string]int) {
	tokens := make([]string, 0, len(freqs))
	for token := range freqs {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	for _, token := range tokens {
		idx := t.childOrCreate(rootIndex, token, false)
		n := &t.nodes[idx]
		n.count += freqs[token]
		n.terminal = true
	}
}

// Insert adds one occurrence of a 1..3 token sequence.
// A 3-token sequence (a, b, c) also adds the rotated sequence (b, c, a).
func (t *Trie) Insert(sequence []string) error {
	if len(sequence) == 0 || len(sequence) > MaxSequence {
		return ErrSequenceLength
	}

	t.insertPath(sequence, false)
	if len(sequence) == MaxSequence {
		t.insertPath([]string{sequence[1], sequence[2], sequence[0]}, true)
	}
	return nil
}

func (t *Trie) insertPath(sequence []string, rotated bool) {
	current := rootIndex
	last := len(sequence) - 1

	for i, token := range sequence {
		current = t.childOrCreate(current, token, rotated && i == last)
	}

	n := &t.nodes[current]
	n.count++
	n.terminal = true
}

// childOrCreate follows the child for token in the given variant, creating it when absent.
// Forward lookups never match a rotated child, even one with the same token, so a
// forward terminal is never rotated and right contexts stay apart from left contexts.
func (t *Trie) childOrCreate(parent NodeIndex, token string, rotated bool) NodeIndex {
	if idx, ok := t.child(parent, token, rotated); ok {
		return idx
	}

	idx := NodeIndex(len(t.nodes))
	t.nodes = append(t.nodes, node{
		token:   token,
		rotated: rotated,
		depth:   t.nodes[parent].depth + 1,
	})

	p := &t.nodes[parent]
	p.children = append(p.children, idx)
	if rotated {
		if p.rotation == nil {
			p.rotation = make(map[string]NodeIndex)
		}
		p.rotation[token] = idx
	} else {
		if p.forward == nil {
			p.forward = make(map[string]NodeIndex)
		}
		p.forward[token] = idx
	}
	return idx
}

func (t *Trie) child(parent NodeIndex, token string, rotated bool) (NodeIndex, bool) {
	p := &t.nodes[parent]
	var idx NodeIndex
	var ok bool
	if rotated {
		idx, ok = p.rotation[token]
	} else {
		idx, ok = p.forward[token]
	}
	return idx, ok
}

// find follows a forward path from the root.
func (t *Trie) find(path ...string) (NodeIndex, bool) {
	current := rootIndex
	for _, token := range path {
		next, ok := t.child(current, token, false)
		if !ok {
			return 0, false
		}
		current = next
	}
	return current, true
}

// Count returns the occurrence count of the forward path and whether it is terminal.
func (t *Trie) Count(sequence ...string) (int, bool) {
	idx, ok := t.find(sequence...)
	if !ok || idx == rootIndex {
		return 0, false
	}
	n := t.nodes[idx]
	return n.count, n.terminal
}

// RotatedCount returns the count of the rotated terminal stored for the 3-gram (a, b, c),
// which lives at b→c→a.
func (t *Trie) RotatedCount(a, b, c string) (int, bool) {
	prefix, ok := t.find(b, c)
	if !ok {
		return 0, false
	}
	idx, ok := t.child(prefix, a, true)
	if !ok {
		return 0, false
	}
	n := t.nodes[idx]
	return n.count, n.terminal
}

// NodeView is a read-only copy of one node handed to Walk.
type NodeView struct {
	Token    string
	Count    int
	Terminal bool
	Rotated  bool
	Depth    int
}

// Walk visits every node below the root depth-first in insertion order.
// path holds the tokens from depth 1 to the visited node and must not be retained.
// Returning false from fn skips the node's subtree.
func (t *Trie) Walk(fn func(path []string, n NodeView) bool) {
	path := make([]string, 0, MaxSequence)
	var visit func(idx NodeIndex)
	visit = func(idx NodeIndex) {
		for _, c := range t.nodes[idx].children {
			n := t.nodes[c]
			path = append(path, n.token)
			if fn(path, n.view()) {
				visit(c)
			}
			path = path[:len(path)-1]
		}
	}
	visit(rootIndex)
}

func (n node) view() NodeView {
	return NodeView{
		Token:    n.token,
		Count:    n.count,
		Terminal: n.terminal,
		Rotated:  n.rotated,
		Depth:    n.depth,
	}
}

// Equal reports whether both tries hold the same node graph, counts and flags.
// Child order is ignored.
func (t *Trie) Equal(other *Trie) bool {
	if len(t.nodes) != len(other.nodes) {
		return false
	}
	return t.equalNodes(rootIndex, other, rootIndex)
}

func (t *Trie) equalNodes(a NodeIndex, other *Trie, b NodeIndex) bool {
	na, nb := t.nodes[a], other.nodes[b]
	if na.token != nb.token || na.count != nb.count || na.terminal != nb.terminal ||
		na.rotated != nb.rotated || len(na.children) != len(nb.children) {
		return false
	}

	for _, c := range na.children {
		child := t.nodes[c]
		match, ok := other.child(b, child.token, child.rotated)
		if !ok || !t.equalNodes(c, other, match) {
			return false
		}
	}
	return true
}

// DebugString renders the trie for tests and debugging.
// Terminals are marked with '*' and rotated nodes with '~'.
func (t *Trie) DebugString() string {
	return t.debugStringNode(rootIndex)
}

func (t *Trie) debugStringNode(idx NodeIndex) string {
	var sb strings.Builder
	for _, c := range t.nodes[idx].children {
		n := t.nodes[c]
		if n.rotated {
			sb.WriteString("~")
		}
		sb.WriteString(n.token)
		if n.terminal {
			sb.WriteString("*")
		}
		sb.WriteString("(")
		sb.WriteString(t.debugStringNode(c))
		sb.WriteString(")")
	}
	return sb.String()
}
