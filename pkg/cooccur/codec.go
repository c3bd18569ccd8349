package cooccur

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = 1

// snapshot is the msgpack shape of a trie. Nodes keep their arena positions.
type snapshot struct {
	Version      int            `msgpack:"v"`
	PMIThreshold float64        `msgpack:"pmi"`
	Nodes        []snapshotNode `msgpack:"n"`
}

type snapshotNode struct {
	Token    string `msgpack:"t"`
	Count    int    `msgpack:"c"`
	Terminal bool   `msgpack:"e,omitempty"`
	Rotated  bool   `msgpack:"r,omitempty"`
	Children []int  `msgpack:"k,omitempty"`
}

var (
	_ msgpack.CustomEncoder = (*Trie)(nil)
	_ msgpack.CustomDecoder = (*Trie)(nil)
)

// EncodeMsgpack writes the full node graph with counts and flags.
func (t *Trie) EncodeMsgpack(enc *msgpack.Encoder) error {
	snap := snapshot{
		Version:      snapshotVersion,
		PMIThreshold: t.pmiThreshold,
		Nodes:        make([]snapshotNode, len(t.nodes)),
	}
	for i, n := range t.nodes {
		sn := snapshotNode{
			Token:    n.token,
			Count:    n.count,
			Terminal: n.terminal,
			Rotated:  n.rotated,
		}
		if len(n.children) > 0 {
			sn.Children = make([]int, len(n.children))
			for j, c := range n.children {
				sn.Children[j] = int(c)
			}
		}
		snap.Nodes[i] = sn
	}
	return enc.Encode(&snap)
}

// DecodeMsgpack rebuilds a trie written by EncodeMsgpack and validates that
// it is a proper tree: one root, one parent per node, no duplicate children.
func (t *Trie) DecodeMsgpack(dec *msgpack.Decoder) error {
	var snap snapshot
	if err := dec.Decode(&snap); err != nil {
		return err
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, snap.Version)
	}
	if len(snap.Nodes) == 0 {
		return fmt.Errorf("%w: missing root", ErrCorruptSnapshot)
	}

	nodes := make([]node, len(snap.Nodes))
	parent := make([]int, len(snap.Nodes))
	for i := range parent {
		parent[i] = -1
	}

	for i, sn := range snap.Nodes {
		nodes[i].token = sn.Token
		nodes[i].count = sn.Count
		nodes[i].terminal = sn.Terminal
		nodes[i].rotated = sn.Rotated
		if sn.Count < 0 {
			return fmt.Errorf("%w: node %d has negative count", ErrCorruptSnapshot, i)
		}
		for _, c := range sn.Children {
			// Children are always appended after their parent, so c > i rules out cycles.
			if c <= i || c >= len(snap.Nodes) {
				return fmt.Errorf("%w: node %d has invalid child %d", ErrCorruptSnapshot, i, c)
			}
			if parent[c] != -1 {
				return fmt.Errorf("%w: node %d has two parents", ErrCorruptSnapshot, c)
			}
			parent[c] = i
		}
	}

	for i := range nodes {
		if i > 0 && parent[i] == -1 {
			return fmt.Errorf("%w: node %d is unreachable", ErrCorruptSnapshot, i)
		}
		n := &nodes[i]
		if i > 0 {
			n.depth = nodes[parent[i]].depth + 1
			if n.depth > MaxSequence {
				return fmt.Errorf("%w: node %d is deeper than %d", ErrCorruptSnapshot, i, MaxSequence)
			}
			if n.rotated && n.depth != MaxSequence {
				return fmt.Errorf("%w: rotated node %d at depth %d", ErrCorruptSnapshot, i, n.depth)
			}
		}
		for _, c := range snap.Nodes[i].Children {
			child := NodeIndex(c)
			token := snap.Nodes[c].Token
			lookup := &n.forward
			if snap.Nodes[c].Rotated {
				lookup = &n.rotation
			}
			if *lookup == nil {
				*lookup = make(map[string]NodeIndex)
			}
			if _, dup := (*lookup)[token]; dup {
				return fmt.Errorf("%w: node %d has duplicate child %q", ErrCorruptSnapshot, i, token)
			}
			(*lookup)[token] = child
			n.children = append(n.children, child)
		}
	}

	t.nodes = nodes
	t.pmiThreshold = snap.PMIThreshold
	if t.parallelism == 0 {
		t.parallelism = 1
	}
	return nil
}
