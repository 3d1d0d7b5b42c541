package huffman

import (
	"errors"
	"sort"

	"github.com/chronos-tachyon/assert"
)

// ErrNoSymbols indicates a frequency table with no nonzero counts; a tree
// cannot be built from it.
var ErrNoSymbols = errors.New("no symbols with nonzero frequency")

type node struct {
	symbol      byte
	weight      uint64
	left, right *node
}

// Internal nodes always carry two children, so checking one side suffices.
func (n *node) isLeaf() bool {
	return n.left == nil
}

// Tree is a Huffman prefix tree. Leaves correspond one-to-one to the symbols
// observed in the source frequency table; every internal node has exactly two
// children. A single observed symbol degenerates to a lone leaf root.
type Tree struct {
	root   *node
	leaves int
}

// BuildTree constructs the prefix tree by greedy weight merging:
// one leaf per nonzero-count symbol, collected in ascending symbol order,
// then repeatedly stable-sorted ascending by weight (ties keep their list
// position), the two lightest merged under a new internal node (left is the
// first removed, right the second) which re-enters the list at the front.
//
// The procedure depends only on the counts, which is what lets the decode
// side rebuild an identical tree from the serialized frequency table.
func BuildTree(freq *FrequencyTable) (*Tree, error) {
	nodes := make([]*node, 0, freq.Distinct())
	for sym, count := range freq {
		if count > 0 {
			nodes = append(nodes, &node{symbol: byte(sym), weight: uint64(count)})
		}
	}
	if len(nodes) == 0 {
		return nil, ErrNoSymbols
	}
	leaves := len(nodes)

	for len(nodes) > 1 {
		sort.SliceStable(nodes, func(i, j int) bool {
			return nodes[i].weight < nodes[j].weight
		})
		parent := &node{
			weight: nodes[0].weight + nodes[1].weight,
			left:   nodes[0],
			right:  nodes[1],
		}
		nodes = nodes[1:]
		nodes[0] = parent
	}

	assert.Assertf(len(nodes) == 1, "merge loop ended with %d nodes", len(nodes))
	return &Tree{root: nodes[0], leaves: leaves}, nil
}

// Leaves returns the number of distinct symbols in the tree.
func (t *Tree) Leaves() int {
	return t.leaves
}

// Walker traverses the tree one bit at a time while decoding: left on 0,
// right on 1, emitting a symbol and restarting at the root whenever a leaf
// is reached. A lone-leaf root emits its symbol on every consumed bit,
// matching the single-bit code such a tree is assigned.
type Walker struct {
	root *node
	cur  *node
}

// Walker returns a fresh traversal cursor positioned at the root.
func (t *Tree) Walker() *Walker {
	return &Walker{root: t.root, cur: t.root}
}

// Step consumes one bit. When the step lands on a leaf it returns that
// symbol with emitted=true and resets the cursor to the root; otherwise it
// descends and returns emitted=false.
func (w *Walker) Step(bit bool) (sym byte, emitted bool) {
	if w.root.isLeaf() {
		return w.root.symbol, true
	}
	if bit {
		w.cur = w.cur.right
	} else {
		w.cur = w.cur.left
	}
	if w.cur.isLeaf() {
		sym = w.cur.symbol
		w.cur = w.root
		return sym, true
	}
	return 0, false
}

// AtRoot reports whether the cursor sits at the root, i.e. the bits consumed
// so far form whole codes with nothing dangling.
func (w *Walker) AtRoot() bool {
	return w.cur == w.root
}
