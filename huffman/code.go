package huffman

import (
	"strings"

	"github.com/chronos-tachyon/assert"
)

// maxPathBits sizes the derivation path buffer. A 256-leaf tree is at most
// 255 edges deep even when fully unbalanced.
const maxPathBits = 256

// Code is one symbol's prefix-free bit string, packed MSB-first. The zero
// value has length 0 and marks an absent table entry; every real code is at
// least one bit long.
type Code struct {
	bits []byte
	n    int
}

// Len returns the number of bits in the code.
func (c Code) Len() int {
	return c.n
}

// Bit returns bit i of the code, i counted from the first-emitted bit.
func (c Code) Bit(i int) bool {
	assert.Assertf(i >= 0 && i < c.n, "bit index %d out of range [0,%d)", i, c.n)
	return c.bits[i>>3]&(1<<(7-uint(i&7))) != 0
}

// String renders the code as '0'/'1' characters in emission order.
func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(c.n)
	for i := 0; i < c.n; i++ {
		if c.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func packCode(path []byte) Code {
	bits := make([]byte, (len(path)+7)/8)
	for i, b := range path {
		if b != 0 {
			bits[i>>3] |= 1 << (7 - uint(i&7))
		}
	}
	return Code{bits: bits, n: len(path)}
}

// CodeTable maps symbols to codes, covering exactly the symbols present in
// the tree it was derived from.
type CodeTable struct {
	codes [256]Code
}

// Lookup returns the code for sym and whether sym has one.
func (ct *CodeTable) Lookup(sym byte) (Code, bool) {
	c := ct.codes[sym]
	return c, c.n > 0
}

// Codes derives the symbol-to-code table with a depth-first pre-order walk:
// '0' appended on left edges, '1' on right edges, the accumulated path
// recorded at each leaf. A lone-leaf root gets the single-bit code "0",
// since a zero-length code cannot drive prefix traversal. The same tree
// always yields the same table.
func (t *Tree) Codes() *CodeTable {
	ct := &CodeTable{}
	if t.root.isLeaf() {
		ct.codes[t.root.symbol] = packCode([]byte{0})
		return ct
	}
	var path [maxPathBits]byte
	derive(t.root, path[:], 0, ct)
	return ct
}

func derive(n *node, path []byte, depth int, ct *CodeTable) {
	if n.isLeaf() {
		ct.codes[n.symbol] = packCode(path[:depth])
		return
	}
	assert.Assertf(depth < len(path), "code path depth %d exceeds %d", depth, len(path))
	path[depth] = 0
	derive(n.left, path, depth+1, ct)
	path[depth] = 1
	derive(n.right, path, depth+1, ct)
}
