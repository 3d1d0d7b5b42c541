package huffman

import (
	"errors"
	"testing"
)

func mustBuild(t *testing.T, freq *FrequencyTable) *Tree {
	t.Helper()
	tree, err := BuildTree(freq)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	return tree
}

func codeString(t *testing.T, ct *CodeTable, sym byte) string {
	t.Helper()
	c, ok := ct.Lookup(sym)
	if !ok {
		t.Fatalf("no code for %q", sym)
	}
	return c.String()
}

func TestBuildTreeEmptyTable(t *testing.T) {
	var freq FrequencyTable
	if _, err := BuildTree(&freq); !errors.Is(err, ErrNoSymbols) {
		t.Fatalf("err = %v, want ErrNoSymbols", err)
	}
}

func TestBuildTreeSingleSymbol(t *testing.T) {
	ft := Count([]byte("zzzz"))
	tree := mustBuild(t, ft)
	if got := tree.Leaves(); got != 1 {
		t.Fatalf("Leaves() = %d, want 1", got)
	}
	ct := tree.Codes()
	if got := codeString(t, ct, 'z'); got != "0" {
		t.Errorf("code for 'z' = %q, want %q", got, "0")
	}
	if _, ok := ct.Lookup('a'); ok {
		t.Errorf("absent symbol 'a' has a code")
	}
}

// The two-symbol vector pins the merge order: leaves collect in ascending
// symbol order [a b], the stable ascending sort moves the lighter b first,
// so b becomes the left child ("0") and a the right ("1").
func TestBuildTreeTwoSymbols(t *testing.T) {
	ft := Count([]byte("aaab"))
	tree := mustBuild(t, ft)
	if got := tree.Leaves(); got != 2 {
		t.Fatalf("Leaves() = %d, want 2", got)
	}
	ct := tree.Codes()
	if got := codeString(t, ct, 'b'); got != "0" {
		t.Errorf("code for 'b' = %q, want %q", got, "0")
	}
	if got := codeString(t, ct, 'a'); got != "1" {
		t.Errorf("code for 'a' = %q, want %q", got, "1")
	}
}

// All-equal weights exercise the tie rule: position in the list decides, not
// symbol value, and merged parents re-enter at the front.
func TestBuildTreeTieBreaking(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[byte]string
	}{
		{
			// [a b c] -> merge a,b; parent leads, then sorts after c.
			"three equal", "abc",
			map[byte]string{'c': "0", 'a': "10", 'b': "11"},
		},
		{
			// [a b c d] -> merge a,b; then c,d; the c,d parent sits in
			// front of the equal-weight a,b parent and becomes the left
			// subtree.
			"four equal", "abcd",
			map[byte]string{'c': "00", 'd': "01", 'a': "10", 'b': "11"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := mustBuild(t, Count([]byte(tt.input))).Codes()
			for sym, want := range tt.want {
				if got := codeString(t, ct, sym); got != want {
					t.Errorf("code for %q = %q, want %q", sym, got, want)
				}
			}
		})
	}
}

// Fibonacci-like counts force the fully unbalanced shape: with n leaves the
// deepest code is n-1 bits and each heavier symbol sits one level higher.
func TestBuildTreeSkewedDepths(t *testing.T) {
	counts := []uint32{1, 1, 2, 3, 5, 8, 13}
	var freq FrequencyTable
	for i, c := range counts {
		freq[i] = c
	}

	ct := mustBuild(t, &freq).Codes()
	wantLen := map[byte]int{6: 1, 5: 2, 4: 3, 3: 4, 2: 5, 1: 6, 0: 6}
	for sym, want := range wantLen {
		c, ok := ct.Lookup(sym)
		if !ok {
			t.Fatalf("no code for symbol %d", sym)
		}
		if c.Len() != want {
			t.Errorf("code length for symbol %d = %d, want %d", sym, c.Len(), want)
		}
	}
}

// A long Fibonacci run drives code lengths past 32 bits, which the packed
// representation must carry without truncation.
func TestBuildTreeDeepChain(t *testing.T) {
	var freq FrequencyTable
	a, b := uint32(1), uint32(1)
	n := 0
	for {
		freq[n] = a
		n++
		next := uint64(a) + uint64(b)
		if next > uint64(^uint32(0)) || n == 256 {
			break
		}
		a, b = b, uint32(next)
	}
	if n < 40 {
		t.Fatalf("fibonacci run too short: %d", n)
	}

	tree := mustBuild(t, &freq)
	ct := tree.Codes()

	maxLen := 0
	for i := 0; i < n; i++ {
		c, ok := ct.Lookup(byte(i))
		if !ok {
			t.Fatalf("no code for symbol %d", i)
		}
		if c.Len() > maxLen {
			maxLen = c.Len()
		}
	}
	if want := n - 1; maxLen != want {
		t.Errorf("deepest code = %d bits, want %d", maxLen, want)
	}

	// The deepest code must survive the packed form bit by bit.
	c, _ := ct.Lookup(0)
	s := c.String()
	if len(s) != c.Len() {
		t.Fatalf("String() length %d != Len() %d", len(s), c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		want := s[i] == '1'
		if got := c.Bit(i); got != want {
			t.Errorf("bit %d = %v, want %v", i, got, want)
		}
	}
}

func TestBuildTreeDeterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	first := mustBuild(t, Count(data)).Codes()
	for run := 0; run < 5; run++ {
		again := mustBuild(t, Count(data)).Codes()
		for sym := 0; sym < 256; sym++ {
			a, aok := first.Lookup(byte(sym))
			b, bok := again.Lookup(byte(sym))
			if aok != bok {
				t.Fatalf("run %d: presence differs for symbol %d", run, sym)
			}
			if aok && a.String() != b.String() {
				t.Fatalf("run %d: code for symbol %d = %q, want %q", run, sym, b.String(), a.String())
			}
		}
	}
}

func TestWalkerEmitsSymbols(t *testing.T) {
	data := []byte("huffman walker")
	tree := mustBuild(t, Count(data))
	ct := tree.Codes()

	// Feed the concatenated code bits back through a walker.
	w := tree.Walker()
	var out []byte
	for _, sym := range data {
		c, ok := ct.Lookup(sym)
		if !ok {
			t.Fatalf("no code for %q", sym)
		}
		for i := 0; i < c.Len(); i++ {
			if s, emitted := w.Step(c.Bit(i)); emitted {
				out = append(out, s)
			}
		}
	}

	if string(out) != string(data) {
		t.Errorf("walked output = %q, want %q", out, data)
	}
	if !w.AtRoot() {
		t.Errorf("walker not at root after whole codes")
	}
}

func TestWalkerMidCode(t *testing.T) {
	tree := mustBuild(t, Count([]byte("abc")))
	w := tree.Walker()

	// 'a' is "10"; after the first bit the cursor hangs mid-code.
	if _, emitted := w.Step(true); emitted {
		t.Fatalf("emitted after first bit of a two-bit code")
	}
	if w.AtRoot() {
		t.Errorf("AtRoot() = true mid-code")
	}
	sym, emitted := w.Step(false)
	if !emitted || sym != 'a' {
		t.Fatalf("Step = (%q, %v), want ('a', true)", sym, emitted)
	}
	if !w.AtRoot() {
		t.Errorf("AtRoot() = false after a completed code")
	}
}

func TestWalkerLoneLeaf(t *testing.T) {
	tree := mustBuild(t, Count([]byte("aaaa")))
	w := tree.Walker()
	for i := 0; i < 4; i++ {
		sym, emitted := w.Step(false)
		if !emitted || sym != 'a' {
			t.Fatalf("step %d: Step = (%q, %v), want ('a', true)", i, sym, emitted)
		}
	}
	if !w.AtRoot() {
		t.Errorf("lone-leaf walker left the root")
	}
}
