// Package huffman implements greedy Huffman coding over the fixed 256-symbol
// byte alphabet: frequency counting, prefix-tree construction, code
// derivation and bit-by-bit decoding state.
package huffman

// FrequencyTable counts symbol occurrences over the byte alphabet. A zero
// count marks an absent symbol. Counts are 32-bit to match the container's
// frequency fields; the pipeline rejects inputs long enough to overflow one.
type FrequencyTable [256]uint32

// Count builds a frequency table from data in a single pass.
func Count(data []byte) *FrequencyTable {
	var t FrequencyTable
	for _, b := range data {
		t[b]++
	}
	return &t
}

// Distinct returns the number of symbols with a nonzero count.
func (t *FrequencyTable) Distinct() int {
	n := 0
	for _, c := range t {
		if c > 0 {
			n++
		}
	}
	return n
}

// Total returns the sum of all counts, i.e. the byte length of the counted
// input.
func (t *FrequencyTable) Total() uint64 {
	var sum uint64
	for _, c := range t {
		sum += uint64(c)
	}
	return sum
}
