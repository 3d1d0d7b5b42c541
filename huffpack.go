// Package huffpack implements byte-oriented Huffman coding with a
// self-describing container format.
//
// Compress counts how often each byte value occurs, builds a prefix tree
// by repeatedly merging the two lightest nodes, and packs one code per
// input byte into the container body. The container header carries the
// full frequency table, so Decompress rebuilds the identical tree with no
// side channel. Encoding the same input always yields the same container.
package huffpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"

	"github.com/yannvanhalewyn/huffpack/bitstream"
	"github.com/yannvanhalewyn/huffpack/huffman"
)

// Frequency counts travel as uint32, so input length and decoded length
// are both capped at what the table can account for.
const maxDataLen = 1<<32 - 1

var (
	// ErrEmptyInput indicates there were no bytes to encode. The tree
	// build has no defined root for an empty frequency table.
	ErrEmptyInput = errors.New("empty input")
	// ErrInputTooLarge indicates the data exceeds what the container's
	// 32-bit frequency counts can describe.
	ErrInputTooLarge = errors.New("input too large")
	// ErrMalformedContainer indicates a container that is structurally
	// invalid: bad magic, out-of-range header fields, or a body that
	// does not match its own frequency table.
	ErrMalformedContainer = errors.New("malformed container")
	// ErrTruncatedContainer indicates a container that ends before the
	// data its header promises.
	ErrTruncatedContainer = errors.New("truncated container")
)

// Compress encodes data into a container carrying the frequency table and
// the packed code stream.
func Compress(data []byte) (*Container, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if uint64(len(data)) > maxDataLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}

	freq := huffman.Count(data)
	tree, err := huffman.BuildTree(freq)
	if err != nil {
		return nil, err
	}
	codes := tree.Codes()

	var buf bytes.Buffer
	bw := bitstream.NewWriter(&buf)
	for _, sym := range data {
		code, ok := codes.Lookup(sym)
		assert.Assertf(ok, "no code for symbol %d", sym)
		for i := 0; i < code.Len(); i++ {
			if err := bw.WriteBit(code.Bit(i)); err != nil {
				return nil, err
			}
		}
	}
	padding, err := bw.Flush()
	if err != nil {
		return nil, err
	}

	return &Container{
		Frequencies: *freq,
		Padding:     padding,
		Body:        buf.Bytes(),
	}, nil
}

// Decompress rebuilds the prefix tree from the container's frequency
// table and walks it bit by bit to recover the original bytes. The whole
// output is held in memory, allocated up front from the table's total
// count, so peak usage is the container plus the decoded length.
func (c *Container) Decompress() ([]byte, error) {
	if err := validateContainerStructure(c); err != nil {
		return nil, err
	}

	tree, err := huffman.BuildTree(&c.Frequencies)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	codes := tree.Codes()

	total := c.Frequencies.Total()
	if total > maxDataLen {
		return nil, fmt.Errorf("%w: container decodes to %d bytes", ErrInputTooLarge, total)
	}

	// The walk is bounded by the bit count computed here, never by the
	// end-of-stream alone: the padding bits at the tail are not code bits
	// and must not be interpreted as tree steps.
	bodyBits := uint64(len(c.Body))*8 - uint64(c.Padding)
	expected := expectedBodyBits(&c.Frequencies, codes)
	if bodyBits < expected {
		return nil, fmt.Errorf("%w: body holds %d bits, frequency table needs %d", ErrTruncatedContainer, bodyBits, expected)
	}
	if bodyBits > expected {
		return nil, fmt.Errorf("%w: body holds %d bits, frequency table accounts for %d", ErrMalformedContainer, bodyBits, expected)
	}

	out := make([]byte, 0, total)
	br := bitstream.NewReader(c.Body, bodyBits)
	walker := tree.Walker()
	for {
		bit, err := br.ReadBit()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncatedContainer, err)
		}
		if sym, emitted := walker.Step(bit); emitted {
			out = append(out, sym)
		}
	}
	if uint64(len(out)) != total {
		return nil, fmt.Errorf("%w: decoded %d bytes, frequency table accounts for %d", ErrMalformedContainer, len(out), total)
	}
	if !walker.AtRoot() {
		return nil, fmt.Errorf("%w: body ends mid-code", ErrMalformedContainer)
	}
	return out, nil
}

// Encode compresses data and serializes the container to bytes.
func Encode(data []byte) ([]byte, error) {
	container, err := Compress(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(container.SpaceUsed())
	if _, err := container.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a serialized container and decompresses its body.
func Decode(data []byte) ([]byte, error) {
	var container Container
	if _, err := container.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return container.Decompress()
}

// expectedBodyBits sums code length times count across the table, the
// exact number of meaningful bits a well-formed body carries.
func expectedBodyBits(freq *huffman.FrequencyTable, codes *huffman.CodeTable) uint64 {
	var bits uint64
	for sym := 0; sym < len(freq); sym++ {
		if freq[sym] == 0 {
			continue
		}
		code, ok := codes.Lookup(byte(sym))
		assert.Assertf(ok, "no code for symbol %d", sym)
		bits += uint64(freq[sym]) * uint64(code.Len())
	}
	return bits
}
