package huffpack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/yannvanhalewyn/huffpack/huffman"
)

const (
	containerMagic = "HUFF"

	containerHeaderSize = 9 // magic + symbol count + padding byte
	tableEntrySize      = 5 // symbol byte + big-endian uint32 count
	maxTableEntries     = 256

	// The flat 8-bit byte code bounds the Huffman total from above, so a
	// well-formed body never holds more bytes than it decodes to and the
	// wire cap can sit at the input-length cap.
	maxBodyBytes = maxDataLen
)

// Wire format (all multi-byte integers big-endian):
//
//	magic[4]    = "HUFF"
//	symbolCount = uint32, distinct symbols in the table (1-256)
//	padding     = uint8, unused low-order bits in the final body byte (0-7)
//	repeat symbolCount times, symbols strictly ascending:
//	  symbol = uint8
//	  count  = uint32, nonzero
//	body        = packed code stream, MSB-first within each byte
//
// The body runs to the end of the stream; its meaningful bit length is
// len(body)*8 - padding.

// Container holds the frequency table and the packed code stream for one
// encoded input. The table is the complete codec state: decoders rebuild
// the prefix tree from it and the tree itself never travels on the wire.
type Container struct {
	Frequencies huffman.FrequencyTable
	Padding     uint8
	Body        []byte
}

// DecodedLen reports the number of bytes the body decodes to.
func (c *Container) DecodedLen() uint64 {
	return c.Frequencies.Total()
}

// SpaceUsed returns the serialized size of the container in bytes.
func (c *Container) SpaceUsed() int {
	return containerHeaderSize + c.Frequencies.Distinct()*tableEntrySize + len(c.Body)
}

func validateContainerStructure(c *Container) error {
	if c.Frequencies.Distinct() == 0 {
		return fmt.Errorf("%w: frequency table has no symbols", ErrMalformedContainer)
	}
	if c.Padding > 7 {
		return fmt.Errorf("%w: padding out of range: %d", ErrMalformedContainer, c.Padding)
	}
	if len(c.Body) == 0 && c.Padding != 0 {
		return fmt.Errorf("%w: padding %d with empty body", ErrMalformedContainer, c.Padding)
	}
	if uint64(len(c.Body)) > maxBodyBytes {
		return fmt.Errorf("%w: body too large: %d", ErrMalformedContainer, len(c.Body))
	}
	return nil
}

func writeBytes(w io.Writer, b []byte) (int64, error) {
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	}
	if n != len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// readFull reads exactly len(buf) bytes, mapping a short read to
// ErrTruncatedContainer.
func readFull(r io.Reader, buf []byte, what string, offset int64) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, fmt.Errorf("%w: %s ends at offset %d", ErrTruncatedContainer, what, offset+int64(n))
	}
	return n, fmt.Errorf("read %s at offset %d: %w", what, offset, err)
}

// WriteTo serializes the container.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	if err := validateContainerStructure(c); err != nil {
		return 0, err
	}

	var total int64
	n, err := writeBytes(w, []byte(containerMagic))
	total += n
	if err != nil {
		return total, err
	}

	if err := binary.Write(w, binary.BigEndian, uint32(c.Frequencies.Distinct())); err != nil {
		return total, err
	}
	total += 4

	n, err = writeBytes(w, []byte{c.Padding})
	total += n
	if err != nil {
		return total, err
	}

	entry := make([]byte, tableEntrySize)
	for sym := 0; sym < maxTableEntries; sym++ {
		count := c.Frequencies[sym]
		if count == 0 {
			continue
		}
		entry[0] = byte(sym)
		binary.BigEndian.PutUint32(entry[1:], count)
		n, err = writeBytes(w, entry)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = writeBytes(w, c.Body)
	total += n
	if err != nil {
		return total, err
	}

	return total, nil
}

// ReadFrom deserializes a container, consuming the reader to its end.
// Structural violations are reported as ErrMalformedContainer, streams
// that end before the header is complete as ErrTruncatedContainer.
func (c *Container) ReadFrom(r io.Reader) (int64, error) {
	var total int64

	var magic [4]byte
	n, err := readFull(r, magic[:], "magic", total)
	total += int64(n)
	if err != nil {
		return total, err
	}
	if string(magic[:]) != containerMagic {
		return total, fmt.Errorf("%w: bad magic %q", ErrMalformedContainer, string(magic[:]))
	}

	var header [5]byte // symbol count + padding byte
	n, err = readFull(r, header[:], "header", total)
	total += int64(n)
	if err != nil {
		return total, err
	}
	symbolCount := binary.BigEndian.Uint32(header[:4])
	if symbolCount == 0 || symbolCount > maxTableEntries {
		return total, fmt.Errorf("%w: symbol count out of range: %d", ErrMalformedContainer, symbolCount)
	}
	tmp := Container{Padding: header[4]}

	table := make([]byte, int(symbolCount)*tableEntrySize)
	n, err = readFull(r, table, "frequency table", total)
	total += int64(n)
	if err != nil {
		return total, err
	}
	prev := -1
	for i := 0; i < int(symbolCount); i++ {
		entry := table[i*tableEntrySize : (i+1)*tableEntrySize]
		sym := int(entry[0])
		count := binary.BigEndian.Uint32(entry[1:])
		if sym <= prev {
			return total, fmt.Errorf("%w: table entry %d for symbol %d breaks ascending order", ErrMalformedContainer, i, sym)
		}
		if count == 0 {
			return total, fmt.Errorf("%w: table entry %d has zero count for symbol %d", ErrMalformedContainer, i, sym)
		}
		tmp.Frequencies[sym] = count
		prev = sym
	}

	bodyOffset := total
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	total += int64(len(body))
	if err != nil {
		return total, fmt.Errorf("read body at offset %d: %w", bodyOffset, err)
	}
	tmp.Body = body

	if err := validateContainerStructure(&tmp); err != nil {
		return total, err
	}

	*c = tmp
	return total, nil
}
