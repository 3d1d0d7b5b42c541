// Package bitstream packs and unpacks individual bits into byte buffers,
// MSB-first: the first bit written lands in the highest-order free bit of
// the current byte.
package bitstream

import (
	"io"

	"github.com/icza/bitio"
)

// Writer emits single bits to an underlying byte sink. Bytes are pushed
// downstream as soon as they are full; a trailing partial byte stays pending
// until Flush.
type Writer struct {
	w    *bitio.Writer
	bits uint64
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bitio.NewWriter(w)}
}

// WriteBit appends one bit to the stream.
func (w *Writer) WriteBit(bit bool) error {
	if err := w.w.WriteBool(bit); err != nil {
		return err
	}
	w.bits++
	return nil
}

// Bits returns the number of meaningful bits written so far, excluding any
// padding added by Flush.
func (w *Writer) Bits() uint64 {
	return w.bits
}

// Flush emits the pending partial byte, if any, with its unused low-order
// bits zeroed, and returns how many such padding bits were added (0 when the
// stream is already byte-aligned or empty). After Flush every written bit has
// reached the sink.
func (w *Writer) Flush() (padding uint8, err error) {
	return w.w.Align()
}
