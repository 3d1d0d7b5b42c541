package bitstream

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
)

// Reader extracts single bits from an in-memory buffer, MSB-first, mirroring
// Writer. It stops after a fixed number of bits so that padding at the tail
// of the final byte is never surfaced; callers compute that bound from the
// byte length and the recorded padding count, not from end-of-buffer alone.
type Reader struct {
	r         *bitio.Reader
	remaining uint64
}

// NewReader returns a Reader over body that will yield at most nbits bits.
func NewReader(body []byte, nbits uint64) *Reader {
	return &Reader{
		r:         bitio.NewReader(bytes.NewReader(body)),
		remaining: nbits,
	}
}

// ReadBit returns the next bit. Once nbits bits have been consumed it
// returns io.EOF; if the buffer runs out before the bound is reached, the
// underlying read error (io.EOF from the byte source) is returned as
// io.ErrUnexpectedEOF.
func (r *Reader) ReadBit() (bool, error) {
	if r.remaining == 0 {
		return false, io.EOF
	}
	bit, err := r.r.ReadBool()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return false, err
	}
	r.remaining--
	return bit, nil
}

// Remaining returns how many bits may still be read before io.EOF.
func (r *Reader) Remaining() uint64 {
	return r.remaining
}
