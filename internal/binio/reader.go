// Package binio provides the little-endian primitives shared by every chunk
// payload: a bounds-checked cursor over an in-memory payload and the two
// length-prefixed string codecs.
package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ErrShortBuffer is returned when a read would run past the end of the payload.
// It wraps io.ErrUnexpectedEOF so callers can treat it as a truncated record.
var ErrShortBuffer = fmt.Errorf("binio: payload too short: %w", io.ErrUnexpectedEOF)

// ErrInvalidEncoding is returned when string bytes are not valid UTF-8 or UTF-16.
var ErrInvalidEncoding = errors.New("binio: invalid string encoding")

// Reader is a little-endian cursor over a payload held in memory.
// A Reader never copies the underlying buffer except through Bytes.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the first byte of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, fmt.Errorf("reading %d bytes at offset %d (have %d): %w", n, r.off, r.Len(), ErrShortBuffer)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Bytes reads n bytes and returns a copy the caller owns.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Fill reads exactly len(dst) bytes into dst.
func (r *Reader) Fill(dst []byte) error {
	b, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// UUID reads a raw 16-byte identifier. The bytes are kept in stream order.
func (r *Reader) UUID() (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.Fill(id[:]); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Need reports ErrShortBuffer when fewer than n bytes remain, without consuming.
// It guards allocations sized by untrusted counts.
func (r *Reader) Need(n int) error {
	if n < 0 || n > r.Len() {
		return fmt.Errorf("need %d bytes at offset %d (have %d): %w", n, r.off, r.Len(), ErrShortBuffer)
	}
	return nil
}
