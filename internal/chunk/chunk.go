// Package chunk reads and writes the record stream that makes up a core file:
// a sequence of {magic u64, size u32, payload} records in little-endian order.
package chunk

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cory-johannsen/dloc/internal/binio"
)

// HeaderSize is the length of the magic and size fields preceding a payload.
const HeaderSize = 12

// Payload is a decoded record body.
type Payload interface {
	// Kind names the payload type for diagnostics.
	Kind() string
	// Size returns the exact number of bytes AppendBinary will append.
	Size() int
	// AppendBinary appends the payload's wire form to b.
	AppendBinary(b []byte) ([]byte, error)
}

// Opaque is the payload of any record whose magic has no decoder. It is
// written back byte-for-byte.
type Opaque []byte

// Kind implements Payload.
func (Opaque) Kind() string { return "opaque" }

// Size implements Payload.
func (o Opaque) Size() int { return len(o) }

// AppendBinary implements Payload.
func (o Opaque) AppendBinary(b []byte) ([]byte, error) { return append(b, o...), nil }

// Record is one entry of a core file.
type Record struct {
	Magic   uint64
	Payload Payload
}

// Decoder parses the payload of a known record type. The Reader holds exactly
// the payload bytes.
type Decoder func(r *binio.Reader) (Payload, error)

// Registry maps record magics to their decoders.
type Registry map[uint64]Decoder

// FormatError reports a record that failed to decode.
type FormatError struct {
	Index  int
	Offset int64
	Magic  uint64
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("record %d (magic %#016x) at offset %d: %v", e.Index, e.Magic, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ErrTrailingBytes is returned when a decoder does not consume its whole payload.
var ErrTrailingBytes = errors.New("payload has trailing bytes")

// Header is the fixed prefix of a record.
type Header struct {
	Magic uint64
	Size  uint32
}

// readHeader returns io.EOF only when r is exhausted exactly at a record boundary.
func readHeader(r io.Reader) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return Header{}, err
	}
	return Header{
		Magic: binary.LittleEndian.Uint64(raw[0:8]),
		Size:  binary.LittleEndian.Uint32(raw[8:12]),
	}, nil
}

// Read decodes every record of r. Records whose magic is absent from reg are
// kept as Opaque.
//
// Postcondition: on success, Write of the returned records reproduces r
// exactly, provided no payload was modified.
func Read(r io.Reader, reg Registry) ([]Record, error) {
	br := bufio.NewReader(r)
	var (
		recs   []Record
		offset int64
	)
	for i := 0; ; i++ {
		h, err := readHeader(br)
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return nil, &FormatError{Index: i, Offset: offset, Err: fmt.Errorf("header: %w", err)}
		}
		body, err := io.ReadAll(io.LimitReader(br, int64(h.Size)))
		if err != nil {
			return nil, &FormatError{Index: i, Offset: offset, Magic: h.Magic, Err: err}
		}
		if len(body) != int(h.Size) {
			return nil, &FormatError{Index: i, Offset: offset, Magic: h.Magic,
				Err: fmt.Errorf("payload declares %d bytes, %d present: %w", h.Size, len(body), io.ErrUnexpectedEOF)}
		}
		p, err := decode(body, reg[h.Magic])
		if err != nil {
			return nil, &FormatError{Index: i, Offset: offset, Magic: h.Magic, Err: err}
		}
		recs = append(recs, Record{Magic: h.Magic, Payload: p})
		offset += HeaderSize + int64(h.Size)
	}
}

func decode(body []byte, dec Decoder) (Payload, error) {
	if dec == nil {
		return Opaque(body), nil
	}
	br := binio.NewReader(body)
	p, err := dec(br)
	if err != nil {
		return nil, err
	}
	if br.Len() != 0 {
		return nil, fmt.Errorf("%s: %d of %d bytes unread: %w", p.Kind(), br.Len(), len(body), ErrTrailingBytes)
	}
	return p, nil
}

// Encode serializes recs into a single buffer, recomputing every size field.
func Encode(recs []Record) ([]byte, error) {
	total := 0
	for _, rec := range recs {
		total += HeaderSize + rec.Payload.Size()
	}
	b := make([]byte, 0, total)
	for i, rec := range recs {
		size := rec.Payload.Size()
		if uint64(size) > math.MaxUint32 {
			return nil, fmt.Errorf("record %d: %s payload of %d bytes exceeds %d", i, rec.Payload.Kind(), size, uint64(math.MaxUint32))
		}
		b = binary.LittleEndian.AppendUint64(b, rec.Magic)
		b = binary.LittleEndian.AppendUint32(b, uint32(size))
		start := len(b)
		var err error
		if b, err = rec.Payload.AppendBinary(b); err != nil {
			return nil, fmt.Errorf("record %d: %s: %w", i, rec.Payload.Kind(), err)
		}
		if got := len(b) - start; got != size {
			return nil, fmt.Errorf("record %d: %s wrote %d bytes, declared %d", i, rec.Payload.Kind(), got, size)
		}
	}
	return b, nil
}

// Write serializes recs to w.
func Write(w io.Writer, recs []Record) error {
	b, err := Encode(recs)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Scan walks the record headers of r without decoding payloads, calling fn
// for each. Scan stops early without error when fn returns false.
func Scan(r io.Reader, fn func(Header) bool) error {
	br := bufio.NewReader(r)
	for i := 0; ; i++ {
		h, err := readHeader(br)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("record %d header: %w", i, err)
		}
		if !fn(h) {
			return nil
		}
		n, err := br.Discard(int(h.Size))
		if err != nil {
			return fmt.Errorf("record %d: payload declares %d bytes, %d present: %w", i, h.Size, n, io.ErrUnexpectedEOF)
		}
	}
}
