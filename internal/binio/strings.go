package binio

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
	"unicode/utf8"
)

// Narrow is a UTF-8 string stored with a uint16 byte-length prefix.
type Narrow string

// Size returns the serialized footprint: the 2-byte prefix plus the UTF-8 bytes.
func (s Narrow) Size() int { return 2 + len(s) }

// AppendBinary appends the wire form of s to b.
//
// Postcondition: exactly s.Size() bytes are appended, or an error is returned
// when s does not fit the uint16 prefix.
func (s Narrow) AppendBinary(b []byte) ([]byte, error) {
	if len(s) > math.MaxUint16 {
		return b, fmt.Errorf("narrow string of %d bytes exceeds %d", len(s), math.MaxUint16)
	}
	b = binary.LittleEndian.AppendUint16(b, uint16(len(s)))
	return append(b, s...), nil
}

// ReadNarrow decodes a Narrow string.
//
// Postcondition: returns ErrInvalidEncoding when the body is not valid UTF-8.
func ReadNarrow(r *Reader) (Narrow, error) {
	n, err := r.U16()
	if err != nil {
		return "", err
	}
	body, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(body) {
		return "", fmt.Errorf("narrow string at offset %d: %w", r.off-int(n), ErrInvalidEncoding)
	}
	return Narrow(body), nil
}

// Wide is a string stored as UTF-16LE code units with a uint32 prefix that
// counts code units, not bytes.
type Wide string

// Units returns the number of UTF-16 code units needed to encode s.
func (s Wide) Units() int {
	n := 0
	for _, r := range string(s) {
		n += utf16.RuneLen(r)
	}
	return n
}

// Size returns the serialized footprint: the 4-byte prefix plus two bytes per code unit.
func (s Wide) Size() int { return 4 + 2*s.Units() }

// AppendBinary appends the wire form of s to b.
func (s Wide) AppendBinary(b []byte) ([]byte, error) {
	units := utf16.Encode([]rune(string(s)))
	b = binary.LittleEndian.AppendUint32(b, uint32(len(units)))
	for _, u := range units {
		b = binary.LittleEndian.AppendUint16(b, u)
	}
	return b, nil
}

// ReadWide decodes a Wide string.
//
// Postcondition: returns ErrInvalidEncoding on an unpaired surrogate.
func ReadWide(r *Reader) (Wide, error) {
	n, err := r.U32()
	if err != nil {
		return "", err
	}
	if err := r.Need(2 * int(n)); err != nil {
		return "", err
	}
	start := r.off
	units := make([]uint16, n)
	for i := range units {
		units[i], _ = r.U16()
	}
	for i := 0; i < len(units); i++ {
		switch u := units[i]; {
		case utf16.IsSurrogate(rune(u)) && u < 0xDC00:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] > 0xDFFF {
				return "", fmt.Errorf("wide string at offset %d: unpaired high surrogate %#04x: %w", start, u, ErrInvalidEncoding)
			}
			i++
		case utf16.IsSurrogate(rune(u)):
			return "", fmt.Errorf("wide string at offset %d: unpaired low surrogate %#04x: %w", start, u, ErrInvalidEncoding)
		}
	}
	return Wide(utf16.Decode(units)), nil
}
