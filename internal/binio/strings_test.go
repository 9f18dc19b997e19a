package binio_test

import (
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dloc/internal/binio"
)

func TestNarrow_EmptyWritesPrefixOnly(t *testing.T) {
	b, err := binio.Narrow("").AppendBinary(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, b)
	assert.Equal(t, 2, binio.Narrow("").Size())
}

func TestNarrow_Layout(t *testing.T) {
	b, err := binio.Narrow("Hello").AppendBinary(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 0, 'H', 'e', 'l', 'l', 'o'}, b)
}

func TestNarrow_TooLong(t *testing.T) {
	_, err := binio.Narrow(strings.Repeat("x", 1<<16)).AppendBinary(nil)
	assert.Error(t, err)
}

func TestReadNarrow_InvalidUTF8(t *testing.T) {
	_, err := binio.ReadNarrow(binio.NewReader([]byte{2, 0, 0xff, 0xfe}))
	assert.ErrorIs(t, err, binio.ErrInvalidEncoding)
}

func TestReadNarrow_Truncated(t *testing.T) {
	_, err := binio.ReadNarrow(binio.NewReader([]byte{4, 0, 'a'}))
	assert.ErrorIs(t, err, binio.ErrShortBuffer)
}

func TestWide_LengthCountsCodeUnits(t *testing.T) {
	// U+1F600 needs a surrogate pair: two code units, four bytes.
	s := binio.Wide("a\U0001F600")
	assert.Equal(t, 3, s.Units())
	assert.Equal(t, 4+6, s.Size())

	b, err := s.AppendBinary(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0, 0, 0, 'a', 0, 0x3d, 0xd8, 0x00, 0xde}, b)
}

func TestWide_EmptyWritesPrefixOnly(t *testing.T) {
	b, err := binio.Wide("").AppendBinary(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
}

func TestReadWide_UnpairedSurrogate(t *testing.T) {
	for name, units := range map[string][]byte{
		"lone high":     {1, 0, 0, 0, 0x3d, 0xd8},
		"lone low":      {1, 0, 0, 0, 0x00, 0xde},
		"high then bmp": {2, 0, 0, 0, 0x3d, 0xd8, 'a', 0},
	} {
		_, err := binio.ReadWide(binio.NewReader(units))
		assert.ErrorIs(t, err, binio.ErrInvalidEncoding, name)
	}
}

func TestReadWide_HugeCountIsShortBuffer(t *testing.T) {
	_, err := binio.ReadWide(binio.NewReader([]byte{0xff, 0xff, 0xff, 0x7f}))
	assert.ErrorIs(t, err, binio.ErrShortBuffer)
}

// TestNarrow_RoundTrip is a property-based test: decoding then re-encoding any
// validly encoded narrow string reproduces the input bytes exactly.
func TestNarrow_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := binio.Narrow(rapid.StringN(0, 64, -1).Draw(rt, "s"))
		enc, err := s.AppendBinary(nil)
		require.NoError(rt, err)
		require.Len(rt, enc, s.Size())

		r := binio.NewReader(enc)
		got, err := binio.ReadNarrow(r)
		require.NoError(rt, err)
		assert.Equal(rt, s, got)
		assert.Zero(rt, r.Len())

		again, err := got.AppendBinary(nil)
		require.NoError(rt, err)
		assert.Equal(rt, enc, again)
	})
}

// TestWide_RoundTrip is a property-based test over arbitrary valid UTF-16
// unit sequences, including surrogate pairs.
func TestWide_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		runes := rapid.SliceOfN(rapid.Rune(), 0, 32).Draw(rt, "runes")
		units := utf16.Encode(runes)
		enc := []byte{byte(len(units)), byte(len(units) >> 8), 0, 0}
		for _, u := range units {
			enc = append(enc, byte(u), byte(u>>8))
		}

		r := binio.NewReader(enc)
		got, err := binio.ReadWide(r)
		require.NoError(rt, err)
		assert.Equal(rt, len(enc), got.Size())

		again, err := got.AppendBinary(nil)
		require.NoError(rt, err)
		assert.Equal(rt, enc, again)
	})
}
