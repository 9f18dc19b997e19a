// Package testutil provides test helpers: core-file fixtures assembled byte
// by byte, without going through the codecs under test, and file helpers.
package testutil

import (
	"encoding/binary"
	"unicode/utf16"
)

// Record magics as they appear on disk.
const (
	HZDLocalizedMagic uint64 = 0xB89A596B420BB2E2
	HZDCutsceneMagic  uint64 = 0x5A3ECD4ADA693D7F
	DSLocalizedMagic  uint64 = 0x31BE502435317445
)

// Buf accumulates little-endian fields.
type Buf struct {
	b []byte
}

// U8 appends one byte.
func (w *Buf) U8(v uint8) *Buf { w.b = append(w.b, v); return w }

// U16 appends a little-endian uint16.
func (w *Buf) U16(v uint16) *Buf { w.b = binary.LittleEndian.AppendUint16(w.b, v); return w }

// U32 appends a little-endian uint32.
func (w *Buf) U32(v uint32) *Buf { w.b = binary.LittleEndian.AppendUint32(w.b, v); return w }

// U64 appends a little-endian uint64.
func (w *Buf) U64(v uint64) *Buf { w.b = binary.LittleEndian.AppendUint64(w.b, v); return w }

// Raw appends b verbatim.
func (w *Buf) Raw(b []byte) *Buf { w.b = append(w.b, b...); return w }

// Narrow appends s with a uint16 byte-length prefix.
func (w *Buf) Narrow(s string) *Buf { return w.U16(uint16(len(s))).Raw([]byte(s)) }

// Wide appends s as UTF-16LE with a uint32 code-unit prefix.
func (w *Buf) Wide(s string) *Buf {
	units := utf16.Encode([]rune(s))
	w.U32(uint32(len(units)))
	for _, u := range units {
		w.U16(u)
	}
	return w
}

// Bytes returns the accumulated bytes.
func (w *Buf) Bytes() []byte { return w.b }

// Record frames payload with its magic and size header.
func Record(magic uint64, payload []byte) []byte {
	return new(Buf).U64(magic).U32(uint32(len(payload))).Raw(payload).Bytes()
}

// Core concatenates framed records into a core file.
func Core(records ...[]byte) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

// ID returns a recognizable 16-byte identifier.
func ID(seed byte) [16]byte {
	var id [16]byte
	for i := range id {
		id[i] = seed + byte(i)
	}
	return id
}

// HZDLocalized builds an HZD Localized payload. texts is indexed by
// language code; missing trailing languages are written empty.
func HZDLocalized(id [16]byte, texts ...string) []byte {
	w := new(Buf).Raw(id[:])
	for i := 0; i < 21; i++ {
		s := ""
		if i < len(texts) {
			s = texts[i]
		}
		w.Narrow(s)
	}
	return w.Bytes()
}

// CutsceneLine is one timed subtitle.
type CutsceneLine struct {
	Text   string
	Timing uint64
}

// CutsceneGroup is the set of lines for one language code.
type CutsceneGroup struct {
	Code  uint32
	Lines []CutsceneLine
}

// HZDCutscene builds an HZD Cutscene payload. block is the opaque region
// that follows the block length field; it must be at least 4 bytes. Groups
// are written in the order given and langCount is written as-is.
func HZDCutscene(id [16]byte, block []byte, langCount uint32, groups []CutsceneGroup, trailer [5]byte) []byte {
	w := new(Buf).Raw(id[:]).U32(uint32(len(block) - 4)).Raw(block).U32(langCount)
	for _, g := range groups {
		w.U32(g.Code).U32(uint32(len(g.Lines)))
		for _, l := range g.Lines {
			w.Wide(l.Text).U64(l.Timing)
		}
	}
	return w.Raw(trailer[:]).Bytes()
}

// HZDCutsceneGroups returns one group per language code 0..20, filling the
// codes named in lines and leaving every other group empty.
func HZDCutsceneGroups(lines map[uint32][]CutsceneLine) []CutsceneGroup {
	groups := make([]CutsceneGroup, 21)
	for i := range groups {
		groups[i] = CutsceneGroup{Code: uint32(i), Lines: lines[uint32(i)]}
	}
	return groups
}

// DSEntry is one DS language entry.
type DSEntry struct {
	Text string
	Note string
	Mode uint8
}

// DSLocalized builds a DS Localized payload. entries is indexed by
// language code; missing trailing languages are written empty.
func DSLocalized(id [16]byte, entries ...DSEntry) []byte {
	w := new(Buf).Raw(id[:])
	for i := 0; i < 25; i++ {
		var e DSEntry
		if i < len(entries) {
			e = entries[i]
		}
		w.Narrow(e.Text).Narrow(e.Note).U8(e.Mode)
	}
	return w.Bytes()
}
