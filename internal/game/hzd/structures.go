package hzd

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/cory-johannsen/dloc/internal/binio"
	"github.com/cory-johannsen/dloc/internal/chunk"
	"github.com/cory-johannsen/dloc/internal/fixedmap"
)

// Record magics of the localized payloads.
const (
	LocalizedMagic uint64 = 0xB89A596B420BB2E2
	CutsceneMagic  uint64 = 0x5A3ECD4ADA693D7F
)

// Resource kinds, as named in documents and envelopes.
const (
	KindLocalized = "Localized"
	KindCutscene  = "Cutscene"
)

// ErrCutsceneLayout is returned for a cutscene payload whose language groups
// do not form one group per language.
var ErrCutsceneLayout = errors.New("invalid cutscene layout")

// Registry decodes the localized payloads; every other record stays opaque.
var Registry = chunk.Registry{
	LocalizedMagic: decodeLocalized,
	CutsceneMagic:  decodeCutscene,
}

// Localized is a flat record: one string per language.
type Localized struct {
	ID      uuid.UUID
	Strings fixedmap.Map[Language, binio.Narrow]
}

// Kind implements chunk.Payload.
func (*Localized) Kind() string { return KindLocalized }

// Size implements chunk.Payload.
func (p *Localized) Size() int {
	n := len(p.ID)
	for _, s := range p.Strings.All() {
		n += s.Size()
	}
	return n
}

// AppendBinary implements chunk.Payload.
func (p *Localized) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, p.ID[:]...)
	return fixedmap.AppendEach(b, p.Strings, func(b []byte, _ Language, s binio.Narrow) ([]byte, error) {
		return s.AppendBinary(b)
	})
}

func decodeLocalized(r *binio.Reader) (chunk.Payload, error) {
	id, err := r.UUID()
	if err != nil {
		return nil, err
	}
	strs, err := fixedmap.ReadEach(r, func(r *binio.Reader, _ Language) (binio.Narrow, error) {
		return binio.ReadNarrow(r)
	})
	if err != nil {
		return nil, err
	}
	return &Localized{ID: id, Strings: strs}, nil
}

// CutsceneLine is one timed subtitle line.
type CutsceneLine struct {
	Text   binio.Wide
	Timing uint64
}

// CutsceneGroup holds the lines of one language. Code is the language code
// as stored on disk.
type CutsceneGroup struct {
	Code  uint32
	Lines []CutsceneLine
}

func (g CutsceneGroup) size() int {
	n := 8
	for _, l := range g.Lines {
		n += l.Text.Size() + 8
	}
	return n
}

// Cutscene is a record of timed subtitles, one ordered list per language.
type Cutscene struct {
	ID uuid.UUID
	// Block is opaque data preserved verbatim. Its length field on disk
	// stores len(Block)-4.
	Block   []byte
	Groups  fixedmap.Map[Language, CutsceneGroup]
	Trailer [5]byte
}

// Kind implements chunk.Payload.
func (*Cutscene) Kind() string { return KindCutscene }

// Size implements chunk.Payload.
func (p *Cutscene) Size() int {
	n := len(p.ID) + 4 + len(p.Block) + 4 + len(p.Trailer)
	for _, g := range p.Groups.All() {
		n += g.size()
	}
	return n
}

// AppendBinary implements chunk.Payload.
func (p *Cutscene) AppendBinary(b []byte) ([]byte, error) {
	if len(p.Block) < 4 {
		return b, fmt.Errorf("cutscene block of %d bytes, need at least 4", len(p.Block))
	}
	b = append(b, p.ID[:]...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(p.Block)-4))
	b = append(b, p.Block...)
	b = binary.LittleEndian.AppendUint32(b, uint32(languageCount))
	b, err := fixedmap.AppendEach(b, p.Groups, func(b []byte, _ Language, g CutsceneGroup) ([]byte, error) {
		b = binary.LittleEndian.AppendUint32(b, g.Code)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(g.Lines)))
		var err error
		for _, l := range g.Lines {
			if b, err = l.Text.AppendBinary(b); err != nil {
				return b, err
			}
			b = binary.LittleEndian.AppendUint64(b, l.Timing)
		}
		return b, nil
	})
	if err != nil {
		return b, err
	}
	return append(b, p.Trailer[:]...), nil
}

// minLineSize is the smallest on-disk cutscene line: an empty wide string
// and its timing.
const minLineSize = 4 + 8

func decodeCutscene(r *binio.Reader) (chunk.Payload, error) {
	id, err := r.UUID()
	if err != nil {
		return nil, err
	}
	blockLen, err := r.U32()
	if err != nil {
		return nil, err
	}
	block, err := r.Bytes(int(blockLen) + 4)
	if err != nil {
		return nil, fmt.Errorf("cutscene block: %w", err)
	}
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	if count != uint32(languageCount) {
		return nil, fmt.Errorf("cutscene has %d languages, want %d: %w", count, languageCount, ErrCutsceneLayout)
	}

	groups := make([]CutsceneGroup, languageCount)
	for i := range groups {
		if groups[i], err = readGroup(r); err != nil {
			return nil, fmt.Errorf("cutscene group %d: %w", i, err)
		}
	}
	// Groups are keyed by position after ordering by code.
	slices.SortStableFunc(groups, func(a, b CutsceneGroup) int { return cmp.Compare(a.Code, b.Code) })
	for i := 1; i < len(groups); i++ {
		if groups[i].Code == groups[i-1].Code {
			return nil, fmt.Errorf("cutscene language code %d appears twice: %w", groups[i].Code, ErrCutsceneLayout)
		}
	}

	p := &Cutscene{ID: id, Block: block, Groups: fixedmap.Of(func(l Language) CutsceneGroup { return groups[l] })}
	if err := r.Fill(p.Trailer[:]); err != nil {
		return nil, fmt.Errorf("cutscene trailer: %w", err)
	}
	return p, nil
}

func readGroup(r *binio.Reader) (CutsceneGroup, error) {
	code, err := r.U32()
	if err != nil {
		return CutsceneGroup{}, err
	}
	if code > uint32(languageCount) {
		return CutsceneGroup{}, fmt.Errorf("language code %d exceeds %d: %w", code, languageCount, ErrCutsceneLayout)
	}
	n, err := r.U32()
	if err != nil {
		return CutsceneGroup{}, err
	}
	if err := r.Need(int(n) * minLineSize); err != nil {
		return CutsceneGroup{}, err
	}
	g := CutsceneGroup{Code: code, Lines: make([]CutsceneLine, n)}
	for i := range g.Lines {
		if g.Lines[i].Text, err = binio.ReadWide(r); err != nil {
			return CutsceneGroup{}, fmt.Errorf("line %d: %w", i, err)
		}
		if g.Lines[i].Timing, err = r.U64(); err != nil {
			return CutsceneGroup{}, fmt.Errorf("line %d timing: %w", i, err)
		}
	}
	return g, nil
}
