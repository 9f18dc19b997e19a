package ds

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/dloc/internal/binio"
	"github.com/cory-johannsen/dloc/internal/chunk"
	"github.com/cory-johannsen/dloc/internal/fixedmap"
)

// LocalizedMagic identifies a Localized record.
const LocalizedMagic uint64 = 0x31BE502435317445

// KindLocalized names the Localized resource kind.
const KindLocalized = "Localized"

// Registry decodes Localized records; every other record stays opaque.
var Registry = chunk.Registry{LocalizedMagic: decodeLocalized}

// Entry is one language's slot in a Localized record. Only Text is
// translatable; Note and Mode are preserved.
type Entry struct {
	Text binio.Narrow
	Note binio.Narrow
	Mode uint8
}

func (e Entry) size() int { return e.Text.Size() + e.Note.Size() + 1 }

// Localized is a record holding one Entry per language.
type Localized struct {
	ID      uuid.UUID
	Entries fixedmap.Map[Language, Entry]
}

// Kind implements chunk.Payload.
func (*Localized) Kind() string { return KindLocalized }

// Size implements chunk.Payload.
func (p *Localized) Size() int {
	n := len(p.ID)
	for _, e := range p.Entries.All() {
		n += e.size()
	}
	return n
}

// AppendBinary implements chunk.Payload.
func (p *Localized) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, p.ID[:]...)
	return fixedmap.AppendEach(b, p.Entries, func(b []byte, _ Language, e Entry) ([]byte, error) {
		b, err := e.Text.AppendBinary(b)
		if err != nil {
			return b, err
		}
		if b, err = e.Note.AppendBinary(b); err != nil {
			return b, err
		}
		return append(b, e.Mode), nil
	})
}

func decodeLocalized(r *binio.Reader) (chunk.Payload, error) {
	id, err := r.UUID()
	if err != nil {
		return nil, err
	}
	entries, err := fixedmap.ReadEach(r, func(r *binio.Reader, _ Language) (Entry, error) {
		var e Entry
		var err error
		if e.Text, err = binio.ReadNarrow(r); err != nil {
			return e, err
		}
		if e.Note, err = binio.ReadNarrow(r); err != nil {
			return e, err
		}
		e.Mode, err = r.U8()
		return e, err
	})
	if err != nil {
		return nil, err
	}
	return &Localized{ID: id, Entries: entries}, nil
}
