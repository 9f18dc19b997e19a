package ds

import (
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/cory-johannsen/dloc/internal/binio"
	"github.com/cory-johannsen/dloc/internal/chunk"
	"github.com/cory-johannsen/dloc/internal/fixedmap"
	"github.com/cory-johannsen/dloc/internal/serialize"
)

// Local is an opened Death Stranding core file.
type Local struct {
	records []chunk.Record
}

// New reads every record of r.
//
// Postcondition: returns serialize.ErrNoLocalResource when r holds no
// Localized record.
func New(r io.Reader) (*Local, error) {
	recs, err := chunk.Read(r, Registry)
	if err != nil {
		return nil, err
	}
	l := &Local{records: recs}
	if len(l.Resources()) == 0 {
		return nil, serialize.ErrNoLocalResource
	}
	return l, nil
}

// Resource is the editable view of one Localized record.
type Resource struct {
	Index   int                                `json:"index" yaml:"index"`
	ID      *uuid.UUID                         `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Strings fixedmap.Sparse[Language, string] `json:"strings" yaml:"strings"`
}

// Resources returns the text of every Localized record restricted to langs.
// A nil langs selects every language.
func (l *Local) Resources(langs ...Language) []Resource {
	if langs == nil {
		langs = fixedmap.Keys[Language]()
	}
	var out []Resource
	for i, rec := range l.records {
		p, ok := rec.Payload.(*Localized)
		if !ok {
			continue
		}
		text := fixedmap.Transform(p.Entries, func(_ Language, e Entry) string { return string(e.Text) })
		id := p.ID
		out = append(out, Resource{Index: i, ID: &id, Strings: fixedmap.Pick(text, langs)})
	}
	return out
}

// Update applies resources in order; each is validated before it is applied.
func (l *Local) Update(resources []Resource) error {
	for _, res := range resources {
		p, err := l.localized(res.Index, KindLocalized)
		if err != nil {
			return err
		}
		if err := p.update(res.Strings); err != nil {
			return err
		}
	}
	return nil
}

func (l *Local) localized(index int, kind string) (*Localized, error) {
	if index < 0 || index >= len(l.records) {
		return nil, &serialize.IndexError{Max: len(l.records), Got: index}
	}
	p := l.records[index].Payload
	loc, ok := p.(*Localized)
	if !ok || kind != KindLocalized {
		return nil, &serialize.KindMismatchError{Index: index, Input: kind, Original: p.Kind()}
	}
	return loc, nil
}

func (p *Localized) update(strs fixedmap.Sparse[Language, string]) error {
	for lang, s := range strs.All() {
		if len(s) > math.MaxUint16 {
			return fmt.Errorf("%s: string of %d bytes exceeds %d", lang, len(s), math.MaxUint16)
		}
	}
	for lang, s := range strs.All() {
		p.Entries.Ptr(lang).Text = binio.Narrow(s)
	}
	return nil
}

// Write serializes the file, recomputing every record size.
func (l *Local) Write(w io.Writer) error {
	return chunk.Write(w, l.records)
}
