package hzd

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

// Local is an opened Horizon Zero Dawn core file.
type Local struct {
	records []chunk.Record
}

// New reads every record of r.
//
// Postcondition: returns serialize.ErrNoLocalResource when r holds neither a
// Localized nor a Cutscene record.
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

// Resource is the editable view of one localized record. Exactly one of
// Localized and Cutscene is set.
type Resource struct {
	// Index is the position of the record in the file, counting every record.
	Index int `json:"index" yaml:"index"`
	// ID is informational and ignored on update.
	ID        *uuid.UUID                            `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Localized *fixedmap.Sparse[Language, string]   `json:"Localized,omitempty" yaml:"Localized,omitempty"`
	Cutscene  *fixedmap.Sparse[Language, []string] `json:"Cutscene,omitempty" yaml:"Cutscene,omitempty"`
}

// Kind names the variant the resource carries.
func (r Resource) Kind() string {
	switch {
	case r.Localized != nil && r.Cutscene != nil:
		return "Localized+Cutscene"
	case r.Localized != nil:
		return KindLocalized
	case r.Cutscene != nil:
		return KindCutscene
	}
	return "empty"
}

// Resources returns a view of every localized record restricted to langs, in
// file order. A nil langs selects every language.
func (l *Local) Resources(langs ...Language) []Resource {
	if langs == nil {
		langs = fixedmap.Keys[Language]()
	}
	var out []Resource
	for i, rec := range l.records {
		switch p := rec.Payload.(type) {
		case *Localized:
			strs := fixedmap.Transform(p.Strings, func(_ Language, s binio.Narrow) string { return string(s) })
			sp := fixedmap.Pick(strs, langs)
			id := p.ID
			out = append(out, Resource{Index: i, ID: &id, Localized: &sp})
		case *Cutscene:
			lines := fixedmap.Transform(p.Groups, func(_ Language, g CutsceneGroup) []string {
				texts := make([]string, len(g.Lines))
				for i, line := range g.Lines {
					texts[i] = string(line.Text)
				}
				return texts
			})
			sp := fixedmap.Pick(lines, langs)
			id := p.ID
			out = append(out, Resource{Index: i, ID: &id, Cutscene: &sp})
		}
	}
	return out
}

// Update applies resources to the file in order. Each resource is validated
// in full before any of it is applied, so a failing resource leaves its record
// untouched; resources applied before it stay applied.
func (l *Local) Update(resources []Resource) error {
	for _, res := range resources {
		if err := l.update(res); err != nil {
			return err
		}
	}
	return nil
}

func (l *Local) payload(index int) (chunk.Payload, error) {
	if index < 0 || index >= len(l.records) {
		return nil, &serialize.IndexError{Max: len(l.records), Got: index}
	}
	return l.records[index].Payload, nil
}

func (l *Local) update(res Resource) error {
	p, err := l.payload(res.Index)
	if err != nil {
		return err
	}
	switch {
	case res.Localized != nil && res.Cutscene == nil:
		loc, ok := p.(*Localized)
		if !ok {
			return &serialize.KindMismatchError{Index: res.Index, Input: res.Kind(), Original: p.Kind()}
		}
		return loc.update(*res.Localized)
	case res.Cutscene != nil && res.Localized == nil:
		cut, ok := p.(*Cutscene)
		if !ok {
			return &serialize.KindMismatchError{Index: res.Index, Input: res.Kind(), Original: p.Kind()}
		}
		return cut.update(*res.Cutscene)
	}
	return fmt.Errorf("resource %d must carry exactly one of %s or %s, got %s", res.Index, KindLocalized, KindCutscene, res.Kind())
}

func (p *Localized) update(strs fixedmap.Sparse[Language, string]) error {
	for lang, s := range strs.All() {
		if len(s) > math.MaxUint16 {
			return fmt.Errorf("%s: string of %d bytes exceeds %d", lang, len(s), math.MaxUint16)
		}
	}
	for lang, s := range strs.All() {
		p.Strings.Set(lang, binio.Narrow(s))
	}
	return nil
}

func (p *Cutscene) update(lines fixedmap.Sparse[Language, []string]) error {
	for lang, ls := range lines.All() {
		if want := len(p.Groups.Get(lang).Lines); len(ls) != want {
			return &CutsceneLinesError{Language: lang, Expected: want, Got: len(ls)}
		}
	}
	for lang, ls := range lines.All() {
		g := p.Groups.Ptr(lang)
		for i, s := range ls {
			g.Lines[i].Text = binio.Wide(s)
		}
	}
	return nil
}

// Write serializes the file, recomputing every record size.
func (l *Local) Write(w io.Writer) error {
	return chunk.Write(w, l.records)
}
