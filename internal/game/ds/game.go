package ds

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
	"github.com/cory-johannsen/dloc/internal/serialize"
)

// Title opens Death Stranding core files.
var Title = serialize.Title[Language]{
	Name: "ds",
	Open: func(r io.Reader) (serialize.Game[Language], error) {
		l, err := New(r)
		if err != nil {
			return nil, err
		}
		return l, nil
	},
}

var _ serialize.Game[Language] = (*Local)(nil)

// ExportDocument returns the document for langs: a list of Resource.
func (l *Local) ExportDocument(langs []Language) any {
	return l.Resources(serialize.Languages(langs)...)
}

// ImportDocument decodes a list of Resource and applies it. Every entry must
// carry an index.
func (l *Local) ImportDocument(decode func(v any) error) error {
	var doc []documentEntry
	if err := decode(&doc); err != nil {
		return err
	}
	res := make([]Resource, len(doc))
	for i, e := range doc {
		if e.Index == nil {
			return fmt.Errorf("entry %d: %w", i, serialize.ErrMissingIndex)
		}
		res[i] = Resource{Index: *e.Index, ID: e.ID, Strings: e.Strings}
	}
	return l.Update(res)
}

type documentEntry struct {
	Index   *int                               `json:"index" yaml:"index"`
	ID      *uuid.UUID                         `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Strings fixedmap.Sparse[Language, string] `json:"strings" yaml:"strings"`
}

// ExportLines emits one line per selected language for every Localized
// record, and one envelope span per record.
func (l *Local) ExportLines(langs []Language, withNames bool) ([]string, serialize.Envelope[Language]) {
	langs = serialize.Languages(langs)
	var (
		lines []string
		info  []serialize.Span
	)
	for i, rec := range l.records {
		p, ok := rec.Payload.(*Localized)
		if !ok {
			continue
		}
		start := len(lines)
		for _, lang := range langs {
			s := string(p.Entries.Get(lang).Text)
			if withNames {
				s = serialize.NamePrefix(lang, s)
			}
			lines = append(lines, s)
		}
		info = append(info, serialize.Span{
			Index:   i,
			Range:   serialize.Range{Start: start, End: len(lines)},
			Variant: KindLocalized,
		})
	}
	return lines, serialize.Envelope[Language]{
		Languages:        langs,
		AddLanguageNames: withNames,
		Count:            len(lines),
		Info:             info,
	}
}

// ImportLines applies lines produced by ExportLines. Each span must hold one
// line per envelope language.
func (l *Local) ImportLines(lines []string, env serialize.Envelope[Language]) error {
	if err := env.CheckCount(lines); err != nil {
		return err
	}
	for _, span := range env.Info {
		kind := span.Variant
		if kind == "" {
			kind = KindLocalized
		}
		p, err := l.localized(span.Index, kind)
		if err != nil {
			return err
		}
		seg, err := env.Slice(lines, span)
		if err != nil {
			return err
		}
		if len(seg) != len(env.Languages) {
			return &serialize.LineCountError{Expected: len(env.Languages), Got: len(seg)}
		}
		var strs fixedmap.Sparse[Language, string]
		for i, lang := range env.Languages {
			s := seg[i]
			if env.AddLanguageNames {
				s = serialize.TrimNamePrefix(lang, s)
			}
			strs.Set(lang, s)
		}
		if err := p.update(strs); err != nil {
			return err
		}
	}
	return nil
}
