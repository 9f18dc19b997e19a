package hzd

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
	"github.com/cory-johannsen/dloc/internal/serialize"
)

// Title opens Horizon Zero Dawn core files.
var Title = serialize.Title[Language]{
	Name: "hzd",
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
		res[i] = Resource{Index: *e.Index, ID: e.ID, Localized: e.Localized, Cutscene: e.Cutscene}
	}
	return l.Update(res)
}

// documentEntry is Resource as read from a document, where index is required.
type documentEntry struct {
	Index     *int                                  `json:"index" yaml:"index"`
	ID        *uuid.UUID                            `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Localized *fixedmap.Sparse[Language, string]   `json:"Localized,omitempty" yaml:"Localized,omitempty"`
	Cutscene  *fixedmap.Sparse[Language, []string] `json:"Cutscene,omitempty" yaml:"Cutscene,omitempty"`
}

// ExportLines emits, for every localized record in file order, one line per
// selected language (Localized) or one line per subtitle of each selected
// language (Cutscene).
func (l *Local) ExportLines(langs []Language, withNames bool) ([]string, serialize.Envelope[Language]) {
	langs = serialize.Languages(langs)
	line := func(lang Language, s string) string {
		if withNames {
			return serialize.NamePrefix(lang, s)
		}
		return s
	}

	var (
		lines []string
		info  []serialize.Span
	)
	for i, rec := range l.records {
		start := len(lines)
		switch p := rec.Payload.(type) {
		case *Localized:
			for _, lang := range langs {
				lines = append(lines, line(lang, string(p.Strings.Get(lang))))
			}
		case *Cutscene:
			for _, lang := range langs {
				for _, sub := range p.Groups.Get(lang).Lines {
					lines = append(lines, line(lang, string(sub.Text)))
				}
			}
		default:
			continue
		}
		info = append(info, serialize.Span{
			Index:   i,
			Range:   serialize.Range{Start: start, End: len(lines)},
			Variant: rec.Payload.Kind(),
		})
	}
	return lines, serialize.Envelope[Language]{
		Languages:        langs,
		AddLanguageNames: withNames,
		Count:            len(lines),
		Info:             info,
	}
}

// ImportLines applies lines produced by ExportLines, one resource at a time.
//
// Precondition: env is the envelope ExportLines returned with the lines.
func (l *Local) ImportLines(lines []string, env serialize.Envelope[Language]) error {
	if err := env.CheckCount(lines); err != nil {
		return err
	}
	text := func(lang Language, line string) string {
		if env.AddLanguageNames {
			return serialize.TrimNamePrefix(lang, line)
		}
		return line
	}

	for _, span := range env.Info {
		p, err := l.payload(span.Index)
		if err != nil {
			return err
		}
		seg, err := env.Slice(lines, span)
		if err != nil {
			return err
		}
		if span.Variant != "" && span.Variant != p.Kind() {
			return &serialize.KindMismatchError{Index: span.Index, Input: span.Variant, Original: p.Kind()}
		}

		switch p := p.(type) {
		case *Localized:
			if len(seg) != len(env.Languages) {
				return &serialize.LineCountError{Expected: len(env.Languages), Got: len(seg)}
			}
			var strs fixedmap.Sparse[Language, string]
			for i, lang := range env.Languages {
				strs.Set(lang, text(lang, seg[i]))
			}
			err = p.update(strs)
		case *Cutscene:
			var subs fixedmap.Sparse[Language, []string]
			if subs, err = splitCutscene(p, env.Languages, seg, text); err == nil {
				err = p.update(subs)
			}
		default:
			return &serialize.KindMismatchError{Index: span.Index, Input: span.Variant, Original: p.Kind()}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// splitCutscene hands each language, in envelope order, as many lines as it
// currently has subtitles.
func splitCutscene(p *Cutscene, langs []Language, seg []string, text func(Language, string) string) (fixedmap.Sparse[Language, []string], error) {
	var subs fixedmap.Sparse[Language, []string]
	rest := seg
	for _, lang := range langs {
		want := len(p.Groups.Get(lang).Lines)
		if len(rest) < want {
			return subs, &CutsceneLinesError{Language: lang, Expected: want, Got: len(rest)}
		}
		texts := make([]string, want)
		for i := range texts {
			texts[i] = text(lang, rest[i])
		}
		subs.Set(lang, texts)
		rest = rest[want:]
	}
	if len(rest) > 0 {
		if len(langs) == 0 {
			return subs, &serialize.LineCountError{Expected: 0, Got: len(rest)}
		}
		last := langs[len(langs)-1]
		want := len(p.Groups.Get(last).Lines)
		return subs, &CutsceneLinesError{Language: last, Expected: want, Got: want + len(rest)}
	}
	return subs, nil
}
