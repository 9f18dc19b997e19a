package serialize

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
)

// Envelope records how a line list was produced, so that import can map each
// line back to the string it came from.
type Envelope[L fixedmap.Key] struct {
	Languages        []L    `json:"languages"`
	AddLanguageNames bool   `json:"add_language_names"`
	Count            int    `json:"count"`
	Info             []Span `json:"info"`
}

// Span is the contiguous run of lines produced by one resource.
type Span struct {
	Index   int    `json:"index"`
	Range   Range  `json:"range"`
	Variant string `json:"variant,omitempty"`
}

// Range is a half-open interval of line positions.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of lines in r.
func (r Range) Len() int { return r.End - r.Start }

// Shift returns r moved by n lines.
func (r Range) Shift(n int) Range { return Range{Start: r.Start + n, End: r.End + n} }

// CheckCount verifies that lines has the length the envelope records.
func (e Envelope[L]) CheckCount(lines []string) error {
	if len(lines) != e.Count {
		return &LineCountError{Expected: e.Count, Got: len(lines)}
	}
	return nil
}

// Slice returns the lines of s.
func (e Envelope[L]) Slice(lines []string, s Span) ([]string, error) {
	if s.Range.Start < 0 || s.Range.Start > s.Range.End || s.Range.End > len(lines) {
		return nil, &RangeError{Index: s.Index, Start: s.Range.Start, End: s.Range.End, Max: len(lines)}
	}
	return lines[s.Range.Start:s.Range.End], nil
}

// Languages normalizes a language selection to ascending code order without
// duplicates. Line lists and envelopes always use this order.
func Languages[L fixedmap.Key](langs []L) []L {
	var seen fixedmap.Map[L, bool]
	for _, l := range langs {
		if fixedmap.Valid(l) {
			seen.Set(l, true)
		}
	}
	out := make([]L, 0, len(langs))
	for l, ok := range seen.All() {
		if ok {
			out = append(out, l)
		}
	}
	return out
}

// ParseLanguages resolves language names case-insensitively. The name "all"
// selects every language.
func ParseLanguages[L fixedmap.Key](names []string) ([]L, error) {
	var out []L
	for _, name := range names {
		if strings.EqualFold(name, "all") {
			return fixedmap.Keys[L](), nil
		}
		l, err := fixedmap.Parse[L](name)
		if err != nil {
			return nil, fmt.Errorf("language %w", err)
		}
		out = append(out, l)
	}
	return Languages(out), nil
}

// NamePrefix returns s prefixed with "<lang>:: ".
func NamePrefix[L fixedmap.Key](lang L, s string) string {
	return lang.String() + ":: " + s
}

// TrimNamePrefix removes the "<lang>:: " prefix added by NamePrefix. A prefix
// whose trailing space was lost in editing is also accepted; a line without
// any prefix is returned unchanged.
func TrimNamePrefix[L fixedmap.Key](lang L, line string) string {
	prefix := lang.String() + "::"
	if rest, ok := strings.CutPrefix(line, prefix+" "); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(line, prefix); ok {
		return rest
	}
	return line
}
