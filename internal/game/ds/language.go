// Package ds reads and edits the localization core files of Death Stranding.
package ds

import (
	"fmt"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
)

// Language is a Death Stranding text language.
type Language uint8

const (
	English Language = iota
	French
	Spanish
	German
	Italian
	Dutch
	Portuguese
	ChineseTraditional
	Korean
	Russian
	Polish
	Danish
	Finnish
	Norwegian
	Swedish
	Japanese
	LATAMSP
	LATAMPOR
	Turkish
	Arabic
	ChineseSimplified
	EnglishUk
	Greek
	Czech
	Hungarian

	languageCount = int(iota)
)

var languages = fixedmap.NewTable(
	"English", "French", "Spanish", "German", "Italian", "Dutch", "Portuguese",
	"ChineseTraditional", "Korean", "Russian", "Polish", "Danish", "Finnish",
	"Norwegian", "Swedish", "Japanese", "LATAMSP", "LATAMPOR", "Turkish",
	"Arabic", "ChineseSimplified", "EnglishUk", "Greek", "Czech", "Hungarian",
)

func init() {
	if languages.Len() != languageCount {
		panic(fmt.Sprintf("ds: %d language names for %d codes", languages.Len(), languageCount))
	}
}

// String returns the canonical name of l, or Key(n) for an unknown code.
func (l Language) String() string { return languages.Name(int(l)) }

// Table implements fixedmap.Key.
func (Language) Table() *fixedmap.Table { return languages }

// MarshalText encodes l by name.
func (l Language) MarshalText() ([]byte, error) {
	if !fixedmap.Valid(l) {
		return nil, fmt.Errorf("invalid language code %d", l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a language name, ignoring case.
func (l *Language) UnmarshalText(b []byte) error {
	v, err := fixedmap.Parse[Language](string(b))
	if err != nil {
		return fmt.Errorf("language %w", err)
	}
	*l = v
	return nil
}
