// Package fixedmap implements containers keyed by a finite, densely numbered
// enumeration. Every key in the enumeration always has a value.
package fixedmap

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/cases"
)

// ErrUnknownKey is returned when a name does not belong to a key table.
var ErrUnknownKey = errors.New("unknown key")

// Table is the single source of truth for an enumeration: the ordered list of
// names, where a name's position is its numeric code.
type Table struct {
	names  []string
	lookup map[string]int
}

// NewTable builds a Table from names in code order.
//
// Precondition: names are non-empty, unique under case folding, and number at
// most 256. NewTable panics otherwise, as tables are package-level constants.
func NewTable(names ...string) *Table {
	if len(names) == 0 || len(names) > math.MaxUint8+1 {
		panic(fmt.Sprintf("fixedmap: table must have 1..256 names, got %d", len(names)))
	}
	t := &Table{
		names:  append([]string(nil), names...),
		lookup: make(map[string]int, len(names)),
	}
	for code, name := range names {
		if name == "" {
			panic(fmt.Sprintf("fixedmap: empty name at code %d", code))
		}
		key := fold(name)
		if prev, dup := t.lookup[key]; dup {
			panic(fmt.Sprintf("fixedmap: %q at code %d duplicates code %d", name, code, prev))
		}
		t.lookup[key] = code
	}
	return t
}

// Len returns the number of keys.
func (t *Table) Len() int { return len(t.names) }

// Name returns the canonical name of code.
func (t *Table) Name(code int) string {
	if code < 0 || code >= len(t.names) {
		return fmt.Sprintf("Key(%d)", code)
	}
	return t.names[code]
}

// Names returns a copy of all names in code order.
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// Lookup returns the code for name, ignoring case.
func (t *Table) Lookup(name string) (int, bool) {
	code, ok := t.lookup[fold(name)]
	return code, ok
}

// fold builds a fresh Caser per call; a Caser carries state between calls.
func fold(s string) string { return cases.Fold().String(s) }
