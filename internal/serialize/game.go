// Package serialize turns the localized resources of a core file into
// interchange artifacts (JSON or YAML documents, or plain line lists with a
// JSON sidecar) and applies edited artifacts back to the binary form.
package serialize

import (
	"io"
	"os"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
)

// Game is an opened core file of one title, keyed by that title's language L.
type Game[L fixedmap.Key] interface {
	// ExportDocument returns a value that encodes as the structured document
	// for langs.
	ExportDocument(langs []L) any
	// ImportDocument decodes a document with decode and applies it.
	ImportDocument(decode func(v any) error) error
	// ExportLines flattens every resource into one line per string.
	//
	// Postcondition: the envelope's Count equals len(lines) and its spans
	// tile [0, Count) in order.
	ExportLines(langs []L, withNames bool) ([]string, Envelope[L])
	// ImportLines applies lines previously produced by ExportLines.
	ImportLines(lines []string, env Envelope[L]) error
	// Write serializes the file, recomputing every record size.
	Write(w io.Writer) error
}

// Title opens the core files of one game.
type Title[L fixedmap.Key] struct {
	// Name is the short identifier used in configuration, e.g. "hzd".
	Name string
	// Open parses a core file. It returns ErrNoLocalResource when the file
	// holds no localized record.
	Open func(r io.Reader) (Game[L], error)
}

// OpenFile opens and parses the core file at path.
func (t Title[L]) OpenFile(path string) (Game[L], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return t.Open(f)
}

// Languages returns every language of the title in code order.
func (t Title[L]) Languages() []L { return fixedmap.Keys[L]() }
