// Package detect guesses which game a core file belongs to from the magics of
// its records, without decoding any payload.
package detect

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cory-johannsen/dloc/internal/chunk"
	"github.com/cory-johannsen/dloc/internal/game/ds"
	"github.com/cory-johannsen/dloc/internal/game/hzd"
)

// Game is the outcome of detection.
type Game int

const (
	Unknown Game = iota
	HZD
	DS
	Mixed
)

func (g Game) String() string {
	switch g {
	case HZD:
		return "hzd"
	case DS:
		return "ds"
	case Mixed:
		return "mixed"
	}
	return "unknown"
}

var (
	// ErrUnknown is returned when no record of a supported game is found.
	ErrUnknown = errors.New("could not detect the game: no supported localization record")
	// ErrMixed is returned when records of more than one game are found.
	ErrMixed = errors.New("could not detect the game: records of several games found")
)

// Err returns the error callers report for g, or nil for a specific game.
func (g Game) Err() error {
	switch g {
	case Unknown:
		return ErrUnknown
	case Mixed:
		return ErrMixed
	}
	return nil
}

// Detect tallies known magics across the records of r.
func Detect(r io.Reader) (Game, error) {
	var hzdHits, dsHits int
	err := chunk.Scan(r, func(h chunk.Header) bool {
		switch h.Magic {
		case hzd.LocalizedMagic, hzd.CutsceneMagic:
			hzdHits++
		case ds.LocalizedMagic:
			dsHits++
		}
		// Both games seen: nothing later can change the answer.
		return hzdHits == 0 || dsHits == 0
	})
	if err != nil {
		return Unknown, err
	}
	switch {
	case hzdHits > 0 && dsHits > 0:
		return Mixed, nil
	case hzdHits > 0:
		return HZD, nil
	case dsHits > 0:
		return DS, nil
	}
	return Unknown, nil
}

// File runs Detect on the file at path.
func File(path string) (Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()
	g, err := Detect(f)
	if err != nil {
		return Unknown, fmt.Errorf("detecting %s: %w", path, err)
	}
	return g, nil
}

// Combine merges the results of several files. Unknown is neutral; two
// different games make Mixed.
func Combine(results ...Game) Game {
	out := Unknown
	for _, g := range results {
		switch {
		case g == Unknown:
		case out == Unknown:
			out = g
		case out != g:
			return Mixed
		}
	}
	return out
}
