package serialize

import (
	"errors"
	"fmt"
)

// ErrNoLocalResource is returned when a core file holds no localized record.
// Group operations skip such files.
var ErrNoLocalResource = errors.New("no local resource found in file")

// ErrNoFileFound is returned when group discovery finds nothing to process.
var ErrNoFileFound = errors.New("no file found")

// ErrNothingChanged is returned by an import that would write identical bytes.
var ErrNothingChanged = errors.New("nothing changed, write to disk cancelled")

// ErrMissingIndex is returned when a document entry does not name the record
// it updates.
var ErrMissingIndex = errors.New("document entry has no index")

// IndexError reports an update naming a record index the file does not have.
type IndexError struct {
	Max int
	Got int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid local resource index %d, file has %d records", e.Got, e.Max)
}

// KindMismatchError reports an update whose resource kind differs from the
// record at its index.
type KindMismatchError struct {
	Index    int
	Input    string
	Original string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("resource kind mismatch at index %d: input %s but original %s", e.Index, e.Input, e.Original)
}

// LineCountError reports a line list whose length differs from what its
// envelope records.
type LineCountError struct {
	Expected int
	Got      int
}

func (e *LineCountError) Error() string {
	return fmt.Sprintf("input line count doesn't match the envelope: expected %d but got %d", e.Expected, e.Got)
}

// RangeError reports an envelope span that falls outside the line list.
type RangeError struct {
	Index int
	Start int
	End   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("lines %d..%d for resource %d are outside the input (%d lines); was the file edited by hand?",
		e.Start, e.End, e.Index, e.Max)
}

// DeserializeError wraps every failure that happens while applying an
// imported artifact, so callers can tell import failures from I/O failures.
type DeserializeError struct {
	Err error
}

func (e *DeserializeError) Error() string { return "deserialize: " + e.Err.Error() }

func (e *DeserializeError) Unwrap() error { return e.Err }

func deserializeError(err error) error {
	if err == nil {
		return nil
	}
	var de *DeserializeError
	if errors.As(err, &de) {
		return err
	}
	return &DeserializeError{Err: err}
}
