package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// KeyError is returned when a row label is not present in a frame's index.
type KeyError struct {
	Op    string
	Label string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("scilab: %s: label %q not found in index", e.Op, e.Label)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *KeyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("label", e.Label).
		Str("type", "KeyError")
}

// NewKeyError creates a KeyError with a stack trace attached.
func NewKeyError(op, label string) error {
	return errors.WithStack(&KeyError{Op: op, Label: label})
}

// IndexError is returned when a positional lookup falls outside [-n, n).
type IndexError struct {
	Op       string
	Position int
	Length   int
	Axis     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("scilab: %s: position %d is out of bounds for axis %d with size %d",
		e.Op, e.Position, e.Axis, e.Length)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *IndexError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("position", e.Position).
		Int("length", e.Length).
		Int("axis", e.Axis).
		Str("type", "IndexError")
}

// NewIndexError creates an IndexError with a stack trace attached.
func NewIndexError(op string, position, length, axis int) error {
	return errors.WithStack(&IndexError{Op: op, Position: position, Length: length, Axis: axis})
}

// TypeError is returned when a key of the wrong kind is passed to an accessor,
// e.g. a string label to a positional indexer.
type TypeError struct {
	Op       string
	Expected string
	Got      interface{}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("scilab: %s: cannot index by %T (%v), expected %s", e.Op, e.Got, e.Got, e.Expected)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *TypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("expected", e.Expected).
		Str("got", fmt.Sprintf("%T", e.Got)).
		Str("type", "TypeError")
}

// NewTypeError creates a TypeError with a stack trace attached.
func NewTypeError(op, expected string, got interface{}) error {
	return errors.WithStack(&TypeError{Op: op, Expected: expected, Got: got})
}

// ColumnNotFoundError is returned when a column name does not exist.
type ColumnNotFoundError struct {
	Op        string
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("scilab: %s: column %q not found (available: %v)", e.Op, e.Column, e.Available)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *ColumnNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Strs("available", e.Available).
		Str("type", "ColumnNotFoundError")
}

// NewColumnNotFoundError creates a ColumnNotFoundError with a stack trace attached.
func NewColumnNotFoundError(op, column string, available []string) error {
	return errors.WithStack(&ColumnNotFoundError{Op: op, Column: column, Available: available})
}
