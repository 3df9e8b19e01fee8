package ingest

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to users. Each loader failure carries exactly one.
const (
	KindFormat      = "format"
	KindColumnCount = "column_count"
	KindParse       = "parse"
	KindProcessing  = "processing"
	KindUnexpected  = "unexpected"
)

// FormatError reports input that is not shaped like a sensor export at all.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return "format error: " + e.Msg }
func (e *FormatError) Kind() string  { return KindFormat }

// ColumnCountError reports a location header with the wrong number of columns.
type ColumnCountError struct {
	Expected int
	Got      int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("expected %d columns but got %d columns", e.Expected, e.Got)
}
func (e *ColumnCountError) Kind() string { return KindColumnCount }

// ParseError reports malformed CSV structure.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("error parsing CSV at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("error parsing CSV: %v", e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) Kind() string  { return KindParse }

// ProcessingError reports well-formed CSV that does not carry usable data.
type ProcessingError struct {
	Msg string
}

func (e *ProcessingError) Error() string { return "processing error: " + e.Msg }
func (e *ProcessingError) Kind() string  { return KindProcessing }

// UnexpectedError wraps anything that does not fit the other kinds.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string { return "unexpected error: " + e.Err.Error() }
func (e *UnexpectedError) Unwrap() error { return e.Err }
func (e *UnexpectedError) Kind() string  { return KindUnexpected }

type kinded interface {
	Kind() string
}

// KindOf returns the error kind of err, or KindUnexpected for foreign errors.
func KindOf(err error) string {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnexpected
}

// Classify wraps err in an UnexpectedError unless it already has a kind.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var k kinded
	if errors.As(err, &k) {
		return err
	}
	return &UnexpectedError{Err: err}
}
