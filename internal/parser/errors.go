package parser

import (
	"fmt"
	"strings"
)

// ParseError describes why persisted location data was rejected.
// Index is -1 when the document itself is invalid.
type ParseError struct {
	Index  int
	Field  string
	Reason string
	Raw    []byte
	Err    error
}

func newParseError(raw []byte, index int, field, reason string, err error) *ParseError {
	return &ParseError{Index: index, Field: field, Reason: reason, Raw: raw, Err: err}
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("invalid location data")
	if e.Index >= 0 {
		fmt.Fprintf(&b, " at record %d", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
