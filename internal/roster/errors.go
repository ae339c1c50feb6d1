package roster

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDecimal is wrapped by ParseError when a decimal cell does not
// hold a finite base-10 number.
var ErrInvalidDecimal = errors.New("invalid decimal")

// ErrFieldCount is wrapped by ParseError when a row's width differs from
// the header's.
var ErrFieldCount = errors.New("wrong number of fields")

// ErrBlankRecord is returned by EncodeXLSX for a record with every field
// empty. A sheet row without cells reads back as no row at all.
var ErrBlankRecord = errors.New("record has no values")

// SchemaError reports header columns that the table requires but the input
// does not provide.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("roster: header missing column(s): %s", strings.Join(e.Missing, ", "))
}

// ParseError locates a malformed row. Row counts data rows from 1; Line is
// the physical input line (or sheet row) where the row starts. Column is
// empty when the problem is not tied to one column.
type ParseError struct {
	Line   int
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("roster: ")
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d", e.Line)
	}
	if e.Row > 0 {
		if e.Line > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "(row %d)", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": value %q", e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }
