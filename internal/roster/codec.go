package roster

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// rowSource yields raw rows, header first. line is the input position the
// row starts on, used only for diagnostics.
type rowSource interface {
	Next() (record []string, line int, err error)
}

// Decode reads a headered CSV roster. The header must name every column of
// the table (in any order; unknown columns are ignored). Rows are returned
// in input order and any malformed row fails the whole decode.
func Decode(r io.Reader) ([]Employee, error) {
	cr := csv.NewReader(&quotedCRLFReader{r: bufio.NewReader(r)})
	// Width is checked against the header in decodeRows.
	cr.FieldsPerRecord = -1
	return decodeRows(&csvSource{r: cr})
}

// Encode writes the header followed by one row per employee, in order.
func Encode(w io.Writer, employees []Employee) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("roster: write header: %w", err)
	}
	for i := range employees {
		row, err := encodeRow(&employees[i], i+1)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("roster: write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("roster: flush: %w", err)
	}
	return nil
}

func encodeRow(e *Employee, row int) ([]string, error) {
	out := make([]string, len(columns))
	for i, col := range columns {
		if col.Kind == KindOptDecimal {
			if v, ok := col.optDec(e).Get(); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
				return nil, fmt.Errorf("roster: row %d: column %q: %w: %v", row, col.Name, ErrInvalidDecimal, v)
			}
		}
		out[i] = col.cell(e)
	}
	return out, nil
}

func decodeRows(src rowSource) ([]Employee, error) {
	header, _, err := src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Missing: Header()}
		}
		return nil, err
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var employees []Employee
	row := 0
	for {
		rec, line, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var perr *ParseError
			if errors.As(err, &perr) && perr.Row == 0 {
				perr.Row = row + 1
			}
			return nil, err
		}
		if len(rec) == 0 {
			continue
		}
		row++
		if len(rec) != len(header) {
			return nil, &ParseError{
				Line: line,
				Row:  row,
				Err:  fmt.Errorf("%w: got %d, header has %d", ErrFieldCount, len(rec), len(header)),
			}
		}
		var emp Employee
		for _, col := range columns {
			raw := rec[index[col.Name]]
			if err := col.set(&emp, raw); err != nil {
				return nil, &ParseError{Line: line, Row: row, Column: col.Name, Value: raw, Err: err}
			}
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// headerIndex maps each known column to its position, reporting every
// missing column at once.
func headerIndex(header []string) (map[string]int, error) {
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; !dup {
			seen[name] = i
		}
	}
	index := make(map[string]int, len(columns))
	var missing []string
	for _, col := range columns {
		pos, ok := seen[col.Name]
		if !ok {
			missing = append(missing, col.Name)
			continue
		}
		index[col.Name] = pos
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return index, nil
}

type csvSource struct {
	r *csv.Reader
}

func (s *csvSource) Next() ([]string, int, error) {
	rec, err := s.r.Read()
	if err != nil {
		var cerr *csv.ParseError
		if errors.As(err, &cerr) {
			return nil, cerr.StartLine, &ParseError{Line: cerr.StartLine, Err: cerr.Err}
		}
		return nil, 0, err
	}
	line, _ := s.r.FieldPos(0)
	return rec, line, nil
}

// quotedCRLFReader doubles the carriage return of every \r\n that falls
// inside a quoted field. csv.Reader folds a line-ending \r\n into \n,
// which would otherwise rewrite line breaks in quoted values; with the
// extra \r the fold leaves the original \r\n behind. Record terminators
// are outside quotes and pass through untouched.
//
// Quote state flips on every '"'. An escaped "" flips twice and a bare
// quote in an unquoted field is rejected by csv.Reader, so the state
// matches the reader's for any input it accepts.
type quotedCRLFReader struct {
	r       *bufio.Reader
	inQuote bool
	extraCR bool
}

func (q *quotedCRLFReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if q.extraCR {
			p[n] = '\r'
			n++
			q.extraCR = false
			continue
		}
		b, err := q.r.ReadByte()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		switch b {
		case '"':
			q.inQuote = !q.inQuote
		case '\r':
			if q.inQuote {
				if next, err := q.r.Peek(1); err == nil && next[0] == '\n' {
					q.extraCR = true
				}
			}
		}
		p[n] = b
		n++
	}
	return n, nil
}

// formatDecimal emits the shortest text that parses back to v, keeping a
// trailing ".0" on integral values.
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func parseDecimal(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if !isDecimalLiteral(s) {
		return 0, ErrInvalidDecimal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, ErrInvalidDecimal
	}
	return v, nil
}

// isDecimalLiteral accepts [+-]digits[.digits][(e|E)[+-]digits], with at
// least one mantissa digit. ParseFloat alone would also take hex, "inf"
// and "nan".
func isDecimalLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
