package roster

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

// DecodeXLSX reads the first worksheet of a workbook using the same header
// and row rules as Decode. Cells are read as text.
func DecodeXLSX(r io.Reader) ([]Employee, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("roster: open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SchemaError{Missing: Header()}
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("roster: read sheet %q: %w", sheets[0], err)
	}
	return decodeRows(&sheetSource{rows: rows})
}

// EncodeXLSX writes a single-sheet workbook with the header in bold. Every
// cell is stored as text so decimals keep their canonical form.
func EncodeXLSX(w io.Writer, employees []Employee) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeSheetRow(f, 1, Header()); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("roster: header style: %w", err)
	}
	if err := f.SetRowStyle(xlsxSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("roster: header style: %w", err)
	}
	for i := range employees {
		row, err := encodeRow(&employees[i], i+1)
		if err != nil {
			return err
		}
		if blankRow(row) {
			return fmt.Errorf("roster: row %d: %w", i+1, ErrBlankRecord)
		}
		if err := writeSheetRow(f, i+2, row); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("roster: write workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	for col, value := range values {
		if value == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("roster: cell name: %w", err)
		}
		if err := f.SetCellStr(xlsxSheet, cell, value); err != nil {
			return fmt.Errorf("roster: write %s: %w", cell, err)
		}
	}
	return nil
}

func blankRow(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

// sheetSource replays GetRows output. Spreadsheets drop trailing empty
// cells, so data rows are padded to the header's width.
type sheetSource struct {
	rows  [][]string
	next  int
	width int
}

func (s *sheetSource) Next() ([]string, int, error) {
	if s.next >= len(s.rows) {
		return nil, 0, io.EOF
	}
	rec := s.rows[s.next]
	s.next++
	line := s.next
	if s.width == 0 {
		s.width = len(rec)
		return rec, line, nil
	}
	if len(rec) == 0 {
		return rec, line, nil
	}
	if len(rec) < s.width {
		padded := make([]string, s.width)
		copy(padded, rec)
		rec = padded
	}
	return rec, line, nil
}
