// Package sheets reads uploaded spreadsheets and writes exports, as xlsx
// or csv.
package sheets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	apperrors "github.com/killallgit/playlist-api/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Format is a tabular file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// SheetName is the name of the single sheet written to xlsx exports.
const SheetName = "Data"

// Table is a header row plus data rows.
type Table struct {
	Headers []string
	Rows    [][]string

	// lines holds the 1-based source line of each row when read from a file
	lines []int
}

// Line returns the source line of row i, counting the header as line 1.
func (t *Table) Line(i int) int {
	if i < len(t.lines) {
		return t.lines[i]
	}
	return i + 2
}

// ParseFormat accepts "xlsx" or "csv", case-insensitively. Empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", apperrors.ValidationError("format", fmt.Sprintf("unsupported format %q", s))
}

// FormatFromFilename picks the format by extension, falling back to def.
func FormatFromFilename(name string, def Format) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	}
	return def
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ReadTable reads the first sheet (xlsx) or the whole file (csv). The first
// row becomes the headers; blank rows are dropped.
func ReadTable(r io.Reader, f Format) (*Table, error) {
	var rows [][]string
	var err error

	switch f {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		return nil, apperrors.ValidationError("format", fmt.Sprintf("unsupported format %q", f))
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "unreadable spreadsheet")
	}
	if len(rows) == 0 {
		return nil, apperrors.ValidationError("file", "spreadsheet is empty")
	}

	t := &Table{Headers: make([]string, len(rows[0]))}
	for i, h := range rows[0] {
		t.Headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	for i, row := range rows[1:] {
		if !blank(row) {
			t.Rows = append(t.Rows, row)
			t.lines = append(t.lines, i+2)
		}
	}
	return t, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		rows = append(rows, rec)
	}
}

func readXLSX(r io.Reader) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// Write renders t in format f.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(t.Headers); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			return fmt.Errorf("writing csv rows: %w", err)
		}
		return nil
	case FormatXLSX:
		return writeXLSX(w, t)
	}
	return apperrors.ValidationError("format", fmt.Sprintf("unsupported format %q", f))
}

func writeXLSX(w io.Writer, t Table) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName(book.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	rows := append([][]string{t.Headers}, t.Rows...)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := book.SetSheetRow(SheetName, axis, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// column returns the index of the named header or -1.
func (t *Table) column(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// require returns the indices of names, failing on the first missing one.
func (t *Table) require(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		if out[i] = t.column(name); out[i] < 0 {
			return nil, apperrors.MissingFieldError(name).WithDetail("reason", "column missing from header row")
		}
	}
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
