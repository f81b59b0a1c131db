// Package workbook parses uploaded or fetched spreadsheets into schema tables.
package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/salesrace/pitwall/internal/modules/schema"
)

// ErrUnreadable marks input that could not be parsed as a workbook at all.
var ErrUnreadable = errors.New("unreadable workbook")

// ErrSheetNotFound is returned when an explicitly requested sheet is absent.
var ErrSheetNotFound = errors.New("sheet not found")

// Format is the detected input format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the parser from the file name, falling back to the
// content: xlsx files are zip archives.
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return FormatXLSX
	}
	return FormatCSV
}

// Read parses data as a workbook. sheet selects an xlsx sheet and is ignored
// for CSV. The returned table's Source names the sheet or file.
func Read(data []byte, filename, sheet string) (schema.Table, error) {
	if len(data) == 0 {
		return schema.Table{}, fmt.Errorf("%w: file is empty", ErrUnreadable)
	}

	if DetectFormat(filename, data) == FormatCSV {
		source := filename
		if source == "" {
			source = "csv"
		}
		return ReadCSV(bytes.NewReader(data), source)
	}
	return ReadXLSX(bytes.NewReader(data), sheet)
}

// SelectSheet resolves which sheet to read. An explicit request must exist;
// otherwise the known sheet names are tried in order, then the first sheet.
func SelectSheet(available []string, requested string) (string, error) {
	if len(available) == 0 {
		return "", fmt.Errorf("%w: no sheets found", ErrUnreadable)
	}

	if requested != "" {
		for _, s := range available {
			if s == requested {
				return s, nil
			}
		}
		return "", fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, requested, strings.Join(available, ", "))
	}

	for _, known := range schema.KnownSheetNames {
		for _, s := range available {
			if s == known {
				return s, nil
			}
		}
	}

	return available[0], nil
}

// ReadXLSX reads the selected sheet. The first row is the header; cells are
// read as raw values so numbers keep full precision.
func ReadXLSX(r io.Reader, sheet string) (schema.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return schema.Table{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheetName, err := SelectSheet(f.GetSheetList(), sheet)
	if err != nil {
		return schema.Table{}, err
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return schema.Table{}, fmt.Errorf("%w: sheet %q: %v", ErrUnreadable, sheetName, err)
	}

	return buildTable(sheetName, rows), nil
}

// ReadCSV reads comma-separated input whose first record is the header.
// Records may have differing field counts.
func ReadCSV(r io.Reader, source string) (schema.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return schema.Table{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	return buildTable(source, rows), nil
}

// buildTable turns string rows into a table. Blank cells become nil and
// rows with no content at all are skipped.
func buildTable(source string, rows [][]string) schema.Table {
	t := schema.Table{Source: source}
	if len(rows) == 0 {
		return t
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t.Columns = NormalizeHeaders(header)

	for _, raw := range rows[1:] {
		row := make([]any, len(raw))
		empty := true
		for i, cell := range raw {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			row[i] = cell
			empty = false
		}
		if !empty {
			t.Rows = append(t.Rows, row)
		}
	}

	return t
}
