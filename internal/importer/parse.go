package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is the format-independent shape both parsers produce. Rows are raw
// cell strings positionally aligned with Headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// FileTypeCSV and FileTypeXLSX are the accepted upload formats.
const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

// DetectFileType infers the upload format from the filename extension.
func DetectFileType(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FileTypeCSV, nil
	case ".xlsx":
		return FileTypeXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(filename))
	}
}

// ParseCSV reads the entire CSV stream into a Table. Every data row must
// carry as many fields as the header; a ragged row aborts the whole parse so
// a malformed file imports nothing.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	table := &Table{Headers: headers}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", len(table.Rows)+2, err)
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// ParseXLSX reads the first sheet of the workbook into a Table, preferring a
// sheet literally named "Products" when several exist.
func ParseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheetName := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheetName = name
			break
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}

// Parse dispatches on the detected file type.
func Parse(fileType string, r io.Reader) (*Table, error) {
	switch fileType {
	case FileTypeCSV:
		return ParseCSV(r)
	case FileTypeXLSX:
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", fileType)
	}
}
