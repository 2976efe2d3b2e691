// Package upload parses uploaded tabular files for preview.
//
// Supported formats are CSV and Office Open XML workbooks (.xlsx, .xlsm).
// Legacy binary .xls workbooks are rejected with a ParseError.
package upload

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Format is a supported upload format.
type Format string

// Upload formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(filename string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return "", errors.NewParseError("xls", filename, "legacy .xls workbooks are not supported; save as .xlsx or .csv", nil)
	default:
		return "", errors.NewParseError(strings.TrimPrefix(ext, "."), filename, "unsupported file type; upload .csv or .xlsx", nil)
	}
}

// Parse reads r as the format implied by filename. The first row is the header.
func Parse(filename string, r io.Reader) (*records.Table, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return parseCSV(filename, r)
	default:
		return parseXLSX(filename, r)
	}
}

func parseCSV(filename string, r io.Reader) (*records.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", filename, err)
	}
	return toTable("csv", filename, rows)
}

func parseXLSX(filename string, r io.Reader) (*records.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.WrapParse("xlsx", filename, err)
	}
	defer f.Close() //nolint:errcheck // read-only workbook

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParseError("xlsx", filename, "workbook has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WrapParse("xlsx", filename, err)
	}
	return toTable("xlsx", filename, rows)
}

func toTable(format, filename string, rows [][]string) (*records.Table, error) {
	if len(rows) == 0 {
		return nil, errors.NewParseError(format, filename, "file is empty", nil)
	}
	// strip a UTF-8 byte order mark left by spreadsheet exports
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return records.NewTable(rows[0], rows[1:]), nil
}
