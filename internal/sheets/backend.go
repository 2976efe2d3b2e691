// Package sheets reads and writes header-labeled worksheets.
//
// Client holds the table semantics (header row, case-insensitive column
// matching, update-or-append by ID). Backend is the storage it runs on:
// Google Sheets in production, an in-memory grid in tests.
package sheets

import (
	"context"
	"fmt"
	"strings"
)

// Backend is the minimal cell storage a Client needs.
type Backend interface {
	// SheetTitles lists worksheet titles in order.
	SheetTitles(ctx context.Context, spreadsheet string) ([]string, error)
	// Values returns every populated row of a worksheet.
	Values(ctx context.Context, spreadsheet, worksheet string) ([][]string, error)
	// UpdateCell writes one cell. row and col are 1-based.
	UpdateCell(ctx context.Context, spreadsheet, worksheet string, row, col int, value string) error
	// AppendRow adds a row after the last populated one.
	AppendRow(ctx context.Context, spreadsheet, worksheet string, values []string) error
}

// A1 renders a 1-based cell address in A1 notation, quoting the title.
func A1(worksheet string, row, col int) string {
	return fmt.Sprintf("%s!%s%d", quoteTitle(worksheet), columnName(col), row)
}

// columnName converts 1 to A, 27 to AA.
func columnName(col int) string {
	var name []byte
	for col > 0 {
		col--
		name = append([]byte{byte('A' + col%26)}, name...)
		col /= 26
	}
	return string(name)
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
