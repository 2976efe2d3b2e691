package records

import (
	"strconv"
	"strings"
)

// Table is a header-labeled set of rows. Row maps are keyed by the header
// text exactly as it appears in Headers, and Headers are unique, so every
// column keeps its own cell.
type Table struct {
	Headers []string            `json:"headers" yaml:"headers"`
	Rows    []map[string]string `json:"rows" yaml:"rows"`
}

// NewTable builds a Table from a header row and raw value rows. Short rows
// are padded with "" and cells past the last header are dropped. A blank
// header is labeled by its column letter ("Column B") and a repeated one
// gets a numeric suffix ("Name (2)"); the first occurrence keeps its text.
func NewTable(headers []string, values [][]string) *Table {
	t := &Table{Headers: uniqueHeaders(headers)}
	for _, v := range values {
		row := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(v) {
				row[h] = v[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// HeaderIndex returns the zero-based position of a header, matched
// case-insensitively, or -1.
func (t *Table) HeaderIndex(name string) int {
	if t == nil {
		return -1
	}
	return headerIndex(t.Headers, name)
}

// Value returns the cell for a column, matched case-insensitively.
func (t *Table) Value(row map[string]string, name string) string {
	i := t.HeaderIndex(name)
	if i < 0 {
		return ""
	}
	return row[t.Headers[i]]
}

// Find returns the first row whose column equals value, or nil.
func (t *Table) Find(column, value string) map[string]string {
	if t.HeaderIndex(column) < 0 {
		return nil
	}
	for _, row := range t.Rows {
		if strings.TrimSpace(t.Value(row, column)) == value {
			return row
		}
	}
	return nil
}

// Missing returns the required columns not present in the header row.
func (t *Table) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if t.HeaderIndex(c) < 0 {
			missing = append(missing, c)
		}
	}
	return missing
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Values returns the rows in header order, suitable for tabular output.
func (t *Table) Values() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		line := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			line[i] = row[h]
		}
		out = append(out, line)
	}
	return out
}

func uniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Column " + columnLetters(i)
		}
		label := h
		for n := 2; seen[strings.ToLower(label)]; n++ {
			label = h + " (" + strconv.Itoa(n) + ")"
		}
		seen[strings.ToLower(label)] = true
		out[i] = label
	}
	return out
}

// columnLetters converts a zero-based column index to its A1 letters.
func columnLetters(i int) string {
	var b []byte
	for i++; i > 0; i = (i - 1) / 26 {
		b = append([]byte{byte('A' + (i-1)%26)}, b...)
	}
	return string(b)
}

func headerIndex(headers []string, name string) int {
	name = strings.TrimSpace(name)
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// HeaderIndex finds name among headers, case-insensitively.
func HeaderIndex(headers []string, name string) int {
	return headerIndex(headers, name)
}
