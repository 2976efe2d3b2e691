package sheets

import (
	"context"
	"sync"

	"github.com/agentstation/sheetlink/pkg/errors"
)

// MemoryBackend keeps worksheets in memory. It backs tests and dry runs.
type MemoryBackend struct {
	mu     sync.Mutex
	sheets map[string]*memorySpreadsheet
}

type memorySpreadsheet struct {
	titles []string
	cells  map[string][][]string
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sheets: make(map[string]*memorySpreadsheet)}
}

// AddWorksheet creates or replaces a worksheet with the given rows.
func (m *MemoryBackend) AddWorksheet(spreadsheet, title string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sheets[spreadsheet]
	if !ok {
		s = &memorySpreadsheet{cells: make(map[string][][]string)}
		m.sheets[spreadsheet] = s
	}
	if _, exists := s.cells[title]; !exists {
		s.titles = append(s.titles, title)
	}
	s.cells[title] = copyRows(rows)
}

// Rows returns a copy of a worksheet's rows.
func (m *MemoryBackend) Rows(spreadsheet, title string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sheets[spreadsheet]; ok {
		return copyRows(s.cells[title])
	}
	return nil
}

func (m *MemoryBackend) worksheet(spreadsheet, title string) (*memorySpreadsheet, error) {
	s, ok := m.sheets[spreadsheet]
	if !ok {
		return nil, errors.NewNotFoundError("spreadsheet", spreadsheet)
	}
	if _, ok := s.cells[title]; !ok {
		return nil, errors.NewNotFoundError("worksheet", title)
	}
	return s, nil
}

// SheetTitles implements Backend.
func (m *MemoryBackend) SheetTitles(_ context.Context, spreadsheet string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[spreadsheet]
	if !ok {
		return nil, errors.NewNotFoundError("spreadsheet", spreadsheet)
	}
	return append([]string(nil), s.titles...), nil
}

// Values implements Backend.
func (m *MemoryBackend) Values(_ context.Context, spreadsheet, worksheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.worksheet(spreadsheet, worksheet)
	if err != nil {
		return nil, err
	}
	return copyRows(s.cells[worksheet]), nil
}

// UpdateCell implements Backend.
func (m *MemoryBackend) UpdateCell(_ context.Context, spreadsheet, worksheet string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.worksheet(spreadsheet, worksheet)
	if err != nil {
		return err
	}
	rows := s.cells[worksheet]
	for len(rows) < row {
		rows = append(rows, nil)
	}
	for len(rows[row-1]) < col {
		rows[row-1] = append(rows[row-1], "")
	}
	rows[row-1][col-1] = value
	s.cells[worksheet] = rows
	return nil
}

// AppendRow implements Backend.
func (m *MemoryBackend) AppendRow(_ context.Context, spreadsheet, worksheet string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.worksheet(spreadsheet, worksheet)
	if err != nil {
		return err
	}
	s.cells[worksheet] = append(s.cells[worksheet], append([]string(nil), values...))
	return nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
