package output

import (
	"io"
	"strconv"

	"github.com/agentstation/sheetlink/internal/auth/google"
	"github.com/agentstation/sheetlink/internal/inventory"
	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Emit writes table for table formats and raw for json and yaml.
func Emit(w io.Writer, format Format, table Tabular, raw any) error {
	switch format {
	case FormatJSON, FormatYAML:
		return Write(w, format, raw)
	default:
		return Write(w, format, table)
	}
}

// Products lays out a snapshot. The narrow table shows identity, display
// and target columns; wide shows every configured column.
type Products struct {
	Config   reconciler.Config
	Snapshot *reconciler.Snapshot
}

// TableData implements Tabular.
func (p Products) TableData(wide bool) Data {
	cols := p.Config.Columns()
	if !wide {
		narrow := []records.Column{cols[0], cols[1], cols[3]}
		if p.Config.DisplayField != "" && p.Config.DisplayField != p.Config.TargetField {
			narrow = append(narrow, records.NewColumn(p.Config.DisplayField))
		}
		cols = append(narrow, records.NewColumn(p.Config.TargetField))
	}

	data := Data{Headers: make([]string, len(cols))}
	for i, c := range cols {
		data.Headers[i] = c.Label
	}
	if p.Snapshot == nil {
		return data
	}
	for _, row := range p.Snapshot.Rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = row.Cell(c.Key)
		}
		data.Rows = append(data.Rows, line)
	}
	return data
}

// Export lays out per-row export outcomes.
type Export struct {
	Result *reconciler.ExportResult
}

// TableData implements Tabular. Only failures are listed unless wide.
func (e Export) TableData(wide bool) Data {
	data := Data{Headers: []string{"ID", "Action", "Error"}}
	for _, o := range e.Result.Outcomes {
		if !wide && o.Err == nil {
			continue
		}
		data.Rows = append(data.Rows, []string{o.ID, string(o.Action), o.Error()})
	}
	return data
}

// Sheet lays out a worksheet or an uploaded file.
type Sheet struct {
	Table *records.Table
}

// TableData implements Tabular.
func (s Sheet) TableData(bool) Data {
	if s.Table == nil {
		return Data{}
	}
	return Data{Headers: s.Table.Headers, Rows: s.Table.Values()}
}

// Inventories lays out the inventories list.
type Inventories []inventory.Inventory

// TableData implements Tabular.
func (inv Inventories) TableData(wide bool) Data {
	data := Data{
		Headers:         []string{"ID", "Name", "Default"},
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignCenter},
	}
	if wide {
		data.Headers = append(data.Headers, "Description")
		data.ColumnAlignment = append(data.ColumnAlignment, AlignLeft)
	}
	for _, i := range inv {
		def := ""
		if i.IsDefault {
			def = "yes"
		}
		row := []string{strconv.Itoa(i.ID), i.Name, def}
		if wide {
			row = append(row, i.Description)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// AuthStatus lays out the spreadsheet credential status as key/value rows.
type AuthStatus struct {
	Status *google.Status
}

// TableData implements Tabular.
func (a AuthStatus) TableData(bool) Data {
	s := a.Status
	data := Data{Headers: []string{"Property", "Value"}}
	add := func(k, v string) {
		if v != "" {
			data.Rows = append(data.Rows, []string{k, v})
		}
	}
	add("State", string(s.State))
	add("Summary", s.Summary)
	add("Type", s.Type)
	add("Credentials", s.CredentialsFile)
	add("Token", s.TokenFile)
	if s.TokenFile != "" && s.State != google.StateMissing {
		add("Refresh token", strconv.FormatBool(s.HasRefreshToken))
	}
	if !s.Expiry.IsZero() {
		add("Expiry", s.Expiry.Local().Format(constants.TimeFormatHuman))
	}
	return data
}
