package sheets

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/logging"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Client reads tables from, and upserts rows into, worksheets.
type Client struct {
	backend Backend
	logger  *zerolog.Logger
}

// New creates a Client over backend.
func New(backend Backend, logger *zerolog.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{backend: backend, logger: logger}
}

// resolve maps a worksheet reference to its title.
func (c *Client) resolve(ctx context.Context, ref records.SheetRef) (string, error) {
	titles, err := c.backend.SheetTitles(ctx, ref.Spreadsheet)
	if err != nil {
		return "", err
	}

	if ref.Worksheet.Name != "" {
		for _, title := range titles {
			if strings.EqualFold(title, ref.Worksheet.Name) {
				return title, nil
			}
		}
		return "", errors.NewNotFoundError("worksheet", ref.Worksheet.Name)
	}
	if ref.Worksheet.Index < 0 || ref.Worksheet.Index >= len(titles) {
		return "", errors.NewNotFoundError("worksheet", ref.Worksheet.String())
	}
	return titles[ref.Worksheet.Index], nil
}

// ReadTable loads a worksheet. Row 1 is the header; an empty worksheet
// yields a table with no headers.
func (c *Client) ReadTable(ctx context.Context, ref records.SheetRef) (*records.Table, error) {
	title, err := c.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	values, err := c.backend.Values(ctx, ref.Spreadsheet, title)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return &records.Table{}, nil
	}

	table := records.NewTable(values[0], values[1:])
	c.logger.Debug().
		Str("spreadsheet", ref.Spreadsheet).
		Str("worksheet", title).
		Int("rows", table.Len()).
		Msg("Read worksheet")
	return table, nil
}

// UpsertRow finds the first row whose ID column equals id and updates only
// its target cell; when there is none it appends a row filled from fields
// by case-insensitive header match. fields is keyed by column label.
func (c *Client) UpsertRow(ctx context.Context, ref records.SheetRef, schema records.Schema, id string, fields map[string]string) (records.UpsertAction, error) {
	title, err := c.resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	values, err := c.backend.Values(ctx, ref.Spreadsheet, title)
	if err != nil {
		return "", err
	}

	var headers []string
	if len(values) > 0 {
		headers = values[0]
	}
	idCol := records.HeaderIndex(headers, schema.IDColumn)
	targetCol := records.HeaderIndex(headers, schema.TargetColumn)
	if idCol < 0 || targetCol < 0 {
		return "", schema.Validate(records.NewTable(headers, nil))
	}

	for i := 1; i < len(values); i++ {
		if idCol < len(values[i]) && strings.TrimSpace(values[i][idCol]) == id {
			value := lookup(fields, schema.TargetColumn)
			if err := c.backend.UpdateCell(ctx, ref.Spreadsheet, title, i+1, targetCol+1, value); err != nil {
				return "", err
			}
			c.logger.Debug().Str("id", id).Int("row", i+1).Msg("Updated sheet cell")
			return records.ActionUpdated, nil
		}
	}

	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = lookup(fields, h)
	}
	row[idCol] = id
	if err := c.backend.AppendRow(ctx, ref.Spreadsheet, title, row); err != nil {
		return "", err
	}
	c.logger.Debug().Str("id", id).Msg("Appended sheet row")
	return records.ActionAppended, nil
}

// lookup finds a field by label, case-insensitively.
func lookup(fields map[string]string, label string) string {
	if v, ok := fields[label]; ok {
		return v
	}
	label = strings.TrimSpace(label)
	for k, v := range fields {
		if strings.EqualFold(strings.TrimSpace(k), label) {
			return v
		}
	}
	return ""
}
