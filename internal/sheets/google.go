package sheets

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/agentstation/sheetlink/pkg/errors"
)

const service = "google-sheets"

// valueInput stores written cells verbatim: no number, date or formula
// parsing, so identifiers like EANs keep their leading zeros.
const valueInput = "RAW"

// GoogleBackend stores cells in Google Sheets.
type GoogleBackend struct {
	svc *sheetsapi.Service
}

// NewGoogleBackend creates a backend authorized by ts. Extra client options
// (endpoint, HTTP client) are applied after the token source.
func NewGoogleBackend(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*GoogleBackend, error) {
	if ts != nil {
		opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.NewConfigError("sheets", "cannot create spreadsheet service", err)
	}
	return &GoogleBackend{svc: svc}, nil
}

// SheetTitles implements Backend.
func (b *GoogleBackend) SheetTitles(ctx context.Context, spreadsheet string) ([]string, error) {
	resp, err := b.svc.Spreadsheets.Get(spreadsheet).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, translate(err, "spreadsheet", spreadsheet)
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

// Values implements Backend.
func (b *GoogleBackend) Values(ctx context.Context, spreadsheet, worksheet string) ([][]string, error) {
	resp, err := b.svc.Spreadsheets.Values.Get(spreadsheet, quoteTitle(worksheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, translate(err, "worksheet", worksheet)
	}
	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		rows[i] = make([]string, len(r))
		for j, v := range r {
			rows[i][j] = fmt.Sprint(v)
		}
	}
	return rows, nil
}

// UpdateCell implements Backend.
func (b *GoogleBackend) UpdateCell(ctx context.Context, spreadsheet, worksheet string, row, col int, value string) error {
	rng := A1(worksheet, row, col)
	_, err := b.svc.Spreadsheets.Values.Update(spreadsheet, rng, &sheetsapi.ValueRange{
		Values: [][]any{{value}},
	}).ValueInputOption(valueInput).Context(ctx).Do()
	return translate(err, "range", rng)
}

// AppendRow implements Backend.
func (b *GoogleBackend) AppendRow(ctx context.Context, spreadsheet, worksheet string, values []string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	_, err := b.svc.Spreadsheets.Values.Append(spreadsheet, quoteTitle(worksheet), &sheetsapi.ValueRange{
		Values: [][]any{cells},
	}).ValueInputOption(valueInput).InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return translate(err, "worksheet", worksheet)
}

// translate maps API failures onto the error taxonomy.
func translate(err error, resource, id string) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return errors.NewNotFoundError(resource, id)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewAuthError(service, "oauth", gerr.Message, "check that the authorized account can open the spreadsheet", err)
		}
		return &errors.RemoteError{Method: service, HTTPStatus: gerr.Code, Message: gerr.Message, Body: []byte(gerr.Body), Err: err}
	}

	// Token refresh failures arrive wrapped in url.Error.
	var authErr *errors.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return &errors.RemoteError{Method: service, Err: err}
}
