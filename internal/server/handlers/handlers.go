// Package handlers provides HTTP request handlers for the sheetlink dashboard
// and its JSON API.
package handlers

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/server/session"
	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/records"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Defaults are the sheet coordinates used when a request names none.
type Defaults struct {
	Spreadsheet    string
	Worksheet      string
	MaxUploadBytes int64
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app      application.Application
	session  *session.Session
	defaults Defaults
	logger   *zerolog.Logger
}

// New creates a new Handlers instance.
func New(app application.Application, sess *session.Session, defaults Defaults, logger *zerolog.Logger) *Handlers {
	if defaults.MaxUploadBytes <= 0 {
		defaults.MaxUploadBytes = constants.MaxUploadBytes
	}
	return &Handlers{
		app:      app,
		session:  sess,
		defaults: defaults,
		logger:   logger,
	}
}

// sheetRef resolves the request's sheet coordinates against the defaults.
func (h *Handlers) sheetRef(params map[string]string) (records.SheetRef, error) {
	spreadsheet := params["spreadsheet"]
	if spreadsheet == "" {
		spreadsheet = h.defaults.Spreadsheet
	}
	worksheet := params["worksheet"]
	if worksheet == "" {
		worksheet = h.defaults.Worksheet
	}
	return h.app.SheetRef(spreadsheet, worksheet)
}

// readParams collects string parameters from a JSON object body, a form
// body, or the query string.
func readParams(r *http.Request) (map[string]string, error) {
	params := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json":
		if r.Body == nil {
			return params, nil
		}
		var body map[string]any
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
		if err := dec.Decode(&body); err != nil {
			if err == io.EOF {
				return params, nil
			}
			return nil, errors.WrapParse("json", "request body", err)
		}
		for k, v := range body {
			switch val := v.(type) {
			case string:
				params[k] = val
			case nil:
			default:
				raw, _ := json.Marshal(val)
				params[k] = strings.Trim(string(raw), `"`)
			}
		}
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, errors.WrapParse("form", "request body", err)
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
	}
	return params, nil
}
