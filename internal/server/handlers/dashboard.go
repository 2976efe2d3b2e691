package handlers

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/agentstation/sheetlink/pkg/logging"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Flash is a one-shot message shown above the dashboard. Raw carries the
// upstream payload or error text verbatim.
type Flash struct {
	OK      bool
	Title   string
	Message string
	Raw     string
}

// page is the dashboard template's data.
type page struct {
	Columns     []records.Column
	Snapshot    *reconciler.Snapshot
	LoadError   string
	Target      TargetView
	Spreadsheet string
	Worksheet   string
	ActionQuery string
	Flash       *Flash
	Export      *ExportView
	Sheet       *TableView
	Preview     *TableView
}

// HandleDashboard handles GET /.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, &page{})
}

// HandleAction handles the dashboard's form posts to /actions/{name}.
// Each action re-renders the dashboard with its outcome.
func (h *Handlers) HandleAction(w http.ResponseWriter, r *http.Request, name string) {
	p := &page{}
	status := http.StatusOK

	if name == "preview" {
		view, err := h.preview(w, r)
		if err != nil {
			p.Flash = errorFlash("Preview failed", err)
			status = http.StatusBadRequest
		} else {
			p.Preview = view
		}
		h.render(w, r, status, p)
		return
	}

	params, err := readParams(r)
	if err != nil {
		p.Flash = errorFlash("Request rejected", err)
		h.render(w, r, http.StatusBadRequest, p)
		return
	}
	ctx := r.Context()
	cfg := h.session.Config()

	switch name {
	case "refresh":
		if _, err := h.session.Refresh(ctx); err != nil {
			p.Flash = errorFlash("Refresh failed", err)
		} else {
			p.Flash = &Flash{OK: true, Title: "Products reloaded"}
		}

	case "update":
		productID := params["product_id"]
		if productID == "" {
			productID = cfg.TargetProductID
		}
		result, _, err := h.session.Update(ctx, productID, params["value"])
		switch {
		case err != nil && result == nil:
			p.Flash = errorFlash("Update failed", err)
		case err != nil:
			p.Flash = &Flash{OK: true, Title: "Updated, but reload failed", Message: err.Error(), Raw: result.String()}
		default:
			p.Flash = &Flash{OK: true, Title: "Updated " + productID, Raw: result.String()}
		}

	case "export":
		ref, err := h.sheetRef(params)
		if err == nil {
			var result *reconciler.ExportResult
			if result, err = h.session.Export(logging.WithSpreadsheet(ctx, ref.Spreadsheet), ref); err == nil {
				view := exportView(result)
				p.Export = &view
				p.Flash = &Flash{OK: result.IsSuccess(), Title: "Exported to " + ref.String()}
			}
		}
		if err != nil {
			p.Flash = errorFlash("Export failed", err)
		}

	case "import":
		ref, err := h.sheetRef(params)
		if err == nil {
			var result *records.WriteResult
			if result, _, err = h.session.Import(logging.WithSpreadsheet(ctx, ref.Spreadsheet), ref, params["product_id"]); err == nil {
				p.Flash = &Flash{OK: true, Title: "Imported from " + ref.String(), Raw: result.String()}
			}
		}
		if err != nil {
			p.Flash = errorFlash("Import failed", err)
		}

	case "sheet":
		ref, err := h.sheetRef(params)
		if err == nil {
			var table *records.Table
			if table, err = h.session.Sheet(logging.WithSpreadsheet(ctx, ref.Spreadsheet), ref); err == nil {
				view := tableView(ref.String(), table)
				p.Sheet = &view
			}
		}
		if err != nil {
			p.Flash = errorFlash("Sheet load failed", err)
		}

	default:
		http.NotFound(w, r)
		return
	}

	h.render(w, r, status, p)
}

func errorFlash(title string, err error) *Flash {
	return &Flash{Title: title, Message: err.Error()}
}

// render fills the common page fields and executes the template. The
// snapshot is loaded on first view; a load failure is shown in place of
// the products table.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, p *page) {
	cfg := h.session.Config()
	p.Columns = cfg.Columns()
	p.Spreadsheet = h.defaults.Spreadsheet
	p.Worksheet = h.defaults.Worksheet
	if key := r.URL.Query().Get("key"); key != "" {
		p.ActionQuery = "?" + url.Values{"key": {key}}.Encode()
	}

	snap := h.session.Current()
	if snap == nil {
		var err error
		if snap, err = h.session.Snapshot(r.Context()); err != nil {
			p.LoadError = err.Error()
		}
	}
	p.Snapshot = snap
	p.Target = targetView(cfg, snap, "")

	var buf bytes.Buffer
	if err := dashboardTemplate.ExecuteTemplate(&buf, "dashboard.html", p); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render dashboard")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
