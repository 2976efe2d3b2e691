package handlers

import (
	"net/http"

	"github.com/agentstation/sheetlink/internal/server/response"
	"github.com/agentstation/sheetlink/internal/upload"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/logging"
)

// HandleHealth handles GET /api/v1/health.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "sheetlink",
		"version": h.app.Version(),
	})
}

// HandleListProducts handles GET /api/v1/products.
// @Summary Current product snapshot
// @Tags products
// @Produce json
// @Success 200 {object} response.Response{data=ProductsView}
// @Failure 502 {object} response.Response{error=response.Error}
// @Router /api/v1/products [get].
func (h *Handlers) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Snapshot(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, productsView(h.session.Config(), snap))
}

// HandleRefresh handles POST /api/v1/products/refresh.
// @Summary Reload the snapshot from the inventory
// @Tags products
// @Produce json
// @Success 200 {object} response.Response{data=ProductsView}
// @Failure 502 {object} response.Response{error=response.Error}
// @Router /api/v1/products/refresh [post].
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Refresh(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, productsView(h.session.Config(), snap))
}

// HandleUpdateField handles POST /api/v1/products/{id}/field.
// The body carries "value". The response holds the inventory's payload and
// the value read back after the write.
// @Summary Write the target attribute
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.Response{data=WriteView}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Router /api/v1/products/{id}/field [post].
func (h *Handlers) HandleUpdateField(w http.ResponseWriter, r *http.Request, productID string) {
	params, err := readParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, snap, err := h.session.Update(r.Context(), productID, params["value"])
	if err != nil && result == nil {
		h.fail(w, r, err)
		return
	}
	if productID == "" {
		productID = h.session.Config().TargetProductID
	}
	response.OK(w, writeView(h.session.Config(), productID, result, snap, err))
}

// HandleExport handles POST /api/v1/sheet/export.
// Row failures are reported per row; the request fails only when nothing
// could be attempted.
// @Summary Export the snapshot to a worksheet
// @Tags sheet
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=ExportView}
// @Failure 401 {object} response.Response{error=response.Error}
// @Router /api/v1/sheet/export [post].
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ref, err := h.sheetRef(params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	r = r.WithContext(logging.WithSpreadsheet(r.Context(), ref.Spreadsheet))

	result, err := h.session.Export(r.Context(), ref)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, exportView(result))
}

// HandleImport handles POST /api/v1/sheet/import.
// @Summary Import the target value of one sheet row
// @Tags sheet
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=WriteView}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/sheet/import [post].
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ref, err := h.sheetRef(params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	r = r.WithContext(logging.WithSpreadsheet(r.Context(), ref.Spreadsheet))

	productID := params["product_id"]
	result, snap, err := h.session.Import(r.Context(), ref, productID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if productID == "" {
		productID = h.session.Config().TargetProductID
	}
	response.OK(w, writeView(h.session.Config(), productID, result, snap, nil))
}

// HandleSheet handles GET /api/v1/sheet.
// @Summary Read a worksheet
// @Tags sheet
// @Produce json
// @Param spreadsheet query string false "Spreadsheet URL or key"
// @Param worksheet query string false "Worksheet index or title"
// @Success 200 {object} response.Response{data=TableView}
// @Router /api/v1/sheet [get].
func (h *Handlers) HandleSheet(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ref, err := h.sheetRef(params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	r = r.WithContext(logging.WithSpreadsheet(r.Context(), ref.Spreadsheet))
	table, err := h.session.Sheet(r.Context(), ref)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, tableView(ref.String(), table))
}

// HandlePreview handles POST /api/v1/preview with a multipart "file" field.
// @Summary Preview an uploaded CSV or XLSX file
// @Tags preview
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} response.Response{data=TableView}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/preview [post].
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	view, err := h.preview(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, view)
}

func (h *Handlers) preview(w http.ResponseWriter, r *http.Request) (*TableView, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.defaults.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.defaults.MaxUploadBytes); err != nil {
		return nil, errors.NewValidationError("file", nil, err.Error())
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.NewValidationError("file", nil, "choose a file to upload")
	}
	defer func() { _ = file.Close() }()

	table, err := upload.Parse(header.Filename, file)
	if err != nil {
		return nil, err
	}
	view := tableView(header.Filename, table)
	return &view, nil
}

// fail logs err on the request logger and writes the mapped response.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Warn().Err(err).Msg("Request failed")
	response.ErrorFromType(w, err)
}
