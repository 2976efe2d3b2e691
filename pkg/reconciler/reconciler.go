// Package reconciler keeps one designated product attribute in sync between
// the inventory API and a spreadsheet, keyed by product identifier.
//
// Load fetches and flattens the catalog into a Snapshot. Update writes the
// target attribute and refetches. Export upserts every snapshot row into a
// worksheet, isolating per-row failures. Import reads one row back from the
// worksheet and writes its target value into the inventory.
package reconciler

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/logging"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Inventory is the subset of the inventory client the reconciler uses.
type Inventory interface {
	ListProductIDs(ctx context.Context, inventoryID int) ([]string, error)
	ProductDetails(ctx context.Context, inventoryID int, ids []string) (map[string]*records.Product, error)
	SetTextField(ctx context.Context, inventoryID int, productID, key, value string) (*records.WriteResult, error)
}

// Sheets is the subset of the spreadsheet client the reconciler uses.
type Sheets interface {
	ReadTable(ctx context.Context, ref records.SheetRef) (*records.Table, error)
	UpsertRow(ctx context.Context, ref records.SheetRef, schema records.Schema, id string, fields map[string]string) (records.UpsertAction, error)
}

// Reconciler maps inventory products to sheet rows and back.
type Reconciler struct {
	inventory Inventory
	sheets    Sheets
	config    Config
	options   *options
	logger    *zerolog.Logger
}

// New creates a Reconciler. A Sheets client is optional; without one the
// sheet operations fail with a configuration error.
func New(inv Inventory, cfg Config, opts ...Option) (*Reconciler, error) {
	if inv == nil {
		return nil, errors.NewConfigError("reconciler", "inventory client is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Reconciler{
		inventory: inv,
		sheets:    o.sheets,
		config:    cfg,
		options:   o,
		logger:    o.logger,
	}, nil
}

// Config returns the reconciler's configuration.
func (r *Reconciler) Config() Config {
	return r.config
}

// Load fetches the catalog and its details and flattens them. When the
// catalog is empty the target product is fetched on its own, so the edit
// form always has something to show.
func (r *Reconciler) Load(ctx context.Context) (*Snapshot, error) {
	return r.load(r.logContext(ctx, "load"))
}

func (r *Reconciler) load(ctx context.Context) (*Snapshot, error) {
	ctx = logging.WithInventory(ctx, r.config.InventoryID)
	logger := logging.Ctx(ctx)

	ids, err := r.inventory.ListProductIDs(ctx, r.config.InventoryID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 && r.config.TargetProductID != "" {
		logger.Debug().Str("target", r.config.TargetProductID).Msg("Catalog empty, using target product")
		ids = []string{r.config.TargetProductID}
	}

	details, err := r.inventory.ProductDetails(ctx, r.config.InventoryID, ids)
	if err != nil {
		return nil, err
	}

	joined := Flatten(r.config, ids, details)
	if len(joined.Unmatched) > 0 {
		logger.Warn().Strs("ids", joined.Unmatched).Msg("Products listed without details")
	}
	logger.Info().Int("rows", len(joined.Rows)).Msg("Loaded product snapshot")

	return &Snapshot{
		InventoryID: r.config.InventoryID,
		Rows:        joined.Rows,
		Unmatched:   joined.Unmatched,
		FetchedAt:   r.options.now(),
	}, nil
}

// logContext tags ctx's logger with operation. A context that carries no
// logger of its own gets the reconciler's.
func (r *Reconciler) logContext(ctx context.Context, operation string) context.Context {
	if logging.FromContext(ctx) == logging.Default() {
		ctx = logging.WithLogger(ctx, r.logger)
	}
	return logging.WithOperation(ctx, operation)
}

// Update writes value to the target attribute of productID (the configured
// target product when empty) and returns the API's response together with
// a freshly loaded snapshot. If the write succeeds but the reload fails,
// the write result is returned along with the reload error.
func (r *Reconciler) Update(ctx context.Context, productID, value string) (*records.WriteResult, *Snapshot, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		productID = r.config.TargetProductID
	}
	if productID == "" {
		return nil, nil, errors.NewValidationError("product_id", productID, "a product is required")
	}
	if value == "" {
		return nil, nil, errors.NewValidationError("value", value, "enter a value to update")
	}

	ctx = logging.WithProduct(r.logContext(ctx, "update"), productID)
	result, err := r.inventory.SetTextField(ctx, r.config.InventoryID, productID, r.config.TargetField, value)
	if err != nil {
		return nil, nil, err
	}
	logging.Ctx(ctx).Info().Str("field", r.config.TargetField).Msg("Updated target attribute")

	snap, err := r.load(ctx)
	if err != nil {
		return result, nil, err
	}
	return result, snap, nil
}

func (r *Reconciler) requireSheets() error {
	if r.sheets == nil {
		return errors.NewConfigError("reconciler", "spreadsheet client not configured", nil)
	}
	return nil
}

// Export upserts every row of snap into the worksheet. The header row is
// checked once up front; after that a failed row does not stop the others
// and each row gets its own Outcome. A nil snap is loaded first. The error
// is non-nil only when nothing could be attempted.
func (r *Reconciler) Export(ctx context.Context, ref records.SheetRef, snap *Snapshot) (*ExportResult, error) {
	if err := r.requireSheets(); err != nil {
		return nil, err
	}
	ctx = r.logContext(ctx, "export")
	if snap == nil {
		var err error
		if snap, err = r.load(ctx); err != nil {
			return nil, err
		}
	}
	if _, err := r.LoadSheet(ctx, ref); err != nil {
		return nil, err
	}

	logger := logging.Ctx(ctx)
	start := r.options.now()
	schema := r.config.Schema()
	result := &ExportResult{Sheet: ref, Outcomes: make([]Outcome, 0, len(snap.Rows))}

	for _, row := range snap.Rows {
		action, err := r.sheets.UpsertRow(ctx, ref, schema, row.ID, sheetFields(r.config, row))
		if err != nil {
			logger.Error().Err(err).Str("product_id", row.ID).Msg("Export row failed")
			result.Outcomes = append(result.Outcomes, Outcome{ID: row.ID, Action: records.ActionFailed, Err: err})
			continue
		}
		result.Outcomes = append(result.Outcomes, Outcome{ID: row.ID, Action: action})
	}

	result.Duration = r.options.now().Sub(start)
	logger.Info().
		Str("sheet", ref.String()).
		Int("updated", result.Count(records.ActionUpdated)).
		Int("appended", result.Count(records.ActionAppended)).
		Int("failed", result.Count(records.ActionFailed)).
		Msg("Exported snapshot")
	return result, nil
}

// LoadSheet reads a worksheet and rejects it before any row processing if
// the ID or target column is missing.
func (r *Reconciler) LoadSheet(ctx context.Context, ref records.SheetRef) (*records.Table, error) {
	if err := r.requireSheets(); err != nil {
		return nil, err
	}
	table, err := r.sheets.ReadTable(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := r.config.Schema().Validate(table); err != nil {
		return nil, err
	}
	return table, nil
}

// Import writes the sheet's target value for productID into the inventory.
// The row's Inventory ID cell, when present and non-empty, selects the
// inventory; otherwise the configured one is used. The inventory's result
// is returned as-is.
func (r *Reconciler) Import(ctx context.Context, ref records.SheetRef, productID string) (*records.WriteResult, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		productID = r.config.TargetProductID
	}

	ctx = logging.WithProduct(r.logContext(ctx, "import"), productID)
	table, err := r.LoadSheet(ctx, ref)
	if err != nil {
		return nil, err
	}

	schema := r.config.Schema()
	row := table.Find(schema.IDColumn, productID)
	if row == nil {
		return nil, errors.NewNotInError("row", productID, "sheet")
	}

	inventoryID := r.config.InventoryID
	if scope := strings.TrimSpace(table.Value(row, schema.InventoryColumn)); scope != "" {
		if inventoryID, err = ParseInventoryID(scope); err != nil {
			return nil, err
		}
	}

	value := table.Value(row, schema.TargetColumn)
	ctx = logging.WithInventory(ctx, inventoryID)
	logging.Ctx(ctx).Info().Msg("Importing target value from sheet")
	return r.inventory.SetTextField(ctx, inventoryID, productID, r.config.TargetField, value)
}
