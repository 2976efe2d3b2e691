package handlers

import (
	"encoding/json"
	"time"

	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

// TargetView is the current value of the configured target attribute.
type TargetView struct {
	ProductID string `json:"product_id"`
	Field     string `json:"field"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	Found     bool   `json:"found"`
}

// ProductsView is the JSON form of a snapshot.
type ProductsView struct {
	InventoryID int              `json:"inventory_id"`
	Columns     []records.Column `json:"columns"`
	Rows        []records.Row    `json:"rows"`
	Unmatched   []string         `json:"unmatched,omitempty"`
	FetchedAt   time.Time        `json:"fetched_at"`
	Target      TargetView       `json:"target"`
}

// WriteView is the inventory's response to a write, plus the re-read value.
type WriteView struct {
	ProductID   string          `json:"product_id"`
	Status      string          `json:"status"`
	Raw         json.RawMessage `json:"raw,omitempty"`
	Target      *TargetView     `json:"target,omitempty"`
	ReloadError string          `json:"reload_error,omitempty"`
}

// OutcomeView is one exported row.
type OutcomeView struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

// ExportView summarizes an export.
type ExportView struct {
	Sheet      string        `json:"sheet"`
	Updated    int           `json:"updated"`
	Appended   int           `json:"appended"`
	Failed     int           `json:"failed"`
	DurationMS int64         `json:"duration_ms"`
	Outcomes   []OutcomeView `json:"outcomes"`
}

// TableView is a header row plus positional values.
type TableView struct {
	Source  string     `json:"source,omitempty"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func targetView(cfg reconciler.Config, snap *reconciler.Snapshot, productID string) TargetView {
	if productID == "" {
		productID = cfg.TargetProductID
	}
	value, found := snap.Value(productID, cfg.TargetField)
	return TargetView{
		ProductID: productID,
		Field:     cfg.TargetField,
		Label:     cfg.TargetLabel(),
		Value:     value,
		Found:     found,
	}
}

func productsView(cfg reconciler.Config, snap *reconciler.Snapshot) ProductsView {
	return ProductsView{
		InventoryID: snap.InventoryID,
		Columns:     cfg.Columns(),
		Rows:        snap.Rows,
		Unmatched:   snap.Unmatched,
		FetchedAt:   snap.FetchedAt,
		Target:      targetView(cfg, snap, ""),
	}
}

func writeView(cfg reconciler.Config, productID string, result *records.WriteResult, snap *reconciler.Snapshot, reloadErr error) WriteView {
	v := WriteView{ProductID: productID}
	if result != nil {
		v.Status = result.Status
		v.Raw = result.Raw
	}
	if snap != nil {
		t := targetView(cfg, snap, productID)
		v.Target = &t
	}
	if reloadErr != nil {
		v.ReloadError = reloadErr.Error()
	}
	return v
}

func exportView(result *reconciler.ExportResult) ExportView {
	v := ExportView{
		Sheet:      result.Sheet.String(),
		Updated:    result.Count(records.ActionUpdated),
		Appended:   result.Count(records.ActionAppended),
		Failed:     result.Count(records.ActionFailed),
		DurationMS: result.Duration.Milliseconds(),
		Outcomes:   make([]OutcomeView, 0, len(result.Outcomes)),
	}
	for _, o := range result.Outcomes {
		v.Outcomes = append(v.Outcomes, OutcomeView{ID: o.ID, Action: string(o.Action), Error: o.Error()})
	}
	return v
}

func tableView(source string, t *records.Table) TableView {
	return TableView{Source: source, Headers: t.Headers, Rows: t.Values()}
}
