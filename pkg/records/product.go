package records

import "encoding/json"

// Product is a catalog item as reported by the inventory API.
type Product struct {
	ID         string            `json:"id" yaml:"id"`
	SKU        string            `json:"sku,omitempty" yaml:"sku,omitempty"`
	EAN        string            `json:"ean,omitempty" yaml:"ean,omitempty"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	TextFields map[string]string `json:"text_fields,omitempty" yaml:"text_fields,omitempty"`
}

// Field returns the text field value for key, or "" when the key is absent.
func (p *Product) Field(key string) string {
	if p == nil || p.TextFields == nil {
		return ""
	}
	return p.TextFields[key]
}

// Row is the flattened form of a Product. Fields is keyed by attribute key
// and carries exactly the configured keys, with "" for absent attributes.
type Row struct {
	ID     string            `json:"id" yaml:"id"`
	SKU    string            `json:"sku" yaml:"sku"`
	EAN    string            `json:"ean" yaml:"ean"`
	Name   string            `json:"name" yaml:"name"`
	Fields map[string]string `json:"fields" yaml:"fields"`
}

// Field returns the value of an attribute key, or "" when absent.
func (r Row) Field(key string) string {
	return r.Fields[key]
}

// Cell returns the value shown under a column key. The identity
// pseudo-keys id, sku, ean and name select the row's own fields.
func (r Row) Cell(key string) string {
	switch key {
	case "id":
		return r.ID
	case "sku":
		return r.SKU
	case "ean":
		return r.EAN
	case "name":
		return r.Name
	}
	return r.Fields[key]
}

// WriteResult is the inventory API's response to a write, passed through
// unchanged so callers can show it verbatim.
type WriteResult struct {
	Status string          `json:"status" yaml:"status"`
	Raw    json.RawMessage `json:"raw,omitempty" yaml:"-"`
}

// String returns the raw payload, or the status when no payload was kept.
func (w *WriteResult) String() string {
	if w == nil {
		return ""
	}
	if len(w.Raw) > 0 {
		return string(w.Raw)
	}
	return w.Status
}

// UpsertAction reports what a spreadsheet upsert did.
type UpsertAction string

// Upsert outcomes.
const (
	ActionUpdated  UpsertAction = "updated"
	ActionAppended UpsertAction = "appended"
	ActionFailed   UpsertAction = "failed"
)
