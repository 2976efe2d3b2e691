package reconciler

import (
	"strconv"
	"strings"

	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Config scopes a Reconciler: which inventory it reads and writes, which
// product the single-field edit targets, and which attributes it shows.
type Config struct {
	// InventoryID is the default inventory scope.
	InventoryID int `json:"inventory_id" yaml:"inventory_id"`

	// TargetProductID is the product edited when no product is named.
	TargetProductID string `json:"target_product_id" yaml:"target_product_id"`

	// TargetField is the one attribute kept in sync.
	TargetField string `json:"target_field" yaml:"target_field"`

	// DisplayField is shown read-only next to the target.
	DisplayField string `json:"display_field,omitempty" yaml:"display_field,omitempty"`

	// ExtraFields are further read-only attributes flattened into each row.
	ExtraFields []string `json:"extra_fields,omitempty" yaml:"extra_fields,omitempty"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		InventoryID:     constants.DefaultInventoryID,
		TargetProductID: constants.DefaultTargetProductID,
		TargetField:     constants.DefaultTargetField,
		DisplayField:    constants.DefaultDisplayField,
		ExtraFields:     append([]string(nil), constants.DefaultExtraFields...),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.InventoryID <= 0 {
		return errors.NewValidationError("inventory_id", c.InventoryID, "must be a positive integer")
	}
	if strings.TrimSpace(c.TargetField) == "" {
		return errors.NewValidationError("target_field", c.TargetField, "is required")
	}
	return nil
}

// Keys lists the attribute keys carried by each row, without duplicates:
// display field, target field, then extra fields.
func (c Config) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, k := range append([]string{c.DisplayField, c.TargetField}, c.ExtraFields...) {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// Columns returns the display columns in order. Identity columns use the
// pseudo-keys id, sku, ean and name.
func (c Config) Columns() []records.Column {
	cols := []records.Column{
		{Key: "id", Label: constants.ColumnID},
		{Key: "sku", Label: constants.ColumnSKU},
		{Key: "ean", Label: constants.ColumnEAN},
		{Key: "name", Label: constants.ColumnName},
	}
	for _, k := range c.Keys() {
		cols = append(cols, records.NewColumn(k))
	}
	return cols
}

// TargetLabel is the sheet column that holds the target attribute.
func (c Config) TargetLabel() string {
	return records.Label(c.TargetField)
}

// Schema returns the sheet schema for this configuration.
func (c Config) Schema() records.Schema {
	return records.NewSchema(c.TargetLabel())
}

// ParseInventoryID parses an inventory scope value.
func ParseInventoryID(s string) (int, error) {
	s = strings.TrimSpace(s)
	// Sheets often render integers as "833.0"
	s = strings.TrimSuffix(s, ".0")
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError(constants.ColumnInventoryID, s, "must be a positive integer")
	}
	return id, nil
}
