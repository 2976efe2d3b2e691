package records

import (
	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
)

// Schema names the columns a sheet must, or may, carry.
type Schema struct {
	IDColumn        string
	TargetColumn    string
	InventoryColumn string // optional per-row inventory override
}

// NewSchema returns a Schema for the given target label.
func NewSchema(targetColumn string) Schema {
	return Schema{
		IDColumn:        constants.ColumnID,
		TargetColumn:    targetColumn,
		InventoryColumn: constants.ColumnInventoryID,
	}
}

// Required lists the columns that must be present.
func (s Schema) Required() []string {
	return []string{s.IDColumn, s.TargetColumn}
}

// Validate reports a SchemaError when a required column is absent.
func (s Schema) Validate(t *Table) error {
	if t == nil {
		return errors.NewSchemaError("sheet", s.Required())
	}
	if missing := t.Missing(s.Required()...); len(missing) > 0 {
		return errors.NewSchemaError("sheet", missing)
	}
	return nil
}
