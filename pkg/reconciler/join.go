package reconciler

import "github.com/agentstation/sheetlink/pkg/records"

// JoinResult is the catalog/details join. Rows follow catalog order;
// Unmatched lists catalog identifiers that had no details.
type JoinResult struct {
	Rows      []records.Row `json:"rows" yaml:"rows"`
	Unmatched []string      `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
}

// Flatten projects products onto rows carrying exactly cfg.Keys().
// Absent attributes become "".
func Flatten(cfg Config, ids []string, details map[string]*records.Product) JoinResult {
	keys := cfg.Keys()
	result := JoinResult{Rows: make([]records.Row, 0, len(ids))}
	seen := make(map[string]bool, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		p, ok := details[id]
		if !ok || p == nil {
			result.Unmatched = append(result.Unmatched, id)
			continue
		}

		row := records.Row{
			ID:     id,
			SKU:    p.SKU,
			EAN:    p.EAN,
			Name:   p.Name,
			Fields: make(map[string]string, len(keys)),
		}
		for _, k := range keys {
			row.Fields[k] = p.Field(k)
		}
		result.Rows = append(result.Rows, row)
	}
	return result
}

// sheetFields renders a row keyed by sheet column label.
func sheetFields(cfg Config, row records.Row) map[string]string {
	fields := make(map[string]string)
	for _, col := range cfg.Columns() {
		switch col.Key {
		case "id":
			fields[col.Label] = row.ID
		case "sku":
			fields[col.Label] = row.SKU
		case "ean":
			fields[col.Label] = row.EAN
		case "name":
			fields[col.Label] = row.Name
		default:
			fields[col.Label] = row.Field(col.Key)
		}
	}
	return fields
}
