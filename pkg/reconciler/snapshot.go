package reconciler

import (
	"time"

	"github.com/agentstation/sheetlink/pkg/records"
)

// Snapshot is one fetched view of the catalog. It is never mutated after
// creation; writes produce a new Snapshot.
type Snapshot struct {
	InventoryID int           `json:"inventory_id" yaml:"inventory_id"`
	Rows        []records.Row `json:"rows" yaml:"rows"`
	Unmatched   []string      `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
	FetchedAt   time.Time     `json:"fetched_at" yaml:"fetched_at"`
}

// Row returns the row for id.
func (s *Snapshot) Row(id string) (records.Row, bool) {
	if s == nil {
		return records.Row{}, false
	}
	for _, r := range s.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return records.Row{}, false
}

// Value returns the attribute value for a product, and whether the product
// is in the snapshot.
func (s *Snapshot) Value(id, key string) (string, bool) {
	r, ok := s.Row(id)
	if !ok {
		return "", false
	}
	return r.Field(key), true
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}
