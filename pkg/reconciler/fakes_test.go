package reconciler_test

import (
	"context"
	"sort"
	"sync"

	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/records"
)

type setCall struct {
	InventoryID int
	ProductID   string
	Key         string
	Value       string
}

// fakeInventory stores products in memory and records writes.
type fakeInventory struct {
	mu       sync.Mutex
	ids      []string
	products map[string]*records.Product
	sets     []setCall
	listErr  error
	setErr   error
}

func newFakeInventory(products ...*records.Product) *fakeInventory {
	f := &fakeInventory{products: make(map[string]*records.Product)}
	for _, p := range products {
		f.ids = append(f.ids, p.ID)
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeInventory) ListProductIDs(_ context.Context, _ int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.ids...), nil
}

func (f *fakeInventory) ProductDetails(_ context.Context, _ int, ids []string) (map[string]*records.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]*records.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			cp := *p
			cp.TextFields = make(map[string]string, len(p.TextFields))
			for k, v := range p.TextFields {
				cp.TextFields[k] = v
			}
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *fakeInventory) SetTextField(_ context.Context, inventoryID int, productID, key, value string) (*records.WriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets = append(f.sets, setCall{inventoryID, productID, key, value})
	if f.setErr != nil {
		return nil, f.setErr
	}
	p, ok := f.products[productID]
	if !ok {
		return nil, &errors.RemoteError{Method: "addInventoryProduct", Status: "ERROR", Code: "ERROR_PRODUCT_ID"}
	}
	if p.TextFields == nil {
		p.TextFields = make(map[string]string)
	}
	p.TextFields[key] = value
	return &records.WriteResult{Status: "SUCCESS", Raw: []byte(`{"status":"SUCCESS","product_id":"` + productID + `"}`)}, nil
}

func (f *fakeInventory) calls() []setCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]setCall(nil), f.sets...)
}

// flakySheets fails UpsertRow for selected IDs and records the rest.
type flakySheets struct {
	failing  map[string]error
	written  []string
	table    *records.Table
	reads    int
	attempts int
}

func (s *flakySheets) ReadTable(_ context.Context, _ records.SheetRef) (*records.Table, error) {
	s.reads++
	return s.table, nil
}

func (s *flakySheets) UpsertRow(_ context.Context, _ records.SheetRef, _ records.Schema, id string, _ map[string]string) (records.UpsertAction, error) {
	s.attempts++
	if err, ok := s.failing[id]; ok {
		return "", err
	}
	s.written = append(s.written, id)
	sort.Strings(s.written)
	return records.ActionAppended, nil
}
