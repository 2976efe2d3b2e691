package reconciler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetlink/internal/sheets"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/logging"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func product(id, sku, target string) *records.Product {
	p := &records.Product{ID: id, SKU: sku, Name: "Product " + id, TextFields: map[string]string{}}
	if target != "" {
		p.TextFields["extra_field_484"] = target
	}
	return p
}

func newReconciler(t *testing.T, inv reconciler.Inventory, opts ...reconciler.Option) *reconciler.Reconciler {
	t.Helper()
	opts = append([]reconciler.Option{
		reconciler.WithLogger(logging.NewNopLogger()),
		reconciler.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	r, err := reconciler.New(inv, reconciler.DefaultConfig(), opts...)
	require.NoError(t, err)
	return r
}

func memorySheets(t *testing.T, rows [][]string) (*sheets.Client, *sheets.MemoryBackend, records.SheetRef) {
	t.Helper()
	backend := sheets.NewMemoryBackend()
	backend.AddWorksheet("key", "Sheet1", rows)
	return sheets.New(backend, logging.NewNopLogger()), backend, records.SheetRef{Spreadsheet: "key"}
}

func TestConfig(t *testing.T) {
	cfg := reconciler.DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"extra_field_483", "extra_field_484", "extra_field_467", "description_extra1", "description_extra2"}, cfg.Keys())
	assert.Equal(t, "Extra Field 484", cfg.TargetLabel())
	assert.Equal(t, records.Schema{IDColumn: "ID", TargetColumn: "Extra Field 484", InventoryColumn: "Inventory ID"}, cfg.Schema())

	cols := cfg.Columns()
	require.Len(t, cols, 9)
	assert.Equal(t, "ID", cols[0].Label)
	assert.Equal(t, "Description Extra 2", cols[8].Label)

	bad := cfg
	bad.InventoryID = 0
	assert.True(t, errors.IsValidationError(bad.Validate()))
	bad = cfg
	bad.TargetField = " "
	assert.True(t, errors.IsValidationError(bad.Validate()))
}

func TestParseInventoryID(t *testing.T) {
	id, err := reconciler.ParseInventoryID(" 900 ")
	require.NoError(t, err)
	assert.Equal(t, 900, id)

	id, err = reconciler.ParseInventoryID("900.0")
	require.NoError(t, err)
	assert.Equal(t, 900, id)

	_, err = reconciler.ParseInventoryID("main")
	assert.True(t, errors.IsValidationError(err))
}

func TestNew_Validation(t *testing.T) {
	_, err := reconciler.New(nil, reconciler.DefaultConfig())
	assert.True(t, errors.IsNotConfigured(err))

	_, err = reconciler.New(newFakeInventory(), reconciler.DefaultConfig(), reconciler.WithSheets(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = reconciler.New(newFakeInventory(), reconciler.Config{})
	assert.True(t, errors.IsValidationError(err))
}

func TestFlatten_MissingAttributesAreEmpty(t *testing.T) {
	cfg := reconciler.DefaultConfig()
	details := map[string]*records.Product{
		"1": {ID: "1", SKU: "S1", TextFields: map[string]string{"extra_field_484": "blue"}},
		"2": {ID: "2"},
	}

	result := reconciler.Flatten(cfg, []string{"1", "2"}, details)
	require.Len(t, result.Rows, 2)
	for _, row := range result.Rows {
		assert.Len(t, row.Fields, len(cfg.Keys()))
		for _, key := range cfg.Keys() {
			_, ok := row.Fields[key]
			assert.True(t, ok, "row %s missing key %s", row.ID, key)
		}
	}
	assert.Equal(t, "blue", result.Rows[0].Field("extra_field_484"))
	assert.Equal(t, "", result.Rows[0].Field("extra_field_483"))
	assert.Equal(t, "", result.Rows[1].SKU)
	assert.Empty(t, result.Unmatched)
}

func TestFlatten_DetailLessIdentifiers(t *testing.T) {
	details := map[string]*records.Product{"A1": {ID: "A1"}}

	result := reconciler.Flatten(reconciler.DefaultConfig(), []string{"A1", "A2"}, details)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "A1", result.Rows[0].ID)
	assert.Equal(t, []string{"A2"}, result.Unmatched)
}

func TestFlatten_KeepsCatalogOrder(t *testing.T) {
	details := map[string]*records.Product{"3": {ID: "3"}, "1": {ID: "1"}, "2": {ID: "2"}}

	result := reconciler.Flatten(reconciler.DefaultConfig(), []string{"2", "3", "1", "2"}, details)
	ids := make([]string, len(result.Rows))
	for i, r := range result.Rows {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"2", "3", "1"}, ids)
}

func TestLoad(t *testing.T) {
	inv := newFakeInventory(product("1", "S1", "a"), product("2", "S2", ""))
	inv.ids = append(inv.ids, "ghost")

	snap, err := newReconciler(t, inv).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 833, snap.InventoryID)
	assert.Equal(t, fixedNow, snap.FetchedAt)
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, []string{"ghost"}, snap.Unmatched)

	v, ok := snap.Value("1", "extra_field_484")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	_, ok = snap.Value("ghost", "extra_field_484")
	assert.False(t, ok)
}

func TestLoad_EmptyCatalogFallsBackToTarget(t *testing.T) {
	inv := newFakeInventory()
	inv.products["12064368"] = product("12064368", "T", "current")

	snap, err := newReconciler(t, inv).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, "12064368", snap.Rows[0].ID)
}

func TestLoad_RemoteErrorPropagates(t *testing.T) {
	inv := newFakeInventory()
	inv.listErr = &errors.RemoteError{Method: "getInventoryProductsList", Status: "ERROR", Body: []byte(`{"status":"ERROR"}`)}

	_, err := newReconciler(t, inv).Load(context.Background())
	assert.True(t, errors.IsRemote(err))
	assert.Contains(t, err.Error(), `{"status":"ERROR"}`)
}

func TestUpdate_ReadAfterWrite(t *testing.T) {
	inv := newFakeInventory(product("12064368", "T", "old"), product("2", "S2", "keep"))
	r := newReconciler(t, inv)

	before, err := r.Load(context.Background())
	require.NoError(t, err)

	result, after, err := r.Update(context.Background(), "", "new")
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", result.Status)

	v, _ := after.Value("12064368", "extra_field_484")
	assert.Equal(t, "new", v)
	v, _ = after.Value("2", "extra_field_484")
	assert.Equal(t, "keep", v)

	// the earlier snapshot is untouched
	v, _ = before.Value("12064368", "extra_field_484")
	assert.Equal(t, "old", v)

	assert.Equal(t, []setCall{{833, "12064368", "extra_field_484", "new"}}, inv.calls())
}

func TestUpdate_Failures(t *testing.T) {
	inv := newFakeInventory(product("1", "S", ""))
	r := newReconciler(t, inv)

	_, _, err := r.Update(context.Background(), "1", "")
	assert.True(t, errors.IsValidationError(err))

	inv.setErr = &errors.RemoteError{Method: "addInventoryProduct", Message: "denied"}
	result, snap, err := r.Update(context.Background(), "1", "x")
	assert.True(t, errors.IsRemote(err))
	assert.Nil(t, result)
	assert.Nil(t, snap)
}

func TestExport_Idempotent(t *testing.T) {
	inv := newFakeInventory(product("1", "S1", "a"), product("2", "S2", "b"))
	client, backend, ref := memorySheets(t, [][]string{{"ID", "SKU", "Extra Field 484"}})
	r := newReconciler(t, inv, reconciler.WithSheets(client))

	snap, err := r.Load(context.Background())
	require.NoError(t, err)

	first, err := r.Export(context.Background(), ref, snap)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Count(records.ActionAppended))

	second, err := r.Export(context.Background(), ref, snap)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Count(records.ActionUpdated))
	assert.True(t, second.IsSuccess())

	assert.Equal(t, [][]string{
		{"ID", "SKU", "Extra Field 484"},
		{"1", "S1", "a"},
		{"2", "S2", "b"},
	}, backend.Rows("key", "Sheet1"))
}

func TestExport_PartialFailure(t *testing.T) {
	inv := newFakeInventory(product("1", "", "a"), product("2", "", "b"), product("3", "", "c"))
	fault := errors.New("connection reset")
	fake := &flakySheets{
		failing: map[string]error{"2": fault},
		table:   records.NewTable([]string{"ID", "Extra Field 484"}, nil),
	}
	r := newReconciler(t, inv, reconciler.WithSheets(fake))

	result, err := r.Export(context.Background(), records.SheetRef{Spreadsheet: "key"}, nil)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 3)

	assert.Equal(t, []string{"1", "3"}, fake.written)
	assert.False(t, result.IsSuccess())

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "2", failed[0].ID)
	assert.Equal(t, records.ActionFailed, failed[0].Action)
	assert.ErrorIs(t, failed[0].Err, fault)
	assert.Equal(t, "connection reset", failed[0].Error())

	assert.Equal(t, records.ActionAppended, result.Outcomes[0].Action)
	assert.Equal(t, records.ActionAppended, result.Outcomes[2].Action)
}

func TestExport_HeaderCheckedOnce(t *testing.T) {
	inv := newFakeInventory(product("1", "", "a"), product("2", "", "b"), product("3", "", "c"))
	fake := &flakySheets{table: records.NewTable([]string{"SKU", "Name"}, nil)}
	r := newReconciler(t, inv, reconciler.WithSheets(fake))

	result, err := r.Export(context.Background(), records.SheetRef{Spreadsheet: "key"}, nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsSchema(err))

	var schemaErr *errors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"ID", "Extra Field 484"}, schemaErr.Missing)

	assert.Equal(t, 1, fake.reads)
	assert.Zero(t, fake.attempts)
}

func TestOperationsTagLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)
	inv := newFakeInventory(product("1", "", "a"))
	client, _, ref := memorySheets(t, [][]string{{"ID", "Extra Field 484"}})
	r := newReconciler(t, inv, reconciler.WithSheets(client), reconciler.WithLogger(tl.Logger))

	_, err := r.Load(context.Background())
	require.NoError(t, err)
	_, err = r.Export(context.Background(), ref, nil)
	require.NoError(t, err)
	_, _, err = r.Update(context.Background(), "1", "b")
	require.NoError(t, err)

	tl.AssertContains(t, `"operation":"load","inventory_id":833`)
	tl.AssertContains(t, `"operation":"export","inventory_id":833`)
	tl.AssertContains(t, `"operation":"update","product_id":"1"`)
}

func TestSheetOperations_RequireSheets(t *testing.T) {
	r := newReconciler(t, newFakeInventory(product("1", "", "")))
	ref := records.SheetRef{Spreadsheet: "key"}

	_, err := r.Export(context.Background(), ref, nil)
	assert.True(t, errors.IsNotConfigured(err))
	_, err = r.LoadSheet(context.Background(), ref)
	assert.True(t, errors.IsNotConfigured(err))
	_, err = r.Import(context.Background(), ref, "1")
	assert.True(t, errors.IsNotConfigured(err))
}

func TestLoadSheet_SchemaGuard(t *testing.T) {
	for _, headers := range [][]string{{"SKU", "Extra Field 484"}, {"id", "Name"}} {
		client, _, ref := memorySheets(t, [][]string{headers, {"1", "x"}})
		inv := newFakeInventory(product("1", "", ""))
		r := newReconciler(t, inv, reconciler.WithSheets(client))

		_, err := r.LoadSheet(context.Background(), ref)
		assert.True(t, errors.IsSchema(err), "headers %v: %v", headers, err)

		_, err = r.Import(context.Background(), ref, "1")
		assert.True(t, errors.IsSchema(err))
		assert.Empty(t, inv.calls())
	}
}

func TestImport(t *testing.T) {
	rows := [][]string{
		{"id", "EXTRA FIELD 484", "Inventory ID"},
		{"1", "from-sheet", ""},
		{"2", "other-scope", "900"},
		{"3", "bad-scope", "main"},
	}

	t.Run("default scope", func(t *testing.T) {
		client, _, ref := memorySheets(t, rows)
		inv := newFakeInventory(product("1", "", "old"))
		r := newReconciler(t, inv, reconciler.WithSheets(client))

		result, err := r.Import(context.Background(), ref, "1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"SUCCESS","product_id":"1"}`, string(result.Raw))
		assert.Equal(t, []setCall{{833, "1", "extra_field_484", "from-sheet"}}, inv.calls())
	})

	t.Run("row scope wins", func(t *testing.T) {
		client, _, ref := memorySheets(t, rows)
		inv := newFakeInventory(product("2", "", ""))
		r := newReconciler(t, inv, reconciler.WithSheets(client))

		_, err := r.Import(context.Background(), ref, "2")
		require.NoError(t, err)
		assert.Equal(t, 900, inv.calls()[0].InventoryID)
	})

	t.Run("invalid scope", func(t *testing.T) {
		client, _, ref := memorySheets(t, rows)
		inv := newFakeInventory(product("3", "", ""))
		r := newReconciler(t, inv, reconciler.WithSheets(client))

		_, err := r.Import(context.Background(), ref, "3")
		assert.True(t, errors.IsValidationError(err))
		assert.Empty(t, inv.calls())
	})

	t.Run("missing row", func(t *testing.T) {
		client, _, ref := memorySheets(t, rows)
		inv := newFakeInventory(product("42", "", ""))
		r := newReconciler(t, inv, reconciler.WithSheets(client))

		_, err := r.Import(context.Background(), ref, "42")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Equal(t, "42 not in sheet", err.Error())
		assert.Empty(t, inv.calls())
	})

	t.Run("remote failure passes through", func(t *testing.T) {
		client, _, ref := memorySheets(t, rows)
		inv := newFakeInventory(product("1", "", ""))
		inv.setErr = &errors.RemoteError{Method: "addInventoryProduct", Code: "ERROR_X"}
		r := newReconciler(t, inv, reconciler.WithSheets(client))

		_, err := r.Import(context.Background(), ref, "1")
		assert.True(t, errors.IsRemote(err))
	})
}
