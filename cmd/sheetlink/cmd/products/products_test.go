package products

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetlink/cmd/application"
	appmock "github.com/agentstation/sheetlink/internal/cmd/application"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

func snapshot(value string) *reconciler.Snapshot {
	return &reconciler.Snapshot{
		InventoryID: 833,
		Rows: []records.Row{
			{ID: "12064368", SKU: "SKU-1", Name: "Widget", Fields: map[string]string{"extra_field_484": value, "extra_field_483": "Blue"}},
			{ID: "500", SKU: "SKU-2", Name: "Gadget", Fields: map[string]string{}},
		},
	}
}

func run(t *testing.T, app application.Application, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mockApp(rec *appmock.MockReconciler, format string) *appmock.Mock {
	return &appmock.Mock{
		ReconcilerFunc:   func() (application.Reconciler, error) { return rec, nil },
		OutputFormatFunc: func() string { return format },
	}
}

func TestList(t *testing.T) {
	rec := &appmock.MockReconciler{
		LoadFunc: func(context.Context) (*reconciler.Snapshot, error) {
			snap := snapshot("Large")
			snap.Unmatched = []string{"777"}
			return snap, nil
		},
	}

	t.Run("table", func(t *testing.T) {
		stdout, stderr, err := run(t, mockApp(rec, "table"), "", "list")
		require.NoError(t, err)
		assert.Contains(t, stdout, "12064368")
		assert.Contains(t, stdout, "Widget")
		assert.Contains(t, stdout, "Large")
		assert.Contains(t, stderr, "777")
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := run(t, mockApp(rec, "json"), "", "list")
		require.NoError(t, err)
		assert.Contains(t, stdout, `"inventory_id": 833`)
		assert.Contains(t, stdout, `"Large"`)
	})

	t.Run("load error", func(t *testing.T) {
		failing := &appmock.MockReconciler{
			LoadFunc: func(context.Context) (*reconciler.Snapshot, error) {
				return nil, &errors.RemoteError{Method: "getInventoryProductsList", Code: "ERROR_BAD_TOKEN"}
			},
		}
		_, _, err := run(t, mockApp(failing, "table"), "", "list")
		require.Error(t, err)
		assert.True(t, errors.IsRemote(err))
	})

	t.Run("not configured", func(t *testing.T) {
		_, _, err := run(t, &appmock.Mock{}, "", "list")
		assert.True(t, errors.IsNotConfigured(err))
	})
}

func TestUpdate(t *testing.T) {
	var gotID, gotValue string
	rec := &appmock.MockReconciler{
		LoadFunc: func(context.Context) (*reconciler.Snapshot, error) {
			return snapshot("Small"), nil
		},
		UpdateFunc: func(_ context.Context, productID, value string) (*records.WriteResult, *reconciler.Snapshot, error) {
			gotID, gotValue = productID, value
			return &records.WriteResult{Status: "SUCCESS", Raw: json.RawMessage(`{"status":"SUCCESS"}`)}, snapshot(value), nil
		},
	}

	t.Run("value argument targets configured product", func(t *testing.T) {
		stdout, _, err := run(t, mockApp(rec, "table"), "", "update", "Large")
		require.NoError(t, err)
		assert.Equal(t, "12064368", gotID)
		assert.Equal(t, "Large", gotValue)
		assert.Contains(t, stdout, "Update succeeded")
		assert.Contains(t, stdout, `"Large"`)
	})

	t.Run("product flag", func(t *testing.T) {
		_, _, err := run(t, mockApp(rec, "table"), "", "update", "--product", "500", "Tiny")
		require.NoError(t, err)
		assert.Equal(t, "500", gotID)
		assert.Equal(t, "Tiny", gotValue)
	})

	t.Run("prompts on stdin", func(t *testing.T) {
		_, stderr, err := run(t, mockApp(rec, "table"), "Medium\n", "update")
		require.NoError(t, err)
		assert.Equal(t, "Medium", gotValue)
		assert.Contains(t, stderr, `currently "Small"`)
	})

	t.Run("json output", func(t *testing.T) {
		stdout, _, err := run(t, mockApp(rec, "json"), "", "update", "XL")
		require.NoError(t, err)
		assert.Contains(t, stdout, `"product_id": "12064368"`)
		assert.Contains(t, stdout, `"value": "XL"`)
	})

	t.Run("remote rejection", func(t *testing.T) {
		failing := &appmock.MockReconciler{
			UpdateFunc: func(context.Context, string, string) (*records.WriteResult, *reconciler.Snapshot, error) {
				return nil, nil, &errors.RemoteError{Method: "addInventoryProduct", Code: "ERROR_PRODUCT_ID"}
			},
		}
		_, _, err := run(t, mockApp(failing, "table"), "", "update", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ERROR_PRODUCT_ID")
	})

	t.Run("reload failure after write", func(t *testing.T) {
		partial := &appmock.MockReconciler{
			UpdateFunc: func(context.Context, string, string) (*records.WriteResult, *reconciler.Snapshot, error) {
				return &records.WriteResult{Status: "SUCCESS"}, nil, errors.New("connection reset")
			},
		}
		stdout, _, err := run(t, mockApp(partial, "table"), "", "update", "x")
		require.Error(t, err)
		assert.Contains(t, stdout, "Update succeeded")
		assert.Contains(t, err.Error(), "reload after update failed")
	})
}
