package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmock "github.com/agentstation/sheetlink/internal/cmd/application"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

func executeRoot(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := a.createRootCommand()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestVersionCommand(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := executeRoot(t, a, "version")
	require.NoError(t, err)
	assert.Equal(t, "sheetlink 1.2.3\n", out)

	out, err = executeRoot(t, a, "version", "-v", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:   abc123")
	assert.Contains(t, out, "built by: test")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestApp(t, testConfig(t)).createRootCommand()
	for _, name := range []string{"products", "sheet", "preview", "serve", "inventories", "auth", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	rec := &appmock.MockReconciler{
		LoadFunc: func(context.Context) (*reconciler.Snapshot, error) {
			return &reconciler.Snapshot{InventoryID: 833, Rows: []records.Row{{ID: "12064368", Name: "Widget"}}}, nil
		},
	}

	t.Run("format flag reaches commands", func(t *testing.T) {
		a := newTestApp(t, testConfig(t), WithReconciler(rec))
		out, err := executeRoot(t, a, "products", "list", "-o", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"inventory_id": 833`)
		assert.Equal(t, "json", a.OutputFormat())
	})

	t.Run("invalid format", func(t *testing.T) {
		a := newTestApp(t, testConfig(t), WithReconciler(rec))
		_, err := executeRoot(t, a, "products", "list", "-o", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})

	t.Run("quiet flag", func(t *testing.T) {
		a := newTestApp(t, testConfig(t), WithReconciler(rec))
		_, err := executeRoot(t, a, "products", "list", "-q", "-o", "yaml")
		require.NoError(t, err)
		assert.True(t, a.Config().Quiet)
	})

	t.Run("missing config file", func(t *testing.T) {
		a := newTestApp(t, testConfig(t), WithReconciler(rec))
		_, err := executeRoot(t, a, "version", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
