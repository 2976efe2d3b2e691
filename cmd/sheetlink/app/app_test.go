package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetlink/internal/auth/google"
	"github.com/agentstation/sheetlink/internal/sheets"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/logging"
)

const key = "1AbCdEfGhIjKlMnOp"

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		APIURL:            "http://127.0.0.1:1/connector.php",
		Token:             "token",
		AuthMode:          AuthModeForm,
		InventoryID:       833,
		TargetProductID:   "12064368",
		TargetField:       "extra_field_484",
		DisplayField:      "extra_field_483",
		Spreadsheet:       key,
		Worksheet:         "0",
		GoogleCredentials: filepath.Join(dir, "credentials.json"),
		GoogleToken:       filepath.Join(dir, "token.json"),
		LogFormat:         "json",
		LogOutput:         "discard",
	}
}

func newTestApp(t *testing.T, cfg *Config, opts ...Option) *App {
	t.Helper()
	isolate(t)
	opts = append([]Option{WithConfig(cfg), WithLogger(logging.NewNopLogger())}, opts...)
	a, err := New("1.2.3", "abc123", "2026-10-16", "test", opts...)
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	assert.Equal(t, "1.2.3", a.Version())
	assert.Equal(t, "abc123", a.Commit())
	assert.Equal(t, "2026-10-16", a.Date())
	assert.Equal(t, "test", a.BuiltBy())
	assert.NotNil(t, a.Logger())
	assert.Equal(t, 833, a.Config().InventoryID)
	assert.NoError(t, a.Shutdown(context.Background()))
}

func TestInventories(t *testing.T) {
	t.Run("requires token", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Token = ""
		_, err := newTestApp(t, cfg).Inventories()
		assert.True(t, errors.IsNotConfigured(err))
	})

	t.Run("rejects unknown auth mode", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.AuthMode = "basic"
		_, err := newTestApp(t, cfg).Inventories()
		assert.True(t, errors.IsNotConfigured(err))
	})

	t.Run("built once", func(t *testing.T) {
		for _, mode := range []string{AuthModeForm, AuthModeHeader} {
			cfg := testConfig(t)
			cfg.AuthMode = mode
			a := newTestApp(t, cfg)
			first, err := a.Inventories()
			require.NoError(t, err)
			second, err := a.Inventories()
			require.NoError(t, err)
			assert.Same(t, first, second)
		}
	})
}

func TestSheetRef(t *testing.T) {
	cfg := testConfig(t)
	cfg.Worksheet = "Products"
	a := newTestApp(t, cfg)

	ref, err := a.SheetRef("", "")
	require.NoError(t, err)
	assert.Equal(t, key, ref.Spreadsheet)
	assert.Equal(t, "Products", ref.Worksheet.Name)

	ref, err = a.SheetRef("https://docs.google.com/spreadsheets/d/Other_Key-1/edit", "2")
	require.NoError(t, err)
	assert.Equal(t, "Other_Key-1", ref.Spreadsheet)
	assert.Equal(t, 2, ref.Worksheet.Index)

	cfg.Spreadsheet = ""
	_, err = a.SheetRef("", "")
	assert.True(t, errors.IsValidationError(err))
}

func TestReconciler(t *testing.T) {
	t.Run("uses configured scope", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.InventoryID = 901
		backend := sheets.NewMemoryBackend()
		a := newTestApp(t, cfg, WithSheets(sheets.New(backend, logging.NewNopLogger())))

		rec, err := a.Reconciler()
		require.NoError(t, err)
		assert.Equal(t, 901, rec.Config().InventoryID)

		again, err := a.Reconciler()
		require.NoError(t, err)
		assert.Same(t, rec, again)
	})

	t.Run("missing spreadsheet credentials surface on sheet use", func(t *testing.T) {
		a := newTestApp(t, testConfig(t))
		rec, err := a.Reconciler()
		require.NoError(t, err)

		ref, err := a.SheetRef("", "")
		require.NoError(t, err)
		_, err = rec.LoadSheet(context.Background(), ref)
		require.Error(t, err)
		assert.True(t, errors.IsAuth(err), "got %v", err)
	})

	t.Run("invalid scope", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.InventoryID = 0
		_, err := newTestApp(t, cfg).Reconciler()
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestAuthorizer(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	auth := a.Authorizer()
	require.NotNil(t, auth)
	assert.Equal(t, google.StateMissing, auth.Check().State)
	assert.Same(t, auth, a.Authorizer())
}
