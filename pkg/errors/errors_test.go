package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/sheetlink/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "worksheet", ID: "Sheet9"}
		assert.Equal(t, "worksheet with ID Sheet9 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("scoped message", func(t *testing.T) {
		err := pkgerrors.NewNotInError("row", "12064368", "sheet")
		assert.Equal(t, "12064368 not in sheet", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("import: %w", pkgerrors.NewNotFoundError("spreadsheet", "abc"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestRemoteError(t *testing.T) {
	t.Run("includes raw body", func(t *testing.T) {
		err := &pkgerrors.RemoteError{
			Method:  "addInventoryProduct",
			Status:  "ERROR",
			Code:    "ERROR_PRODUCT_ID",
			Message: "Invalid product identifier",
			Body:    []byte(`{"status":"ERROR"}`),
		}
		msg := err.Error()
		assert.Contains(t, msg, "addInventoryProduct")
		assert.Contains(t, msg, "ERROR_PRODUCT_ID")
		assert.Contains(t, msg, "Invalid product identifier")
		assert.Contains(t, msg, `{"status":"ERROR"}`)
		assert.True(t, pkgerrors.IsRemote(err))
	})

	t.Run("http status and unwrap", func(t *testing.T) {
		base := errors.New("bad gateway")
		err := &pkgerrors.RemoteError{HTTPStatus: 502, Err: base}
		assert.Contains(t, err.Error(), "http 502")
		assert.Equal(t, base, err.Unwrap())
	})
}

func TestAuthError(t *testing.T) {
	base := errors.New("invalid_grant")
	err := pkgerrors.NewAuthError("google-sheets", "token", "refresh failed", "run `sheetlink auth login`", base)

	assert.Contains(t, err.Error(), "google-sheets")
	assert.Contains(t, err.Error(), "refresh failed")
	assert.Contains(t, err.Error(), "sheetlink auth login")
	assert.True(t, pkgerrors.IsAuth(err))
	assert.True(t, errors.Is(err, base))
}

func TestSchemaError(t *testing.T) {
	err := pkgerrors.NewSchemaError("sheet", []string{"ID", "Extra Field 484"})
	assert.Equal(t, "required columns missing from sheet: ID, Extra Field 484", err.Error())
	assert.True(t, pkgerrors.IsSchema(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestParseError(t *testing.T) {
	base := errors.New("unexpected EOF")
	err := pkgerrors.WrapParse("csv", "upload.csv", base)

	var parseErr *pkgerrors.ParseError
	require.True(t, pkgerrors.As(err, &parseErr))
	assert.Equal(t, "csv", parseErr.Format)
	assert.Contains(t, err.Error(), "upload.csv")
	assert.True(t, pkgerrors.IsParse(err))

	assert.Nil(t, pkgerrors.WrapParse("csv", "x", nil))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("reconciler", "spreadsheet client not configured", nil)
	assert.Contains(t, err.Error(), "reconciler")
	assert.True(t, pkgerrors.IsNotConfigured(err))
}

func TestIOError(t *testing.T) {
	baseErr := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "token.json", baseErr)

	ioErr, ok := err.(*pkgerrors.IOError)
	require.True(t, ok)
	assert.Equal(t, "write", ioErr.Operation)
	assert.Equal(t, baseErr, ioErr.Unwrap())
	assert.Nil(t, pkgerrors.WrapIO("write", "x", nil))
}

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("inventory_id", "abc", "must be numeric")
	assert.Equal(t, "validation failed for field inventory_id: must be numeric", err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short body", pkgerrors.Excerpt([]byte("short body")))

	long := strings.Repeat("a", 511) + "ż" + strings.Repeat("b", 100)
	got := pkgerrors.Excerpt([]byte(long))
	assert.Equal(t, strings.Repeat("a", 511)+"...", got)

	err := &pkgerrors.RemoteError{Method: "getInventories", Body: []byte(strings.Repeat("x", 1<<20))}
	assert.Less(t, len(err.Error()), 1024)
}
