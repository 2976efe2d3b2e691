package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestParseTimeFormat(t *testing.T) {
	assert.Equal(t, time.Kitchen, parseTimeFormat("kitchen"))
	assert.Equal(t, time.RFC3339, parseTimeFormat("RFC3339"))
	assert.Equal(t, "", parseTimeFormat("unix"))
	assert.Equal(t, "2006-01-02", parseTimeFormat("2006-01-02"))
	assert.Equal(t, time.Kitchen, parseTimeFormat("whatever"))
}

func TestParseFields(t *testing.T) {
	fields := ParseFields("service=sheetlink, env = dev,broken")
	assert.Equal(t, map[string]any{"service": "sheetlink", "env": "dev"}, fields)
	assert.Empty(t, ParseFields(""))
}

func TestNewLoggerFromConfig_FileOutput(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	path := filepath.Join(t.TempDir(), "sheetlink.log")
	logger := NewLoggerFromConfig(&Config{
		Level:  "info",
		Format: "auto",
		Output: path,
		Fields: map[string]any{"component": "test"},
	})
	logger.Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "test", entry["component"])
}

func TestNewLoggerFromConfig_Discard(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	logger := NewLoggerFromConfig(&Config{Output: "discard", Format: "auto"})
	assert.NotPanics(t, func() { logger.Info().Msg("dropped") })
}

func TestContextHelpers(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithInventory(ctx, 833)
	ctx = WithProduct(ctx, "12064368")
	ctx = WithSpreadsheet(ctx, "sheet-key")
	ctx = WithOperation(ctx, "import")

	Ctx(ctx).Info().Msg("working")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(tl.Lines()[0]), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.EqualValues(t, 833, entry["inventory_id"])
	assert.Equal(t, "12064368", entry["product_id"])
	assert.Equal(t, "sheet-key", entry["spreadsheet"])
	assert.Equal(t, "import", entry["operation"])
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestFromContext_Default(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // nil context is handled
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := CaptureLoggingForTest(t)
	Warn().Str("id", "42").Msg("unmatched product")

	assert.True(t, tl.Contains("unmatched product"))
	assert.Len(t, tl.Lines(), 1)
	assert.True(t, strings.Contains(tl.Output(), `"level":"warn"`))
}
