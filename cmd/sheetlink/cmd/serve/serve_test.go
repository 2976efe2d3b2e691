package serve

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetlink/cmd/application"
	appmock "github.com/agentstation/sheetlink/internal/cmd/application"
	"github.com/agentstation/sheetlink/pkg/errors"
)

func parsed(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := NewCommand(&appmock.Mock{})
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestParseConfig(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("HTTP_HOST", "")
	t.Setenv(APIKeyEnv, "")

	t.Run("defaults", func(t *testing.T) {
		cmd := parsed(t)
		cfg, err := parseConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "/api/v1", cfg.PathPrefix)
		assert.Equal(t, "X-API-Key", cfg.AuthHeader)
		assert.False(t, cfg.AuthEnabled)
		assert.Empty(t, cfg.Worksheet)
	})

	t.Run("flags", func(t *testing.T) {
		cmd := parsed(t, "--port", "9090", "--host", "0.0.0.0", "--auth", "--api-key", "k",
			"--write-timeout", "5s", "--worksheet", "Products")
		cfg, err := parseConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "0.0.0.0", cfg.Host)
		assert.True(t, cfg.AuthEnabled)
		assert.Equal(t, "k", cfg.APIKey)
		assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
		assert.Equal(t, "Products", cfg.Worksheet)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "7070")
		t.Setenv("HTTP_HOST", "127.0.0.1")
		t.Setenv(APIKeyEnv, "from-env")
		cmd := parsed(t, "--auth")
		cfg, err := parseConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Port)
		assert.Equal(t, "127.0.0.1", cfg.Host)
		assert.Equal(t, "from-env", cfg.APIKey)
	})

	t.Run("flag beats environment", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "7070")
		cmd := parsed(t, "--port", "9999")
		cfg, err := parseConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 9999, cfg.Port)
	})

	t.Run("bad port in environment", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "eighty")
		cmd := parsed(t)
		_, err := parseConfig(cmd)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("auth without key", func(t *testing.T) {
		cmd := parsed(t, "--auth")
		_, err := parseConfig(cmd)
		assert.True(t, errors.IsNotConfigured(err))
	})
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"8080", 8080, false},
		{"0", 0, false},
		{"65536", 0, true},
		{"-1", 0, true},
		{"http", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePort(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("HTTP_HOST", "")
	app := &appmock.Mock{
		ReconcilerFunc: func() (application.Reconciler, error) { return &appmock.MockReconciler{}, nil },
	}
	cmd := NewCommand(app)
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--host", "127.0.0.1", "--port", "0"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd.SetContext(ctx)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "Dashboard on http://127.0.0.1:0/")
}

func TestServeWithoutReconciler(t *testing.T) {
	cmd := NewCommand(&appmock.Mock{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--port", "0"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsNotConfigured(err))
}
