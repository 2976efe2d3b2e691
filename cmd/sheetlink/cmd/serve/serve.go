// Package serve provides the dashboard server command.
package serve

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/server"
	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
)

// APIKeyEnv is read when --api-key is not given.
const APIKeyEnv = "SHEETLINK_API_KEY"

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server", "dashboard"},
		GroupID: "core",
		Short:   "Start the web dashboard and JSON API",
		Long: `Start the web dashboard for viewing and editing the product catalog.

The dashboard at / shows the product table and forms to edit the target
attribute, export to and import from Google Sheets, and preview uploaded
CSV or XLSX files. The same operations are available as JSON endpoints
under the API prefix.

Environment Variables:
  HTTP_PORT           - Override the listen port
  HTTP_HOST           - Override the bind address
  SHEETLINK_API_KEY   - API key used when --auth is set`,
		Example: `  # Start on the default port 8080
  sheetlink serve

  # Bind all interfaces and require an API key
  SHEETLINK_API_KEY=secret sheetlink serve --host 0.0.0.0 --auth

  # Default to a specific worksheet
  sheetlink serve --spreadsheet https://docs.google.com/spreadsheets/d/<key>/edit --worksheet Products`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd, app, cfg)
		},
	}

	cmd.Flags().Int("port", defaults.Port, "Server port")
	cmd.Flags().String("host", defaults.Host, "Bind address")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")

	cmd.Flags().Bool("auth", false, "Require an API key on every request except health checks")
	cmd.Flags().String("api-key", "", "API key (default: $"+APIKeyEnv+")")
	cmd.Flags().String("auth-header", defaults.AuthHeader, "Authentication header name")

	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")
	cmd.Flags().Int64("max-upload", constants.MaxUploadBytes, "Largest accepted preview upload in bytes")

	cmd.Flags().String("spreadsheet", "", "Default spreadsheet URL or key (default: configured spreadsheet)")
	cmd.Flags().String("worksheet", "", "Default worksheet title or index (default: configured worksheet)")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, cfg server.Config) error {
	logger := app.Logger()

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info().
		Str("addr", srv.Addr()).
		Str("prefix", cfg.PathPrefix).
		Bool("auth", cfg.AuthEnabled).
		Msg("Starting dashboard")

	fmt.Fprintf(cmd.ErrOrStderr(), "Dashboard on http://%s/\nPress Ctrl+C to stop\n", srv.Addr())
	if err := srv.ListenAndServe(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Dashboard stopped")
	return nil
}

// parseConfig parses command flags into server configuration.
func parseConfig(cmd *cobra.Command) (server.Config, error) {
	cfg := server.Config{
		Host:           mustGetString(cmd, "host"),
		Port:           mustGetInt(cmd, "port"),
		PathPrefix:     mustGetString(cmd, "prefix"),
		AuthEnabled:    mustGetBool(cmd, "auth"),
		AuthHeader:     mustGetString(cmd, "auth-header"),
		APIKey:         mustGetString(cmd, "api-key"),
		ReadTimeout:    mustGetDuration(cmd, "read-timeout"),
		WriteTimeout:   mustGetDuration(cmd, "write-timeout"),
		IdleTimeout:    mustGetDuration(cmd, "idle-timeout"),
		MaxUploadBytes: mustGetInt64(cmd, "max-upload"),
		Spreadsheet:    mustGetString(cmd, "spreadsheet"),
		Worksheet:      mustGetString(cmd, "worksheet"),
	}

	// Override with environment variables
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" && !cmd.Flags().Changed("port") {
		p, err := parsePort(envPort)
		if err != nil {
			return cfg, err
		}
		cfg.Port = p
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" && !cmd.Flags().Changed("host") {
		cfg.Host = envHost
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(APIKeyEnv)
	}

	if cfg.AuthEnabled && cfg.APIKey == "" {
		return cfg, errors.NewConfigError("serve", "--auth requires --api-key or $"+APIKeyEnv, nil)
	}
	return cfg, nil
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, errors.NewValidationError("port", portStr, "invalid port number")
	}
	if port < 0 || port > 65535 {
		return 0, errors.NewValidationError("port", port, "port out of range")
	}
	return port, nil
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not defined: %v", name, err))
	}
	return val
}

func mustGetInt64(cmd *cobra.Command, name string) int64 {
	val, err := cmd.Flags().GetInt64(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not defined: %v", name, err))
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not defined: %v", name, err))
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not defined: %v", name, err))
	}
	return val
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not defined: %v", name, err))
	}
	return val
}
