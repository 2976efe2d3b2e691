// Package app provides the application context and dependency management
// for the sheetlink CLI. It centralizes configuration, logging, and the
// lazily built inventory, spreadsheet and reconciler clients.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/auth/google"
	"github.com/agentstation/sheetlink/internal/inventory"
	"github.com/agentstation/sheetlink/internal/sheets"
	"github.com/agentstation/sheetlink/internal/transport"
	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

// App represents the sheetlink application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazily built, guarded by mu
	mu         sync.Mutex
	inventory  *inventory.Client
	sheets     reconciler.Sheets
	reconciler application.Reconciler
	authorizer *google.Provider
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// SheetRef resolves a spreadsheet and worksheet, falling back to the
// configured defaults.
func (a *App) SheetRef(spreadsheet, worksheet string) (records.SheetRef, error) {
	if spreadsheet == "" {
		spreadsheet = a.config.Spreadsheet
	}
	if worksheet == "" {
		worksheet = a.config.Worksheet
	}
	return records.NewSheetRef(spreadsheet, worksheet)
}

// Authorizer returns the Google credential manager.
func (a *App) Authorizer() application.Authorizer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.provider()
}

func (a *App) provider() *google.Provider {
	if a.authorizer == nil {
		a.authorizer = google.NewProvider(a.config.GoogleCredentials, a.config.GoogleToken, a.logger)
	}
	return a.authorizer
}

// Inventories returns the inventory client.
func (a *App) Inventories() (application.InventoryLister, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inventoryClient()
}

func (a *App) inventoryClient() (*inventory.Client, error) {
	if a.inventory != nil {
		return a.inventory, nil
	}
	if a.config.Token == "" {
		return nil, errors.NewConfigError("inventory", "no API token configured (set BASELINKER_TOKEN)", nil)
	}

	var auth transport.Authenticator
	switch a.config.AuthMode {
	case "", AuthModeForm:
		auth = &transport.FormAuth{}
	case AuthModeHeader:
		auth = &transport.HeaderAuth{Header: constants.TokenHeader}
	default:
		return nil, errors.NewConfigError("inventory", "auth_mode must be form or header, got "+a.config.AuthMode, nil)
	}

	a.inventory = inventory.New(a.config.APIURL, a.config.Token,
		inventory.WithTransport(transport.New(auth, transport.WithTimeout(a.config.HTTPTimeout))),
		inventory.WithLogger(a.logger),
	)
	return a.inventory, nil
}

// sheetsClient builds the Google-backed spreadsheet client. When the
// credentials are unusable the client is built on a backend that reports
// that failure, so inventory-only commands keep working.
func (a *App) sheetsClient(ctx context.Context) reconciler.Sheets {
	if a.sheets != nil {
		return a.sheets
	}

	var backend sheets.Backend
	ts, err := a.provider().TokenSource(ctx)
	if err == nil {
		backend, err = sheets.NewGoogleBackend(ctx, ts)
	}
	if err != nil {
		a.logger.Debug().Err(err).Msg("Spreadsheet access unavailable")
		backend = sheets.NewUnavailableBackend(err)
	}

	a.sheets = sheets.New(backend, a.logger)
	return a.sheets
}

// Reconciler returns the reconciler, creating it lazily if needed.
func (a *App) Reconciler() (application.Reconciler, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reconciler != nil {
		return a.reconciler, nil
	}

	inv, err := a.inventoryClient()
	if err != nil {
		return nil, err
	}
	rec, err := reconciler.New(inv, a.config.Reconciler(),
		reconciler.WithSheets(a.sheetsClient(context.Background())),
		reconciler.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.reconciler = rec
	return rec, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSheets sets the spreadsheet client (useful for testing).
func WithSheets(s reconciler.Sheets) Option {
	return func(a *App) error {
		a.sheets = s
		return nil
	}
}

// WithReconciler sets a prebuilt reconciler (useful for testing).
func WithReconciler(r application.Reconciler) Option {
	return func(a *App) error {
		a.reconciler = r
		return nil
	}
}
