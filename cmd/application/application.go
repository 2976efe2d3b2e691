// Package application provides the application interface for sheetlink commands
// and the dashboard server.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            rec, err := app.Reconciler()
//	            if err != nil {
//	                return err
//	            }
//	            snap, err := rec.Load(cmd.Context())
//	            // ... render snap
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    ReconcilerFunc: func() (application.Reconciler, error) {
//	        return fakeReconciler, nil
//	    },
//	}
package application

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/agentstation/sheetlink/internal/auth/google"
	"github.com/agentstation/sheetlink/internal/inventory"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Reconciler is the sync surface used by commands and the dashboard.
// *reconciler.Reconciler implements it.
type Reconciler interface {
	Config() reconciler.Config
	Load(ctx context.Context) (*reconciler.Snapshot, error)
	Update(ctx context.Context, productID, value string) (*records.WriteResult, *reconciler.Snapshot, error)
	Export(ctx context.Context, ref records.SheetRef, snap *reconciler.Snapshot) (*reconciler.ExportResult, error)
	LoadSheet(ctx context.Context, ref records.SheetRef) (*records.Table, error)
	Import(ctx context.Context, ref records.SheetRef, productID string) (*records.WriteResult, error)
}

// InventoryLister lists the inventories visible to the configured token.
// *inventory.Client implements it.
type InventoryLister interface {
	ListInventories(ctx context.Context) ([]inventory.Inventory, error)
}

// Authorizer manages the spreadsheet capability.
// *google.Provider implements it.
type Authorizer interface {
	Check() *google.Status
	Login(ctx context.Context, openURL func(string)) (*oauth2.Token, error)
}

// Application provides the application interface that commands need.
// The App struct from cmd/sheetlink/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Reconciler returns the lazily built reconciler. Spreadsheet setup
	// failures do not fail this call; they surface from the sheet operations.
	Reconciler() (Reconciler, error)

	// Inventories returns the inventory client for catalog discovery.
	Inventories() (InventoryLister, error)

	// Authorizer returns the spreadsheet credential manager.
	Authorizer() Authorizer

	// SheetRef resolves a spreadsheet and worksheet, falling back to the
	// configured defaults for empty arguments.
	SheetRef(spreadsheet, worksheet string) (records.SheetRef, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, wide, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
