package application

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/auth/google"
	"github.com/agentstation/sheetlink/internal/inventory"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

// MockReconciler implements application.Reconciler with function fields.
// Nil functions return zero values, except Config which returns the
// default configuration.
type MockReconciler struct {
	ConfigFunc    func() reconciler.Config
	LoadFunc      func(ctx context.Context) (*reconciler.Snapshot, error)
	UpdateFunc    func(ctx context.Context, productID, value string) (*records.WriteResult, *reconciler.Snapshot, error)
	ExportFunc    func(ctx context.Context, ref records.SheetRef, snap *reconciler.Snapshot) (*reconciler.ExportResult, error)
	LoadSheetFunc func(ctx context.Context, ref records.SheetRef) (*records.Table, error)
	ImportFunc    func(ctx context.Context, ref records.SheetRef, productID string) (*records.WriteResult, error)
}

var _ application.Reconciler = (*MockReconciler)(nil)

// Config returns the mock configuration.
func (m *MockReconciler) Config() reconciler.Config {
	if m.ConfigFunc != nil {
		return m.ConfigFunc()
	}
	return reconciler.DefaultConfig()
}

// Load calls LoadFunc.
func (m *MockReconciler) Load(ctx context.Context) (*reconciler.Snapshot, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return &reconciler.Snapshot{}, nil
}

// Update calls UpdateFunc.
func (m *MockReconciler) Update(ctx context.Context, productID, value string) (*records.WriteResult, *reconciler.Snapshot, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, productID, value)
	}
	return nil, nil, nil
}

// Export calls ExportFunc.
func (m *MockReconciler) Export(ctx context.Context, ref records.SheetRef, snap *reconciler.Snapshot) (*reconciler.ExportResult, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, ref, snap)
	}
	return &reconciler.ExportResult{Sheet: ref}, nil
}

// LoadSheet calls LoadSheetFunc.
func (m *MockReconciler) LoadSheet(ctx context.Context, ref records.SheetRef) (*records.Table, error) {
	if m.LoadSheetFunc != nil {
		return m.LoadSheetFunc(ctx, ref)
	}
	return nil, errors.NewConfigError("mock", "no sheet", nil)
}

// Import calls ImportFunc.
func (m *MockReconciler) Import(ctx context.Context, ref records.SheetRef, productID string) (*records.WriteResult, error) {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, ref, productID)
	}
	return nil, nil
}

// MockInventories implements application.InventoryLister.
type MockInventories struct {
	ListFunc func(ctx context.Context) ([]inventory.Inventory, error)
}

// ListInventories calls ListFunc.
func (m *MockInventories) ListInventories(ctx context.Context) ([]inventory.Inventory, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// MockAuthorizer implements application.Authorizer.
type MockAuthorizer struct {
	CheckFunc func() *google.Status
	LoginFunc func(ctx context.Context, openURL func(string)) (*oauth2.Token, error)
}

// Check calls CheckFunc or reports a missing credential.
func (m *MockAuthorizer) Check() *google.Status {
	if m.CheckFunc != nil {
		return m.CheckFunc()
	}
	return &google.Status{State: google.StateMissing}
}

// Login calls LoginFunc.
func (m *MockAuthorizer) Login(ctx context.Context, openURL func(string)) (*oauth2.Token, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, openURL)
	}
	return nil, errors.NewConfigError("mock", "login not configured", nil)
}
