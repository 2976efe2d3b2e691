// Package application provides test doubles for the command application interface.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Mock provides a mock implementation of application.Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    ReconcilerFunc: func() (application.Reconciler, error) {
//	        return fake, nil
//	    },
//	}
//	cmd := products.NewCommand(mock)
type Mock struct {
	ReconcilerFunc   func() (application.Reconciler, error)
	InventoriesFunc  func() (application.InventoryLister, error)
	AuthorizerFunc   func() application.Authorizer
	SheetRefFunc     func(spreadsheet, worksheet string) (records.SheetRef, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

var _ application.Application = (*Mock)(nil)

// Reconciler returns a reconciler using the mock function or a configuration error.
func (m *Mock) Reconciler() (application.Reconciler, error) {
	if m.ReconcilerFunc != nil {
		return m.ReconcilerFunc()
	}
	return nil, errors.NewConfigError("mock", "no reconciler", nil)
}

// Inventories returns an inventory lister using the mock function or a configuration error.
func (m *Mock) Inventories() (application.InventoryLister, error) {
	if m.InventoriesFunc != nil {
		return m.InventoriesFunc()
	}
	return nil, errors.NewConfigError("mock", "no inventory client", nil)
}

// Authorizer returns an authorizer using the mock function or nil.
func (m *Mock) Authorizer() application.Authorizer {
	if m.AuthorizerFunc != nil {
		return m.AuthorizerFunc()
	}
	return nil
}

// SheetRef resolves a sheet reference using the mock function or records.NewSheetRef.
func (m *Mock) SheetRef(spreadsheet, worksheet string) (records.SheetRef, error) {
	if m.SheetRefFunc != nil {
		return m.SheetRefFunc(spreadsheet, worksheet)
	}
	return records.NewSheetRef(spreadsheet, worksheet)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
