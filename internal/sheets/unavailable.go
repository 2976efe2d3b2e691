package sheets

import "context"

// UnavailableBackend fails every call with the error that prevented a real
// backend from being built, typically a missing or revoked authorization.
// It lets inventory-only operations run while sheet operations report why
// they cannot.
type UnavailableBackend struct {
	Err error
}

// NewUnavailableBackend returns a Backend that always fails with err.
func NewUnavailableBackend(err error) *UnavailableBackend {
	return &UnavailableBackend{Err: err}
}

// SheetTitles implements Backend.
func (u *UnavailableBackend) SheetTitles(context.Context, string) ([]string, error) {
	return nil, u.Err
}

// Values implements Backend.
func (u *UnavailableBackend) Values(context.Context, string, string) ([][]string, error) {
	return nil, u.Err
}

// UpdateCell implements Backend.
func (u *UnavailableBackend) UpdateCell(context.Context, string, string, int, int, string) error {
	return u.Err
}

// AppendRow implements Backend.
func (u *UnavailableBackend) AppendRow(context.Context, string, string, []string) error {
	return u.Err
}
