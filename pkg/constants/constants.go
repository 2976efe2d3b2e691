// Package constants provides shared constants used throughout the sheetlink codebase.
// This includes the default inventory scope and field keys, timeouts, file
// permissions, and column labels that must agree between the CLI and the dashboard.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the inventory API
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// LoginTimeout bounds how long the OAuth loopback listener waits for consent
	LoginTimeout = 5 * time.Minute

	// ShutdownTimeout is how long the dashboard waits for in-flight requests
	ShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like OAuth tokens (rw-------)
	SecureFilePermissions = 0600
)

// Inventory defaults
const (
	// DefaultAPIURL is the inventory platform's method-dispatch endpoint
	DefaultAPIURL = "https://api.baselinker.com/connector.php"

	// DefaultInventoryID is the inventory catalog scope used when none is configured
	DefaultInventoryID = 833

	// DefaultTargetProductID is the product the single-field edit targets
	DefaultTargetProductID = "12064368"

	// DefaultTargetField is the editable extra attribute key
	DefaultTargetField = "extra_field_484"

	// DefaultDisplayField is shown next to the target field
	DefaultDisplayField = "extra_field_483"

	// StatusSuccess is the envelope status of a successful API call
	StatusSuccess = "SUCCESS"

	// TokenHeader is the header name used when the token travels as a header
	TokenHeader = "X-BLToken"
)

// DefaultExtraFields lists the auxiliary attributes flattened into each row.
var DefaultExtraFields = []string{"extra_field_467", "description_extra1", "description_extra2"}

// Column labels
const (
	// ColumnID is the required identifier column of a sheet
	ColumnID = "ID"

	// ColumnSKU is the SKU column
	ColumnSKU = "SKU"

	// ColumnEAN is the EAN column
	ColumnEAN = "EAN"

	// ColumnName is the product name column
	ColumnName = "Name"

	// ColumnInventoryID is the optional per-row inventory override
	ColumnInventoryID = "Inventory ID"
)

// Spreadsheet defaults
const (
	// DefaultCredentialsFile is the OAuth client-secret file
	DefaultCredentialsFile = "credentials.json"

	// DefaultTokenFile is where the authorized OAuth token is persisted
	DefaultTokenFile = "token.json"

	// ScopeSpreadsheets grants read/write access to spreadsheets
	ScopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"

	// ScopeDrive lets spreadsheets be opened by URL or key
	ScopeDrive = "https://www.googleapis.com/auth/drive"
)

// Limit constants
const (
	// MaxUploadBytes bounds an uploaded preview file (10 MB)
	MaxUploadBytes = 10 << 20

	// MaxResponseBytes bounds an inventory response body (32 MB)
	MaxResponseBytes = 32 << 20
)

// Path constants
const (
	// DefaultConfigName is the config file base name looked up in $HOME and the working directory
	DefaultConfigName = ".sheetlink"
)

// Format constants
const (
	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
