// Package errors provides custom error types for the sheetlink system.
// These errors let callers check failure kinds programmatically while still
// surfacing the raw upstream payload to operators.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Sentinel errors for the sheetlink system.
var (
	// ErrNotFound indicates that a spreadsheet, worksheet, or row lookup missed.
	ErrNotFound = errors.New("not found")

	// ErrRemote indicates any non-success response from the inventory API.
	ErrRemote = errors.New("remote error")

	// ErrAuth indicates a missing, expired, or invalid spreadsheet credential.
	ErrAuth = errors.New("authentication required")

	// ErrSchema indicates required columns are absent from a loaded table.
	ErrSchema = errors.New("schema mismatch")

	// ErrParse indicates an unreadable payload or uploaded file.
	ErrParse = errors.New("parse error")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates that a required collaborator was not configured.
	ErrNotConfigured = errors.New("not configured")
)

// NotFoundError represents a lookup miss.
type NotFoundError struct {
	Resource string
	ID       string
	// Scope, when set, switches the message to "<id> not in <scope>".
	Scope string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s not in %s", e.ID, e.Scope)
	}
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewNotInError creates a NotFoundError that reads "<id> not in <scope>".
func NewNotInError(resource, id, scope string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id, Scope: scope}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// RemoteError represents any non-success response from the inventory API.
// No distinction is drawn between validation, auth, and transient failures;
// Code is kept only so operators can see it.
type RemoteError struct {
	Method     string
	Status     string // value of the "status" discriminator, if any
	Code       string // error_code reported by the API, if any
	Message    string
	HTTPStatus int
	Body       []byte // raw response body for diagnostics
	Err        error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	var b strings.Builder
	b.WriteString("remote error")
	if e.Method != "" {
		b.WriteString(" from ")
		b.WriteString(e.Method)
	}
	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, " (http %d)", e.HTTPStatus)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if len(e.Body) > 0 {
		b.WriteString(": ")
		b.WriteString(Excerpt(e.Body))
	}
	return b.String()
}

// maxExcerpt bounds how much of a response body a message quotes.
const maxExcerpt = 512

// Excerpt returns body for use in an error message, cut to a bounded
// length. A rune split by the cut is dropped.
func Excerpt(body []byte) string {
	if len(body) <= maxExcerpt {
		return string(body)
	}
	return strings.ToValidUTF8(string(body[:maxExcerpt]), "") + "..."
}

// Unwrap implements errors.Unwrap.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// AuthError represents a missing, expired, or revoked spreadsheet credential.
type AuthError struct {
	Service string
	Method  string // "oauth", "client_secret", "token"
	Message string
	Hint    string // actionable next step for the operator
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
	if e.Service != "" {
		msg = fmt.Sprintf("authentication error for %s (%s): %s", e.Service, e.Method, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// Unwrap implements errors.Unwrap.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// NewAuthError creates a new AuthError.
func NewAuthError(service, method, message, hint string, err error) *AuthError {
	return &AuthError{
		Service: service,
		Method:  method,
		Message: message,
		Hint:    hint,
		Err:     err,
	}
}

// SchemaError represents required columns missing from a table.
type SchemaError struct {
	Table   string
	Missing []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("required columns missing from %s: %s", e.Table, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("required columns missing: %s", strings.Join(e.Missing, ", "))
}

// Is implements errors.Is support.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(table string, missing []string) *SchemaError {
	return &SchemaError{Table: table, Missing: missing}
}

// ParseError represents an error when parsing data formats.
type ParseError struct {
	Format  string // "json", "csv", "xlsx", ...
	File    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("configuration error: %s", e.Message)
	if e.Component != "" {
		msg = fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *ConfigError) Is(target error) bool {
	return target == ErrNotConfigured
}

// NewConfigError creates a new ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// IOError represents an error during I/O operations.
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRemote checks if an error came from a non-success inventory response.
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// IsAuth checks if an error is a spreadsheet credential error.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsSchema checks if an error is a schema error.
func IsSchema(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsParse checks if an error is a parse error.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotConfigured checks if an error is a configuration error.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// As is an alias for the standard library errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapValidation wraps an error as a ValidationError.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
