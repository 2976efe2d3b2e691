// Package response provides standardized HTTP response structures and helpers
// for the sheetlink dashboard API. All API responses follow a consistent format
// with a data field for successful responses and an error field for failures.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/sheetlink/pkg/errors"
)

// Response represents the standardized API response structure.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
// Message always carries the underlying error text unmodified.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusUnauthorized, Fail("UNAUTHORIZED", message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		"METHOD_NOT_ALLOWED",
		"Method not allowed",
		"Method "+method+" is not supported for this endpoint",
	))
}

// BadGateway writes a 502 error response for upstream failures.
func BadGateway(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadGateway, Fail("REMOTE_ERROR", message, details))
}

// InternalError writes a 500 error response with the error text.
func InternalError(w http.ResponseWriter, err error) {
	JSON(w, http.StatusInternalServerError, Fail("INTERNAL_ERROR", err.Error(), ""))
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail(
		"SERVICE_UNAVAILABLE",
		message,
		"",
	))
}

// StatusFor maps a typed error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.IsSchema(err):
		return http.StatusBadRequest, "SCHEMA_MISMATCH"
	case errors.IsValidationError(err):
		return http.StatusBadRequest, "VALIDATION_FAILED"
	case errors.IsParse(err):
		return http.StatusBadRequest, "PARSE_ERROR"
	case errors.IsAuth(err):
		return http.StatusUnauthorized, "AUTH_REQUIRED"
	case errors.IsRemote(err):
		return http.StatusBadGateway, "REMOTE_ERROR"
	case errors.IsNotConfigured(err):
		return http.StatusServiceUnavailable, "NOT_CONFIGURED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// ErrorFromType maps typed errors to appropriate HTTP responses. Remote
// failures carry the API's error code in Details.
func ErrorFromType(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	details := ""
	var remote *errors.RemoteError
	if errors.As(err, &remote) {
		details = remote.Code
	}
	var auth *errors.AuthError
	if errors.As(err, &auth) {
		details = auth.Hint
	}
	JSON(w, status, Fail(code, err.Error(), details))
}
