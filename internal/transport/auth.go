package transport

import (
	"net/http"
	"net/url"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// FormAuthenticator is implemented by authenticators that carry the
// credential inside a form-encoded body instead of a header.
type FormAuthenticator interface {
	ApplyForm(form url.Values, token string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, token string) {
	req.Header.Set(a.Header, token)
}

// FormAuth sends the token as a form field of a POST body.
type FormAuth struct {
	Field string
}

// Apply implements the Authenticator interface for FormAuth.
// The token is applied by ApplyForm before the body is encoded.
func (a *FormAuth) Apply(_ *http.Request, _ string) {}

// ApplyForm implements FormAuthenticator.
func (a *FormAuth) ApplyForm(form url.Values, token string) {
	field := a.Field
	if field == "" {
		field = "token"
	}
	form.Set(field, token)
}
