package transport

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
)

// Client provides HTTP client functionality with authentication.
type Client struct {
	http *http.Client
	auth Authenticator
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth: auth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request, token string) (*http.Response, error) {
	if token != "" {
		c.auth.Apply(req, token)
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

// PostForm sends a form-encoded POST. Form-based authenticators add the
// token to the form; header-based ones set it on the request.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values, token string) (*http.Response, error) {
	if form == nil {
		form = url.Values{}
	}
	if fa, ok := c.auth.(FormAuthenticator); ok && token != "" {
		fa.ApplyForm(form, token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.NewValidationError("endpoint", endpoint, err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Do(req, token)
	if err != nil {
		return nil, &errors.RemoteError{Method: http.MethodPost + " " + endpoint, Err: err}
	}
	return resp, nil
}
