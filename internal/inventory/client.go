// Package inventory is a client for the inventory platform's method-dispatch
// API. Every call is a form POST of token, method and a JSON-encoded
// parameters blob to a single endpoint; the response envelope carries a
// "status" discriminator and, on failure, error_code and error_message.
package inventory

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/agentstation/sheetlink/internal/transport"
	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/logging"
)

// Client talks to the inventory API.
type Client struct {
	endpoint  string
	token     string
	transport *transport.Client
	logger    *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the HTTP transport, which also decides how the token
// travels (form field or header).
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client for endpoint. An empty endpoint selects the default API URL.
func New(endpoint, token string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = constants.DefaultAPIURL
	}
	c := &Client{
		endpoint:  endpoint,
		token:     token,
		transport: transport.New(&transport.FormAuth{Field: "token"}),
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the status part every response shares.
type envelope struct {
	Status       string `json:"status"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Call invokes method with params and decodes a successful response into
// out. Any status other than SUCCESS is a RemoteError carrying the raw body.
func (c *Client) Call(ctx context.Context, method string, params any, out any) ([]byte, error) {
	if params == nil {
		params = map[string]any{}
	}
	blob, err := json.Marshal(params)
	if err != nil {
		return nil, errors.NewValidationError("parameters", params, err.Error())
	}

	form := url.Values{}
	form.Set("method", method)
	form.Set("parameters", string(blob))

	c.logger.Debug().Str("method", method).RawJSON("parameters", blob).Msg("Calling inventory API")

	resp, err := c.transport.PostForm(ctx, c.endpoint, form, c.token)
	if err != nil {
		return nil, withMethod(err, method)
	}

	raw, err := transport.DecodeResponse(resp, nil)
	if err != nil {
		return raw, withMethod(err, method)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw, &errors.RemoteError{
			Method:     method,
			Message:    "response is not JSON",
			HTTPStatus: resp.StatusCode,
			Body:       raw,
			Err:        err,
		}
	}

	if env.Status != constants.StatusSuccess {
		c.logger.Error().
			Str("method", method).
			Str("status", env.Status).
			Str("error_code", env.ErrorCode).
			Str("body", errors.Excerpt(raw)).
			Msg("Inventory API call failed")
		return raw, &errors.RemoteError{
			Method:     method,
			Status:     env.Status,
			Code:       env.ErrorCode,
			Message:    env.ErrorMessage,
			HTTPStatus: resp.StatusCode,
			Body:       raw,
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return raw, errors.NewParseError("json", method, err.Error()+": "+errors.Excerpt(raw), err)
		}
	}
	return raw, nil
}

func withMethod(err error, method string) error {
	var remote *errors.RemoteError
	if errors.As(err, &remote) && remote.Method == "" {
		remote.Method = method
	}
	return err
}
