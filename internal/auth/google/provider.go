// Package google supplies the OAuth capability used by the spreadsheet client.
//
// The capability is obtained once through an interactive consent flow
// (Login), persisted to a token file, and then reused: the token source
// returned by TokenSource refreshes expired access tokens transparently and
// writes refreshed tokens back to disk. Service-account key files are also
// accepted in place of an OAuth client secret and need no token file.
package google

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/logging"
)

const (
	service = "google-sheets"

	// TypeServiceAccount is the "type" of a service-account key file.
	TypeServiceAccount = "service_account"

	hintLogin = "run `sheetlink auth login` to authorize access"
)

// DefaultScopes grants spreadsheet read/write and lookup by key.
var DefaultScopes = []string{constants.ScopeSpreadsheets, constants.ScopeDrive}

// Provider loads and refreshes the spreadsheet capability.
type Provider struct {
	CredentialsFile string
	TokenFile       string
	Scopes          []string

	logger *zerolog.Logger
}

// NewProvider creates a Provider. Empty paths select the defaults.
func NewProvider(credentialsFile, tokenFile string, logger *zerolog.Logger) *Provider {
	if credentialsFile == "" {
		credentialsFile = constants.DefaultCredentialsFile
	}
	if tokenFile == "" {
		tokenFile = constants.DefaultTokenFile
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Provider{
		CredentialsFile: credentialsFile,
		TokenFile:       tokenFile,
		Scopes:          DefaultScopes,
		logger:          logger,
	}
}

func (p *Provider) scopes() []string {
	if len(p.Scopes) == 0 {
		return DefaultScopes
	}
	return p.Scopes
}

func (p *Provider) readCredentials() ([]byte, string, error) {
	data, err := os.ReadFile(p.CredentialsFile) // #nosec G304 -- operator-configured credentials path
	if err != nil {
		return nil, "", errors.NewAuthError(service, "client_secret",
			"cannot read OAuth client secret "+p.CredentialsFile,
			"download an OAuth client (Desktop app) JSON and set google_credentials", err)
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, "", errors.NewAuthError(service, "client_secret",
			"client secret "+p.CredentialsFile+" is not valid JSON", "", err)
	}
	return data, head.Type, nil
}

// Config returns the OAuth client configuration from the credentials file.
func (p *Provider) Config() (*oauth2.Config, error) {
	data, kind, err := p.readCredentials()
	if err != nil {
		return nil, err
	}
	if kind == TypeServiceAccount {
		return nil, errors.NewAuthError(service, "client_secret",
			p.CredentialsFile+" is a service-account key, not an OAuth client", "service accounts need no login", nil)
	}
	cfg, err := google.ConfigFromJSON(data, p.scopes()...)
	if err != nil {
		return nil, errors.NewAuthError(service, "client_secret",
			"client secret "+p.CredentialsFile+" is not an OAuth client", "", err)
	}
	return cfg, nil
}

// TokenSource returns a token source that reuses the persisted capability,
// refreshing it when it expires. Errors are AuthErrors naming what to do next.
func (p *Provider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	data, kind, err := p.readCredentials()
	if err != nil {
		return nil, err
	}

	if kind == TypeServiceAccount {
		jwt, err := google.JWTConfigFromJSON(data, p.scopes()...)
		if err != nil {
			return nil, errors.NewAuthError(service, "service_account", "invalid service-account key", "", err)
		}
		p.logger.Debug().Str("account", jwt.Email).Msg("Using service-account credentials")
		return &checkedSource{base: jwt.TokenSource(ctx)}, nil
	}

	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}

	tok, err := loadToken(p.TokenFile)
	if err != nil {
		return nil, errors.NewAuthError(service, "token", "no usable token in "+p.TokenFile, hintLogin, err)
	}

	persisting := &persistingSource{
		base:   cfg.TokenSource(ctx, tok),
		path:   p.TokenFile,
		last:   tok.AccessToken,
		logger: p.logger,
	}
	return oauth2.ReuseTokenSource(tok, &checkedSource{base: persisting}), nil
}
