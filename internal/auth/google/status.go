package google

import (
	"fmt"
	"os"
	"time"
)

// State is the local authorization state.
type State string

// Authorization states.
const (
	StateConfigured State = "configured"
	StateMissing    State = "missing"
	StateInvalid    State = "invalid"
	StateExpired    State = "expired"
)

// Status describes the credentials on disk. It is computed locally;
// no network calls are made.
type Status struct {
	State           State     `json:"state" yaml:"state"`
	Summary         string    `json:"summary" yaml:"summary"`
	Type            string    `json:"type,omitempty" yaml:"type,omitempty"`
	CredentialsFile string    `json:"credentials_file" yaml:"credentials_file"`
	TokenFile       string    `json:"token_file,omitempty" yaml:"token_file,omitempty"`
	HasRefreshToken bool      `json:"has_refresh_token" yaml:"has_refresh_token"`
	Expiry          time.Time `json:"expiry,omitempty" yaml:"expiry,omitempty"`
}

// Check inspects the credentials and token files.
func (p *Provider) Check() *Status {
	st := &Status{CredentialsFile: p.CredentialsFile}

	_, kind, err := p.readCredentials()
	if err != nil {
		st.State = StateMissing
		if _, statErr := os.Stat(p.CredentialsFile); statErr == nil {
			st.State = StateInvalid
		}
		st.Summary = err.Error()
		return st
	}

	if kind == TypeServiceAccount {
		st.Type = "Service Account"
		st.State = StateConfigured
		st.Summary = "Service-account key " + p.CredentialsFile
		return st
	}
	st.Type = "OAuth Client"
	st.TokenFile = p.TokenFile

	if _, err := p.Config(); err != nil {
		st.State = StateInvalid
		st.Summary = err.Error()
		return st
	}

	tok, err := loadToken(p.TokenFile)
	if err != nil {
		st.State = StateMissing
		if _, statErr := os.Stat(p.TokenFile); statErr == nil {
			st.State = StateInvalid
		}
		st.Summary = fmt.Sprintf("No usable token in %s: run `sheetlink auth login`", p.TokenFile)
		return st
	}

	st.HasRefreshToken = tok.RefreshToken != ""
	st.Expiry = tok.Expiry
	switch {
	case tok.Valid():
		st.State = StateConfigured
		st.Summary = "Authorized"
	case st.HasRefreshToken:
		st.State = StateConfigured
		st.Summary = "Authorized (access token will refresh on next use)"
	default:
		st.State = StateExpired
		st.Summary = "Access token expired and no refresh token: run `sheetlink auth login`"
	}
	return st
}
