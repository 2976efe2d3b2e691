package google

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
)

// tokenFile accepts both the oauth2.Token layout and the layout written by
// Google's Python client, which names the access token "token".
type tokenFile struct {
	AccessToken  string    `json:"access_token,omitempty"`
	Token        string    `json:"token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-configured token path
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var f tokenFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	tok := &oauth2.Token{
		AccessToken:  f.AccessToken,
		TokenType:    f.TokenType,
		RefreshToken: f.RefreshToken,
		Expiry:       f.Expiry,
	}
	if tok.AccessToken == "" {
		tok.AccessToken = f.Token
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, errors.NewParseError("json", path, "token file has neither access nor refresh token", nil)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	data, err := json.MarshalIndent(tokenFile{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	return errors.WrapIO("write", path, os.WriteFile(path, data, constants.SecureFilePermissions))
}

// persistingSource writes each newly minted token back to disk.
type persistingSource struct {
	base   oauth2.TokenSource
	path   string
	logger *zerolog.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := saveToken(s.path, tok); err != nil {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to persist refreshed token")
		} else {
			s.logger.Debug().Str("path", s.path).Time("expiry", tok.Expiry).Msg("Persisted refreshed token")
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

// checkedSource turns refresh failures into AuthErrors.
type checkedSource struct {
	base oauth2.TokenSource
}

func (s *checkedSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err == nil {
		return tok, nil
	}

	var retrieve *oauth2.RetrieveError
	if errors.As(err, &retrieve) && retrieve.ErrorCode == "invalid_grant" {
		return nil, errors.NewAuthError(service, "token", "authorization expired or was revoked", hintLogin, err)
	}
	return nil, errors.NewAuthError(service, "token", "token refresh failed", hintLogin, err)
}
