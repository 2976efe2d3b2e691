package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
)

// Login runs the one-time consent flow: it listens on a loopback port,
// hands the consent URL to openURL, waits for the redirect, checks the
// state parameter, exchanges the code, and persists the token.
func (p *Provider) Login(ctx context.Context, openURL func(string)) (*oauth2.Token, error) {
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.NewAuthError(service, "oauth", "cannot open loopback listener", "", err)
	}
	defer listener.Close() //nolint:errcheck // closed by server shutdown as well

	cfg.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())
	state, err := randomState()
	if err != nil {
		return nil, errors.NewAuthError(service, "oauth", "cannot generate state", "", err)
	}

	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)

	srv := &http.Server{
		ReadHeaderTimeout: constants.DefaultTimeout,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			switch {
			case q.Get("state") != state:
				http.Error(w, "state mismatch", http.StatusBadRequest)
				sendOnce(done, result{err: errors.NewAuthError(service, "oauth", "state mismatch in redirect", "retry the login", nil)})
			case q.Get("error") != "":
				http.Error(w, "authorization denied", http.StatusForbidden)
				sendOnce(done, result{err: errors.NewAuthError(service, "oauth", "authorization denied: "+q.Get("error"), "", nil)})
			case q.Get("code") == "":
				http.Error(w, "missing code", http.StatusBadRequest)
				sendOnce(done, result{err: errors.NewAuthError(service, "oauth", "redirect carried no code", "", nil)})
			default:
				fmt.Fprintln(w, "Authorization complete. You can close this window.")
				sendOnce(done, result{code: q.Get("code")})
			}
		}),
	}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			sendOnce(done, result{err: errors.NewAuthError(service, "oauth", "loopback server failed", "", err)})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	p.logger.Info().Str("redirect", cfg.RedirectURL).Msg("Waiting for authorization")
	openURL(authURL)

	waitCtx, cancel := context.WithTimeout(ctx, constants.LoginTimeout)
	defer cancel()

	var res result
	select {
	case res = <-done:
	case <-waitCtx.Done():
		return nil, errors.NewAuthError(service, "oauth", "timed out waiting for authorization", "retry the login", waitCtx.Err())
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := cfg.Exchange(ctx, res.code)
	if err != nil {
		return nil, errors.NewAuthError(service, "oauth", "code exchange failed", "retry the login", err)
	}
	if err := saveToken(p.TokenFile, tok); err != nil {
		return nil, err
	}
	p.logger.Info().Str("path", p.TokenFile).Msg("Saved spreadsheet authorization")
	return tok, nil
}

func sendOnce[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
