package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"docportal/internal/config"
	"docportal/internal/logger"
	"docportal/internal/repository"
	"docportal/internal/tokens"
)

var (
	ErrStateMismatch       = errors.New("login state mismatch")
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrMissingCode         = errors.New("authorization code missing from callback")
)

// AuthorizationRequest is one PKCE authorization attempt. The verifier,
// state and nonce never leave the process except through the exchange.
type AuthorizationRequest struct {
	URL         string
	State       string
	Nonce       string
	Verifier    string
	RedirectURI string
}

// NewAuthorizationRequest builds the provider URL with an S256 code
// challenge, a random state and a nonce.
func NewAuthorizationRequest(cfg config.OIDCConfig) (AuthorizationRequest, error) {
	if cfg.AuthURL == "" || cfg.ClientID == "" || cfg.RedirectURL == "" {
		return AuthorizationRequest{}, fmt.Errorf("%w: OIDC_AUTH_URL, OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required", repository.ErrInvalidInput)
	}
	oc := oauth2.Config{
		ClientID:    cfg.ClientID,
		Endpoint:    oauth2.Endpoint{AuthURL: cfg.AuthURL, TokenURL: cfg.TokenURL},
		RedirectURL: cfg.RedirectURL,
		Scopes:      cfg.Scopes,
	}
	req := AuthorizationRequest{
		State:       uuid.NewString(),
		Nonce:       uuid.NewString(),
		Verifier:    oauth2.GenerateVerifier(),
		RedirectURI: cfg.RedirectURL,
	}
	req.URL = oc.AuthCodeURL(req.State,
		oauth2.S256ChallengeOption(req.Verifier),
		oauth2.SetAuthURLParam("nonce", req.Nonce),
	)
	return req, nil
}

// Complete validates the provider callback and returns the exchange
// parameters for the backend.
func (r AuthorizationRequest) Complete(callback url.Values) (repository.ExchangeParams, error) {
	if e := callback.Get("error"); e != "" {
		if d := callback.Get("error_description"); d != "" {
			e += ": " + d
		}
		return repository.ExchangeParams{}, fmt.Errorf("%w: %s", ErrAuthorizationDenied, e)
	}
	if callback.Get("state") != r.State {
		return repository.ExchangeParams{}, ErrStateMismatch
	}
	code := callback.Get("code")
	if code == "" {
		return repository.ExchangeParams{}, ErrMissingCode
	}
	return repository.ExchangeParams{
		Code:         code,
		CodeVerifier: r.Verifier,
		RedirectURI:  r.RedirectURI,
		Nonce:        r.Nonce,
	}, nil
}

// callbackListener accepts a single provider redirect on a loopback address.
type callbackListener struct {
	ln          net.Listener
	path        string
	redirectURL string
}

func listenCallback(redirectURL string) (*callbackListener, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("parse redirect url: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect url must be a loopback http url, got %q", redirectURL)
	}
	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("listen for callback: %w", err)
	}
	// Port 0 asks for an ephemeral port; the redirect URL must carry the real one.
	u.Host = ln.Addr().String()
	path := u.Path
	if path == "" {
		path = "/"
	}
	return &callbackListener{ln: ln, path: path, redirectURL: u.String()}, nil
}

func (c *callbackListener) wait(ctx context.Context) (url.Values, error) {
	got := make(chan url.Values, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(c.path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if e := q.Get("error"); e != "" {
			fmt.Fprintf(w, "<p>Login failed: %s</p>", html.EscapeString(e))
		} else {
			fmt.Fprint(w, "<p>Login complete. You can close this window.</p>")
		}
		select {
		case got <- q:
		default:
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(c.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Warn("login_callback_server_error", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case q := <-got:
		return q, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunLogin performs the interactive PKCE login: it listens on the redirect
// address, hands the authorization URL to announce, waits for the provider
// callback and exchanges the code through session.
func RunLogin(ctx context.Context, cfg config.OIDCConfig, session SessionService, announce func(authURL string)) (tokens.Record, error) {
	cl, err := listenCallback(cfg.RedirectURL)
	if err != nil {
		return tokens.Record{}, err
	}
	cfg.RedirectURL = cl.redirectURL

	req, err := NewAuthorizationRequest(cfg)
	if err != nil {
		_ = cl.ln.Close()
		return tokens.Record{}, err
	}
	announce(req.URL)

	q, err := cl.wait(ctx)
	if err != nil {
		return tokens.Record{}, fmt.Errorf("wait for login callback: %w", err)
	}
	params, err := req.Complete(q)
	if err != nil {
		return tokens.Record{}, err
	}
	return session.Login(ctx, params)
}
