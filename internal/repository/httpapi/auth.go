package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"docportal/internal/httpclient"
	"docportal/internal/logger"
	"docportal/internal/repository"
	"docportal/internal/tokens"
)

// Auth implements repository.AuthRepository against the backend's
// /api/auth endpoints.
type Auth struct {
	client Doer
	prefix string
}

var _ repository.AuthRepository = (*Auth)(nil)

func NewAuth(client Doer, prefix string) *Auth {
	return &Auth{client: client, prefix: strings.TrimRight(prefix, "/")}
}

func (a *Auth) Exchange(ctx context.Context, p repository.ExchangeParams) (tokens.TokenSet, error) {
	if p.Code == "" || p.CodeVerifier == "" || p.RedirectURI == "" || p.Nonce == "" {
		return tokens.TokenSet{}, fmt.Errorf("%w: code, codeVerifier, redirectUri and nonce are required", repository.ErrInvalidInput)
	}
	res, err := a.client.Do(ctx, a.prefix+"/exchange", httpclient.Options{
		Method: http.MethodPost,
		Body:   p,
		NoAuth: true,
	})
	if err != nil {
		return tokens.TokenSet{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tokenSet(res.Result(), "")
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (tokens.TokenSet, error) {
	if refreshToken == "" {
		return tokens.TokenSet{}, fmt.Errorf("%w: refresh token is required", repository.ErrInvalidInput)
	}
	res, err := a.client.Do(ctx, a.prefix+"/refresh", httpclient.Options{
		Method: http.MethodPost,
		Body:   map[string]string{"refreshToken": refreshToken},
		NoAuth: true,
	})
	if err != nil {
		return tokens.TokenSet{}, fmt.Errorf("refresh tokens: %w", err)
	}
	return tokenSet(res.Result(), refreshToken)
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
}

func (a *Auth) Revoke(ctx context.Context, p repository.RevokeParams) bool {
	if p.RefreshToken == "" && p.IDToken == "" {
		return true
	}
	h := http.Header{}
	if p.AccessToken != "" {
		h.Set("Authorization", "Bearer "+p.AccessToken)
	}
	res, err := a.client.Do(ctx, a.prefix+"/logout", httpclient.Options{
		Method: http.MethodPost,
		Body:   logoutRequest{RefreshToken: p.RefreshToken, IDToken: p.IDToken},
		Header: h,
		NoAuth: true,
	})
	if err != nil {
		logger.Log.Warn("session_revoke_failed", zap.Error(err))
		return false
	}
	return res.Result().Get("success").Bool()
}

func (a *Auth) Me(ctx context.Context) (map[string]any, error) {
	res, err := a.client.Do(ctx, a.prefix+"/me", httpclient.Options{})
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	profile, ok := objectOf(res.Result(), "data", "@this")
	if !ok {
		return nil, repository.MalformedError("profile is not an object")
	}
	out := make(map[string]any)
	if err := json.Unmarshal([]byte(profile.Raw), &out); err != nil {
		return nil, repository.MalformedError(err.Error())
	}
	return out, nil
}

// tokenSet validates an exchange or refresh body. fallbackRefresh is kept
// when the backend does not issue a new refresh token.
func tokenSet(r gjson.Result, fallbackRefresh string) (tokens.TokenSet, error) {
	if e := r.Get("error"); present(e) && e.String() != "" {
		return tokens.TokenSet{}, &repository.AuthError{Code: e.String()}
	}
	access := r.Get("access_token").String()
	if access == "" {
		return tokens.TokenSet{}, fmt.Errorf("%w: %w", repository.ErrMalformedPayload, tokens.ErrMissingAccessToken)
	}
	expiresIn := int64(tokens.DefaultExpiresIn)
	if v := r.Get("expires_in"); present(v) {
		expiresIn = v.Int()
	}
	refresh := r.Get("refresh_token").String()
	if refresh == "" {
		refresh = fallbackRefresh
	}
	return tokens.TokenSet{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: r.Get("refresh_expires_in").Int(),
		TokenType:        r.Get("token_type").String(),
		IDToken:          r.Get("id_token").String(),
	}, nil
}
