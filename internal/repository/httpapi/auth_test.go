package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docportal/internal/repository"
	"docportal/internal/tokens"
)

var exchangeParams = repository.ExchangeParams{
	Code:         "code-1",
	CodeVerifier: "verifier",
	RedirectURI:  "http://127.0.0.1:8765/callback",
	Nonce:        "nonce-1",
}

func TestAuth_Exchange(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/exchange", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		body := decodeBody(t, r)
		assert.Equal(t, "code-1", body["code"])
		assert.Equal(t, "verifier", body["codeVerifier"])
		assert.Equal(t, "http://127.0.0.1:8765/callback", body["redirectUri"])
		assert.Equal(t, "nonce-1", body["nonce"])
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "acc",
			"refresh_token": "ref",
			"id_token":      "idt",
			"token_type":    "Bearer",
		})
	})

	ts, err := NewAuth(c, "/api/auth/").Exchange(context.Background(), exchangeParams)
	require.NoError(t, err)
	assert.Equal(t, "acc", ts.AccessToken)
	assert.Equal(t, "ref", ts.RefreshToken)
	assert.Equal(t, "idt", ts.IDToken)
	assert.Equal(t, int64(tokens.DefaultExpiresIn), ts.ExpiresIn)
}

func TestAuth_Exchange_Errors(t *testing.T) {
	t.Run("backend error field", func(t *testing.T) {
		c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"error": "bad_code"})
		})
		_, err := NewAuth(c, "/api/auth").Exchange(context.Background(), exchangeParams)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad_code")
		var ae *repository.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "bad_code", ae.Code)
	})

	t.Run("error status", func(t *testing.T) {
		c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_code"})
		})
		_, err := NewAuth(c, "/api/auth").Exchange(context.Background(), exchangeParams)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 400")
		assert.Contains(t, err.Error(), "bad_code")
	})

	t.Run("missing access token", func(t *testing.T) {
		c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"refresh_token": "r"})
		})
		_, err := NewAuth(c, "/api/auth").Exchange(context.Background(), exchangeParams)
		assert.ErrorIs(t, err, tokens.ErrMissingAccessToken)
		assert.ErrorIs(t, err, repository.ErrMalformedPayload)
		assert.Contains(t, err.Error(), "missing_access_token")
	})

	t.Run("missing params", func(t *testing.T) {
		p := exchangeParams
		p.Nonce = ""
		_, err := NewAuth(nil, "/api/auth").Exchange(context.Background(), p)
		assert.ErrorIs(t, err, repository.ErrInvalidInput)
	})
}

func TestAuth_Refresh_KeepsRefreshToken(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/refresh", r.URL.Path)
		assert.Equal(t, "old-ref", decodeBody(t, r)["refreshToken"])
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "new-acc", "expires_in": 60})
	})

	ts, err := NewAuth(c, "/api/auth").Refresh(context.Background(), "old-ref")
	require.NoError(t, err)
	assert.Equal(t, "new-acc", ts.AccessToken)
	assert.Equal(t, "old-ref", ts.RefreshToken)
	assert.Equal(t, int64(60), ts.ExpiresIn)
}

func TestAuth_Revoke(t *testing.T) {
	t.Run("nothing to revoke", func(t *testing.T) {
		called := false
		c := newBackend(t, func(w http.ResponseWriter, r *http.Request) { called = true })
		assert.True(t, NewAuth(c, "/api/auth").Revoke(context.Background(), repository.RevokeParams{AccessToken: "a"}))
		assert.False(t, called)
	})

	t.Run("confirmed", func(t *testing.T) {
		c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/logout", r.URL.Path)
			assert.Equal(t, "Bearer acc", r.Header.Get("Authorization"))
			body := decodeBody(t, r)
			assert.Equal(t, "ref", body["refreshToken"])
			assert.NotContains(t, body, "idToken")
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		})
		ok := NewAuth(c, "/api/auth").Revoke(context.Background(), repository.RevokeParams{AccessToken: "acc", RefreshToken: "ref"})
		assert.True(t, ok)
	})

	t.Run("backend failure is swallowed", func(t *testing.T) {
		c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		ok := NewAuth(c, "/api/auth").Revoke(context.Background(), repository.RevokeParams{IDToken: "idt"})
		assert.False(t, ok)
	})
}

func TestAuth_Me(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"email": "ana@example.com"}})
	})

	me, err := NewAuth(c, "/api/auth").Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me["email"])
}

func TestAuth_Me_NotObject(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []string{"x"})
	})
	_, err := NewAuth(c, "/api/auth").Me(context.Background())
	assert.True(t, errors.Is(err, repository.ErrMalformedPayload))
}
