// Package tokens persists the access/refresh token pair issued by the
// identity backend and answers whether a usable access token exists.
package tokens

import (
	"context"
	"errors"
	"time"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "auth_tokens_v1"

// DefaultExpiresIn is applied when the backend omits expires_in.
const DefaultExpiresIn = 300

var (
	// ErrNoToken is returned when no usable record is stored under the key.
	ErrNoToken = errors.New("no token stored")
	// ErrMissingAccessToken rejects token sets without an access token.
	ErrMissingAccessToken = errors.New("missing_access_token")
)

// TokenSet is the bundle returned by a code exchange or refresh.
type TokenSet struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`
	TokenType        string `json:"token_type,omitempty"`
	IDToken          string `json:"id_token,omitempty"`
}

// Record is the persisted form of a TokenSet. Expiry offsets are resolved
// to absolute Unix millisecond timestamps at the time the set was received.
type Record struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	IDToken          string `json:"id_token,omitempty"`
	TokenType        string `json:"token_type,omitempty"`
	AccessExpiresAt  int64  `json:"access_expires_at"`
	RefreshExpiresAt int64  `json:"refresh_expires_at,omitempty"`
}

// NewRecord resolves ts against now.
func NewRecord(ts TokenSet, now time.Time) (Record, error) {
	if ts.AccessToken == "" {
		return Record{}, ErrMissingAccessToken
	}
	expiresIn := ts.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = DefaultExpiresIn
	}
	rec := Record{
		AccessToken:     ts.AccessToken,
		RefreshToken:    ts.RefreshToken,
		IDToken:         ts.IDToken,
		TokenType:       ts.TokenType,
		AccessExpiresAt: now.Add(time.Duration(expiresIn) * time.Second).UnixMilli(),
	}
	if ts.RefreshExpiresIn > 0 {
		rec.RefreshExpiresAt = now.Add(time.Duration(ts.RefreshExpiresIn) * time.Second).UnixMilli()
	}
	return rec, nil
}

// AccessExpiry returns the absolute access token expiry.
func (r Record) AccessExpiry() time.Time {
	return time.UnixMilli(r.AccessExpiresAt)
}

// Usable reports whether the access token is present and unexpired at now.
func (r Record) Usable(now time.Time) bool {
	return r.AccessToken != "" && now.UnixMilli() < r.AccessExpiresAt
}

// CanRefresh reports whether a refresh token is present and, when its
// expiry is known, unexpired at now.
func (r Record) CanRefresh(now time.Time) bool {
	if r.RefreshToken == "" {
		return false
	}
	return r.RefreshExpiresAt == 0 || now.UnixMilli() < r.RefreshExpiresAt
}

// Backend stores serialized records by key. Get returns ErrNoToken when
// nothing is stored under key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
