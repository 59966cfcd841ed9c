// Package service holds the use cases that sit between the repositories
// and the gateway, CLI and MCP front ends.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"docportal/internal/logger"
	"docportal/internal/repository"
	"docportal/internal/tokens"
)

var (
	// ErrNotAuthenticated means no usable or refreshable session exists.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Profile is the identity shown for the current session.
type Profile struct {
	Subject     string    `json:"sub,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Username    string    `json:"preferredUsername,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitzero"`
	TokenExpiry time.Time `json:"tokenExpiry"`
}

// SessionService manages the token record of the current session. The
// session is selected by the store key on ctx.
type SessionService interface {
	// Login exchanges an authorization code and stores the resulting tokens.
	Login(ctx context.Context, p repository.ExchangeParams) (tokens.Record, error)
	// EnsureFresh refreshes an expired access token when a refresh token
	// allows it.
	EnsureFresh(ctx context.Context) error
	// Refresh unconditionally renews the access token.
	Refresh(ctx context.Context) error
	// Logout revokes the session at the backend, best-effort, and clears
	// the local record. It reports whether the backend confirmed.
	Logout(ctx context.Context) (bool, error)
	// Profile decodes the identity claims of the stored tokens.
	Profile(ctx context.Context) (Profile, error)
}

type sessionService struct {
	store *tokens.Store
	auth  func() repository.AuthRepository
	now   func() time.Time
	group singleflight.Group
}

// NewSessionService constructs a SessionService. auth is resolved on
// every call.
func NewSessionService(store *tokens.Store, auth func() repository.AuthRepository) SessionService {
	return &sessionService{store: store, auth: auth, now: time.Now}
}

func (s *sessionService) Login(ctx context.Context, p repository.ExchangeParams) (tokens.Record, error) {
	ts, err := s.auth().Exchange(ctx, p)
	if err != nil {
		return tokens.Record{}, err
	}
	rec, err := s.store.Save(ctx, ts)
	if err != nil {
		return tokens.Record{}, err
	}
	logger.Log.Info("session_login",
		zap.String("session", s.store.Key(ctx)),
		zap.Time("access_expires_at", rec.AccessExpiry()),
	)
	return rec, nil
}

func (s *sessionService) EnsureFresh(ctx context.Context) error {
	rec, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, tokens.ErrNoToken) {
			return ErrNotAuthenticated
		}
		return err
	}
	if rec.Usable(s.now()) {
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh collapses concurrent refreshes of the same session into one
// backend call.
func (s *sessionService) Refresh(ctx context.Context) error {
	key := s.store.Key(ctx)
	_, err, _ := s.group.Do(key, func() (any, error) {
		return nil, s.refresh(ctx)
	})
	return err
}

func (s *sessionService) refresh(ctx context.Context) error {
	rec, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, tokens.ErrNoToken) {
			return ErrNotAuthenticated
		}
		return err
	}
	if !rec.CanRefresh(s.now()) {
		return ErrNotAuthenticated
	}

	ts, err := s.auth().Refresh(ctx, rec.RefreshToken)
	if err != nil {
		logger.Log.Warn("session_refresh_failed", zap.String("session", s.store.Key(ctx)), zap.Error(err))
		return fmt.Errorf("refresh session: %w", err)
	}
	if ts.IDToken == "" {
		ts.IDToken = rec.IDToken
	}
	if _, err := s.store.Save(ctx, ts); err != nil {
		return err
	}
	logger.Log.Debug("session_refreshed", zap.String("session", s.store.Key(ctx)))
	return nil
}

func (s *sessionService) Logout(ctx context.Context) (bool, error) {
	rec, err := s.store.Load(ctx)
	if err != nil && !errors.Is(err, tokens.ErrNoToken) {
		return false, err
	}
	revoked := s.auth().Revoke(ctx, repository.RevokeParams{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		IDToken:      rec.IDToken,
	})
	if !revoked {
		logger.Log.Warn("session_revoke_unconfirmed", zap.String("session", s.store.Key(ctx)))
	}
	if err := s.store.Clear(ctx); err != nil {
		return revoked, err
	}
	return revoked, nil
}

func (s *sessionService) Profile(ctx context.Context) (Profile, error) {
	rec, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, tokens.ErrNoToken) {
			return Profile{}, ErrNotAuthenticated
		}
		return Profile{}, err
	}

	var claims tokens.Claims
	var decodeErr error
	for _, tok := range []string{rec.IDToken, rec.AccessToken} {
		if tok == "" {
			continue
		}
		if claims, decodeErr = tokens.DecodeClaims(tok); decodeErr == nil {
			break
		}
	}
	if decodeErr != nil {
		return Profile{}, decodeErr
	}

	return Profile{
		Subject:     claims.Subject,
		Name:        claims.DisplayName(),
		Email:       claims.Email,
		Username:    claims.PreferredUsername,
		ExpiresAt:   claims.ExpiresAt,
		TokenExpiry: rec.AccessExpiry(),
	}, nil
}
