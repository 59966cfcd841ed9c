package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docportal/internal/repository"
	"docportal/internal/service"
)

type sessionResponse struct {
	Authenticated bool  `json:"authenticated"`
	ExpiresAt     int64 `json:"expiresAt,omitempty"`
	Revoked       *bool `json:"revoked,omitempty"`
}

// Exchange trades the authorization code posted by the login page for a
// token record bound to the caller's session.
func Exchange(sessions service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req repository.ExchangeParams
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		rec, err := sessions.Login(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sessionResponse{Authenticated: true, ExpiresAt: rec.AccessExpiresAt})
	}
}

func Refresh(sessions service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := sessions.Refresh(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sessionResponse{Authenticated: true})
	}
}

// Logout always clears the local record; revoked reports whether the
// backend confirmed.
func Logout(sessions service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		revoked, err := sessions.Logout(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sessionResponse{Authenticated: false, Revoked: &revoked})
	}
}

// Me returns the profile decoded from the stored tokens, or the backend's
// own view of the user when remote=true.
func Me(sessions service.SessionService, auth func() repository.AuthRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.QueryBool("remote") {
			me, err := auth().Me(c.UserContext())
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(me)
		}
		p, err := sessions.Profile(c.UserContext())
		switch {
		case errors.Is(err, service.ErrNotAuthenticated):
			return writeServiceError(c, err)
		case err != nil:
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "stored token is unreadable")
		}
		return c.JSON(p)
	}
}

// RequireSession refreshes an expired access token before the request
// reaches the API and rejects callers without a session.
func RequireSession(sessions service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := sessions.EnsureFresh(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.Next()
	}
}
