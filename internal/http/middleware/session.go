package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docportal/internal/tokens"
)

const (
	// SessionCookie names the cookie that identifies a browser session.
	SessionCookie    = "portal_session"
	// SessionLocalKey stores the session ID in Fiber's context locals.
	SessionLocalKey  = "session_id"
	sessionKeyPrefix = "session:"
)

// SessionConfig tunes the session cookie.
type SessionConfig struct {
	Secure bool
	MaxAge time.Duration
}

// SessionKey is the token store key for a session ID.
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Session assigns each browser a random session ID and scopes token store
// operations on the user context to it. Cookies that are not UUIDs are
// replaced.
func Session(cfg SessionConfig) fiber.Handler {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	return func(c *fiber.Ctx) error {
		id := c.Cookies(SessionCookie)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(maxAge.Seconds()),
				Secure:   cfg.Secure,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(SessionLocalKey, id)
		c.SetUserContext(tokens.WithKey(c.UserContext(), SessionKey(id)))
		return c.Next()
	}
}
