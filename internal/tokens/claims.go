package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of ID/access token claims shown as a profile.
type Claims struct {
	Subject           string    `json:"sub"`
	Email             string    `json:"email,omitempty"`
	Name              string    `json:"name,omitempty"`
	PreferredUsername string    `json:"preferred_username,omitempty"`
	ExpiresAt         time.Time `json:"exp,omitzero"`
}

// DecodeClaims reads claims from a JWT without verifying its signature.
// The backend is the only party that validates tokens.
func DecodeClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}

	c := Claims{
		Subject:           stringClaim(mc, "sub"),
		Email:             stringClaim(mc, "email"),
		Name:              stringClaim(mc, "name"),
		PreferredUsername: stringClaim(mc, "preferred_username"),
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// DisplayName picks the most readable identity claim.
func (c Claims) DisplayName() string {
	for _, v := range []string{c.Name, c.PreferredUsername, c.Email, c.Subject} {
		if v != "" {
			return v
		}
	}
	return ""
}

func stringClaim(mc jwt.MapClaims, key string) string {
	if v, ok := mc[key].(string); ok {
		return v
	}
	return ""
}
