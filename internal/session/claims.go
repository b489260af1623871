package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the console can learn from its access token without the
// signing key. It is informational only; the backend remains the authority.
type Claims struct {
	Subject   string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry that is before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Inspect decodes the token's claims without verifying its signature.
func Inspect(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}, fmt.Errorf("decoding access token: %w", err)
	}

	var c Claims
	if sub, err := claims.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	c.Name, _ = claims["name"].(string)
	c.Role, _ = claims["role"].(string)
	if c.Subject == "" {
		// Some backends put the admin id under "id" instead of "sub".
		c.Subject, _ = claims["id"].(string)
	}
	return c, nil
}
