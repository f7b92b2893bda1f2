package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the part of the token the dashboard displays.
type Claims struct {
	// Subject is the user's email.
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry in the past.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ParseClaims decodes the token payload without verifying the signature.
// The backend verifies tokens; the client only reads them for display.
func ParseClaims(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}, fmt.Errorf("failed to decode token: %w", err)
	}

	var c Claims
	c.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if role, ok := claims["role"].(string); ok {
		c.Role = role
	}
	return c, nil
}

// Email returns the token subject, or "" if the token cannot be decoded.
func Email(token string) string {
	c, err := ParseClaims(token)
	if err != nil {
		return ""
	}
	return c.Subject
}
