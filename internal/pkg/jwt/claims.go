// internal/pkg/jwt/claims.go
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims the console reads from an access token.
// Only the fields it needs to time the session are declared.
type Claims struct {
	Role       string `json:"role,omitempty"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
	jwt.RegisteredClaims
}

// TokenInfo is what the console learns from an access token without
// verifying it. The remote API remains the only party that checks signatures.
type TokenInfo struct {
	Subject    string
	Role       string
	EmployeeID *int64
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

var ErrNotJWT = errors.New("token is not a JWT")

// Inspect decodes the claims of a JWT access token without verifying its
// signature. Opaque tokens return ErrNotJWT.
func Inspect(token string) (*TokenInfo, error) {
	if strings.Count(token, ".") != 2 {
		return nil, ErrNotJWT
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	info := &TokenInfo{
		Subject:    claims.Subject,
		Role:       claims.Role,
		EmployeeID: claims.EmployeeID,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Lifetime resolves issued/expiry times for a token, falling back to now and
// now+ttl when the token does not carry them.
func Lifetime(token string, now time.Time, ttl time.Duration) (issuedAt, expiresAt time.Time) {
	issuedAt, expiresAt = now, now.Add(ttl)

	info, err := Inspect(token)
	if err != nil {
		return issuedAt, expiresAt
	}
	if !info.IssuedAt.IsZero() {
		issuedAt = info.IssuedAt
	}
	if !info.ExpiresAt.IsZero() {
		expiresAt = info.ExpiresAt
	}
	return issuedAt, expiresAt
}
