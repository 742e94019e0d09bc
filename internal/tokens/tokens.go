package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when a token decodes but carries no exp claim.
var ErrNoExpiry = errors.New("token has no exp claim")

// ExpiresAt reads the exp claim of a JWT access token. The signature is NOT
// verified: the shop API owns its keys, the gateway only reports the expiry.
// Opaque (non-JWT) tokens return an error.
func ExpiresAt(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, fmt.Errorf("decode token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// Subject reads the sub claim of a JWT access token without verifying it.
// The shop API issues numeric subjects, so both string and number forms are accepted.
func Subject(raw string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	switch v := claims["sub"].(type) {
	case string:
		return v, nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	}
	return "", fmt.Errorf("sub claim missing")
}
