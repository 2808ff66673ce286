package authUtils

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// SessionTTL matches the cookie Max-Age the site gate has always used.
const SessionTTL = 24 * time.Hour

// GenerateSessionToken mints the signed value for the site-gate session
// cookie.
func GenerateSessionToken(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET is not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "site-session",
		"exp": time.Now().Add(SessionTTL).Unix(),
	})

	return token.SignedString([]byte(secret))
}

// ValidateSessionToken reports whether a presented cookie value is a
// valid, unexpired session token.
func ValidateSessionToken(secret, tokenString string) bool {
	if secret == "" || tokenString == "" {
		return false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	return err == nil && token.Valid
}
