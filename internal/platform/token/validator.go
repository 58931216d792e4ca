package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"fieldgate/internal/platform/middleware"
)

// Validator verifies HS256 access tokens minted by the platform's auth
// service. Only validation lives here; issuance belongs to that service.
type Validator struct {
	signingKey []byte
}

func NewValidator(signingKey string) *Validator {
	return &Validator{signingKey: []byte(signingKey)}
}

func (v *Validator) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	sessionID, _ := claims["sid"].(string)

	return &middleware.JWTClaims{UserID: subject, SessionID: sessionID}, nil
}
