package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserMetadata is the free-form bag the identity provider attaches to a user.
// Canvas credentials may land here during onboarding before the settings row exists.
type UserMetadata struct {
	CanvasURL   string `json:"canvas_url"`
	CanvasToken string `json:"canvas_token"`
	FullName    string `json:"full_name"`
}

type Claims struct {
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

var ErrInvalidSubject = errors.New("invalid token subject")

func ParseToken(secret, issuer, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// UserID returns the token subject, which the identity provider issues as a UUID.
func (c *Claims) UserID() (string, error) {
	if c.Subject == "" {
		return "", ErrInvalidSubject
	}
	if _, err := uuid.Parse(c.Subject); err != nil {
		return "", ErrInvalidSubject
	}
	return c.Subject, nil
}
