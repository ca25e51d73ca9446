package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testUserID = "33333333-3333-3333-3333-333333333333"

func signToken(t *testing.T, secret, issuer, subject string, metadata UserMetadata) string {
	t.Helper()
	claims := Claims{
		Email:        "teacher@example.local",
		UserMetadata: metadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseToken(t *testing.T) {
	metadata := UserMetadata{CanvasURL: "school.instructure.com", CanvasToken: "tok-123"}
	token := signToken(t, "secret", "issuer", testUserID, metadata)

	claims, err := ParseToken("secret", "issuer", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Email != "teacher@example.local" {
		t.Fatalf("expected email claim, got %s", claims.Email)
	}
	if claims.UserMetadata.CanvasURL != "school.instructure.com" {
		t.Fatalf("expected metadata canvas_url, got %s", claims.UserMetadata.CanvasURL)
	}
	userID, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if userID != testUserID {
		t.Fatalf("expected subject %s, got %s", testUserID, userID)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "secret", "issuer", testUserID, UserMetadata{})
	if _, err := ParseToken("other-secret", "issuer", token); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestParseTokenRejectsWrongIssuer(t *testing.T) {
	token := signToken(t, "secret", "other-issuer", testUserID, UserMetadata{})
	if _, err := ParseToken("secret", "issuer", token); err == nil {
		t.Fatalf("expected error for wrong issuer")
	}
}

func TestUserIDRejectsNonUUIDSubject(t *testing.T) {
	token := signToken(t, "secret", "issuer", "not-a-uuid", UserMetadata{})
	claims, err := ParseToken("secret", "issuer", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if _, err := claims.UserID(); err == nil {
		t.Fatalf("expected error for non-uuid subject")
	}
}
