package service

import (
	"testing"
	"time"

	"github.com/chngmn/Quizly-server/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

func newTestJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: "test-secret", Expiry: time.Hour})
}

func TestJWTRoundTrip(t *testing.T) {
	s := newTestJWTService()

	token, err := s.GenerateToken("65f000000000000000000001", "quizzer")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := s.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.UserID != "65f000000000000000000001" || claims.Nickname != "quizzer" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expected 1h lifetime, got %v", got)
	}
}

func TestJWTRejects(t *testing.T) {
	s := newTestJWTService()
	valid, _ := s.GenerateToken("u1", "nick")

	expired := newTestJWTService()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.GenerateToken("u1", "nick")

	otherKey := NewJWTService(&config.JWTConfig{Secret: "other", Expiry: time.Hour})
	foreignToken, _ := otherKey.GenerateToken("u1", "nick")

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
	}).SignedString([]byte("test-secret"))

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not.a.token",
		"expired":        expiredToken,
		"wrong secret":   foreignToken,
		"none algorithm": noneToken,
		"no expiry":      noExpiry,
		"tampered":       valid[:len(valid)-2] + "xx",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := s.VerifyToken(token); err == nil {
				t.Errorf("expected %s token to be rejected", name)
			}
		})
	}
}
