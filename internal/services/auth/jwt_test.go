package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseAccessTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Minute)

	userID := uuid.NewString()
	token, expiresAt, err := mgr.GenerateAccessToken(userID, "fan")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("token already expired: %v", expiresAt)
	}

	claims, err := mgr.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %q, want %q", claims.UserID, userID)
	}
	if claims.Role != "fan" {
		t.Fatalf("role = %q, want fan", claims.Role)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Minute)
	verifier := NewJWTManager("secret-b", time.Minute)

	token, _, err := issuer.GenerateAccessToken(uuid.NewString(), "fan")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := verifier.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Minute)
	mgr.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	token, _, err := mgr.GenerateAccessToken(uuid.NewString(), "fan")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := mgr.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestParseAccessTokenRejectsNonUUIDSubject(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Minute)

	token, _, err := mgr.GenerateAccessToken("not-a-uuid", "fan")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := mgr.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-uuid subject, got %v", err)
	}
}

func TestParseAccessTokenRejectsEmpty(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Minute)
	if _, err := mgr.ParseAccessToken("  "); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
