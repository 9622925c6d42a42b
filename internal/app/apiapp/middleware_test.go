package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/Aizen-Agency/dreamster-be/internal/services/auth"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"case insensitive scheme", "bearer abc", "abc", true},
		{"missing scheme", "abc.def.ghi", "", false},
		{"empty token", "Bearer ", "", false},
		{"empty header", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractBearerToken(tc.header)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("extractBearerToken(%q) = (%q, %v), want (%q, %v)", tc.header, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestAuthMiddlewareInjectsIdentity(t *testing.T) {
	mgr := authsvc.NewJWTManager("test-secret", time.Minute)
	userID := uuid.NewString()
	token, _, err := mgr.GenerateAccessToken(userID, "fan")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var seen authsvc.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("identity missing from context")
		}
		seen = identity
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/library", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(mgr, nil)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if seen.UserID != userID || seen.Role != "fan" {
		t.Fatalf("unexpected identity: %+v", seen)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	mgr := authsvc.NewJWTManager("test-secret", time.Minute)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/library", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(mgr, nil)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	mgr := authsvc.NewJWTManager("test-secret", time.Minute)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/library", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	AuthMiddleware(mgr, nil)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
