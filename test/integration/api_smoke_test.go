package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Aizen-Agency/dreamster-be/internal/app/apiapp"
	"github.com/Aizen-Agency/dreamster-be/internal/config"
)

// newTestApp boots the full router. Postgres, redis and s3 are absent in
// this environment, so the app comes up in degraded mode; routing, auth and
// webhook signature checks still work.
func newTestApp(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	ts := httptest.NewServer(app.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthz(t *testing.T) {
	ts := newTestApp(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestApp(t)

	for _, path := range []string{"/v1/library", "/v1/library/transactions", "/v1/perks"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", path, resp.StatusCode)
		}
	}

	resp, err := http.Post(ts.URL+"/v1/payments/checkout-session", "application/json", strings.NewReader(`{"track_id":"x"}`))
	if err != nil {
		t.Fatalf("post checkout-session: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("checkout-session: status = %d, want 401", resp.StatusCode)
	}
}

func TestWebhookRejectsUnsignedPayload(t *testing.T) {
	ts := newTestApp(t)

	resp, err := http.Post(ts.URL+"/v1/payments/webhook", "application/json", strings.NewReader(`{"type":"payment_intent.succeeded"}`))
	if err != nil {
		t.Fatalf("post webhook: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
