package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()

	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	g := NewStripeGateway("sk_test_x", testWebhookSecret)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{}}}`)
	_, err := g.ParseWebhook(payload, signPayload(t, payload, "whsec_wrong"))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestParseWebhookPaymentSucceeded(t *testing.T) {
	g := NewStripeGateway("sk_test_x", testWebhookSecret)

	payload := []byte(`{
		"id": "evt_1",
		"api_version": "2023-10-16",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_123",
			"amount": 1250,
			"metadata": {"user_id": "u1", "track_id": "t1", "track_title": "Neon Drift"}
		}}
	}`)

	event, err := g.ParseWebhook(payload, signPayload(t, payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if event.Kind != EventPaymentSucceeded {
		t.Fatalf("kind = %v, want EventPaymentSucceeded", event.Kind)
	}
	if event.Intent.ID != "pi_123" || event.Intent.Amount != 1250 {
		t.Fatalf("unexpected intent: %+v", event.Intent)
	}
	if event.Intent.Metadata["track_id"] != "t1" {
		t.Fatalf("metadata not decoded: %+v", event.Intent.Metadata)
	}
}

func TestParseWebhookPaymentFailedCarriesMessage(t *testing.T) {
	g := NewStripeGateway("sk_test_x", testWebhookSecret)

	payload := []byte(`{
		"id": "evt_2",
		"api_version": "2023-10-16",
		"type": "payment_intent.payment_failed",
		"data": {"object": {
			"id": "pi_456",
			"amount": 500,
			"metadata": {"user_id": "u1", "track_id": "t1"},
			"last_payment_error": {"message": "card declined"}
		}}
	}`)

	event, err := g.ParseWebhook(payload, signPayload(t, payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if event.Kind != EventPaymentFailed {
		t.Fatalf("kind = %v, want EventPaymentFailed", event.Kind)
	}
	if event.Intent.FailureMessage != "card declined" {
		t.Fatalf("failure message = %q", event.Intent.FailureMessage)
	}
}

func TestParseWebhookCheckoutCompleted(t *testing.T) {
	g := NewStripeGateway("sk_test_x", testWebhookSecret)

	payload := []byte(`{
		"id": "evt_3",
		"api_version": "2023-10-16",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "payment_intent": "pi_789"}}
	}`)

	event, err := g.ParseWebhook(payload, signPayload(t, payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if event.Kind != EventCheckoutCompleted {
		t.Fatalf("kind = %v, want EventCheckoutCompleted", event.Kind)
	}
	if event.IntentID != "pi_789" {
		t.Fatalf("intent id = %q, want pi_789", event.IntentID)
	}
}

func TestParseWebhookUnknownType(t *testing.T) {
	g := NewStripeGateway("sk_test_x", testWebhookSecret)

	payload := []byte(`{"id":"evt_4","api_version":"2023-10-16","type":"invoice.paid","data":{"object":{}}}`)
	event, err := g.ParseWebhook(payload, signPayload(t, payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if event.Kind != EventUnknown {
		t.Fatalf("kind = %v, want EventUnknown", event.Kind)
	}
	if event.Type != "invoice.paid" {
		t.Fatalf("type = %q", event.Type)
	}
}
