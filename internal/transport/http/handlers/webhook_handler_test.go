package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Aizen-Agency/dreamster-be/internal/payment"
	pgrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/postgres"
	fulfillsvc "github.com/Aizen-Agency/dreamster-be/internal/services/fulfillment"
	"github.com/Aizen-Agency/dreamster-be/internal/transport/http/dto"
)

type fakeGateway struct {
	event    payment.Event
	parseErr error
	lastSig  string
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, _ payment.CheckoutParams) (payment.CheckoutSession, error) {
	return payment.CheckoutSession{ID: "cs_test", URL: "https://pay.example/cs_test"}, nil
}

func (f *fakeGateway) GetIntent(_ context.Context, _ string) (payment.Intent, error) {
	return payment.Intent{}, errors.New("not implemented")
}

func (f *fakeGateway) ParseWebhook(_ []byte, signature string) (payment.Event, error) {
	f.lastSig = signature
	if f.parseErr != nil {
		return payment.Event{}, f.parseErr
	}
	return f.event, nil
}

type fakeTransactionStore struct {
	recorded map[string]pgrepo.TransactionRecord
	err      error
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{recorded: map[string]pgrepo.TransactionRecord{}}
}

func (f *fakeTransactionStore) record(userID, trackID string, amount decimal.Decimal, paymentID, status string) (pgrepo.TransactionRecord, bool, error) {
	if f.err != nil {
		return pgrepo.TransactionRecord{}, false, f.err
	}
	if rec, ok := f.recorded[paymentID]; ok {
		return rec, false, nil
	}
	rec := pgrepo.TransactionRecord{
		ID:        "txn-" + paymentID,
		UserID:    userID,
		TrackID:   trackID,
		Amount:    amount,
		PaymentID: paymentID,
		Status:    status,
	}
	f.recorded[paymentID] = rec
	return rec, true, nil
}

func (f *fakeTransactionStore) RecordCompleted(_ context.Context, userID, trackID string, amount decimal.Decimal, paymentID string) (pgrepo.TransactionRecord, bool, error) {
	return f.record(userID, trackID, amount, paymentID, "completed")
}

func (f *fakeTransactionStore) RecordFailed(_ context.Context, userID, trackID string, amount decimal.Decimal, paymentID, _ string) (pgrepo.TransactionRecord, bool, error) {
	return f.record(userID, trackID, amount, paymentID, "failed")
}

func succeededEvent() payment.Event {
	return payment.Event{
		Kind: payment.EventPaymentSucceeded,
		Type: "payment_intent.succeeded",
		Intent: payment.Intent{
			ID:     "pi_1",
			Amount: 1250,
			Metadata: map[string]string{
				payment.MetaUserID:  "user-1",
				payment.MetaTrackID: "track-1",
			},
		},
	}
}

func newWebhookHandler(gw payment.Gateway) *WebhookHandler {
	svc := fulfillsvc.NewService(fulfillsvc.Dependencies{
		Gateway:      gw,
		Transactions: newFakeTransactionStore(),
	})
	return NewWebhookHandler(svc, nil)
}

func postWebhook(t *testing.T, handler *WebhookHandler, signature string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", signature)
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func TestWebhookHandlerAcksFulfilledEvent(t *testing.T) {
	gw := &fakeGateway{event: succeededEvent()}
	rec := postWebhook(t, newWebhookHandler(gw), "t=1,v1=abc")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if gw.lastSig != "t=1,v1=abc" {
		t.Fatalf("signature header not forwarded, got %q", gw.lastSig)
	}

	var resp dto.WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Received || resp.Outcome != "completed" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWebhookHandlerRejectsBadSignature(t *testing.T) {
	gw := &fakeGateway{parseErr: payment.ErrInvalidSignature}
	core, logs := observer.New(zapcore.WarnLevel)
	svc := fulfillsvc.NewService(fulfillsvc.Dependencies{
		Gateway:      gw,
		Transactions: newFakeTransactionStore(),
	})
	handler := NewWebhookHandler(svc, zap.New(core))

	rec := postWebhook(t, handler, "bad")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	entries := logs.FilterMessage("webhook signature verification failed").All()
	if len(entries) != 1 {
		t.Fatalf("signature failures logged = %d, want 1", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("log level = %s, want warn", entries[0].Level)
	}
}

func TestWebhookHandlerMapsStoreFailureTo500(t *testing.T) {
	store := newFakeTransactionStore()
	store.err = errors.New("connection refused")
	svc := fulfillsvc.NewService(fulfillsvc.Dependencies{
		Gateway:      &fakeGateway{event: succeededEvent()},
		Transactions: store,
	})

	rec := postWebhook(t, NewWebhookHandler(svc, nil), "sig")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 so the provider redelivers", rec.Code)
	}
}

func TestWebhookHandlerAcksDuplicateDelivery(t *testing.T) {
	handler := newWebhookHandler(&fakeGateway{event: succeededEvent()})

	if rec := postWebhook(t, handler, "sig"); rec.Code != http.StatusOK {
		t.Fatalf("first delivery status = %d", rec.Code)
	}
	rec := postWebhook(t, handler, "sig")
	if rec.Code != http.StatusOK {
		t.Fatalf("second delivery status = %d, want 200", rec.Code)
	}

	var resp dto.WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Outcome != "duplicate" {
		t.Fatalf("outcome = %q, want duplicate", resp.Outcome)
	}
}

func TestWebhookHandlerRejectsMetadatalessEvent(t *testing.T) {
	event := succeededEvent()
	event.Intent.Metadata = nil
	rec := postWebhook(t, newWebhookHandler(&fakeGateway{event: event}), "sig")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MISSING_METADATA") {
		t.Fatalf("body = %s, want MISSING_METADATA code", rec.Body.String())
	}
}

func TestWebhookHandlerAcksUnknownEvent(t *testing.T) {
	gw := &fakeGateway{event: payment.Event{Kind: payment.EventUnknown, Type: "invoice.paid"}}
	rec := postWebhook(t, newWebhookHandler(gw), "sig")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
