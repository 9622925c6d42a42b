// Package payment abstracts the card-payment provider behind a small
// capability interface so services never touch vendor SDK types directly.
package payment

import (
	"context"
	"errors"
)

var (
	// ErrInvalidSignature means the webhook payload failed signature
	// verification and must not be trusted.
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")
	// ErrInvalidPayload means the payload was signed correctly but could not
	// be decoded into a known event shape.
	ErrInvalidPayload = errors.New("payment: invalid webhook payload")
)

// Metadata keys attached to every checkout session and propagated by the
// provider onto the resulting payment intent.
const (
	MetaUserID     = "user_id"
	MetaTrackID    = "track_id"
	MetaTrackTitle = "track_title"
)

// CheckoutParams describes a hosted-checkout session for a single track.
// UnitAmount is in the currency's minor units (cents for usd).
type CheckoutParams struct {
	UserID     string
	TrackID    string
	TrackTitle string
	UnitAmount int64
	Quantity   int64
	Currency   string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the provider-hosted payment page the buyer is
// redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// Intent is the provider's record of a single payment attempt. Amount is in
// minor units. FailureMessage is empty unless the attempt failed.
type Intent struct {
	ID             string
	Amount         int64
	Metadata       map[string]string
	FailureMessage string
}

type EventKind int

const (
	EventUnknown EventKind = iota
	EventCheckoutCompleted
	EventPaymentSucceeded
	EventPaymentFailed
)

// Event is a verified webhook notification. For payment events Intent is
// fully populated from the payload; for EventCheckoutCompleted only
// IntentID is known and the caller must fetch the intent itself.
type Event struct {
	Kind     EventKind
	Type     string
	Intent   Intent
	IntentID string
}

// Gateway is the provider capability surface used by checkout and
// fulfillment. Implementations must be safe for concurrent use.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error)
	GetIntent(ctx context.Context, id string) (Intent, error)
	ParseWebhook(payload []byte, signature string) (Event, error)
}
