package payment

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway implements Gateway on top of the Stripe API. It holds its
// own client instance instead of mutating the SDK's global key.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error) {
	meta := map[string]string{
		MetaUserID:     p.UserID,
		MetaTrackID:    p.TrackID,
		MetaTrackTitle: p.TrackTitle,
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.TrackTitle),
					},
				},
				Quantity: stripe.Int64(p.Quantity),
			},
		},
		// Duplicated onto the payment intent so payment_intent.* webhooks
		// carry the track context without an extra lookup.
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: meta,
		},
	}
	params.Context = ctx
	for k, v := range meta {
		params.AddMetadata(k, v)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}

	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return Intent{}, fmt.Errorf("get payment intent %s: %w", id, err)
	}

	return intentFromStripe(pi), nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := Event{Kind: EventUnknown, Type: string(event.Type)}

	switch string(event.Type) {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return Event{}, fmt.Errorf("%w: decode session: %v", ErrInvalidPayload, err)
		}
		out.Kind = EventCheckoutCompleted
		if sess.PaymentIntent != nil {
			out.IntentID = sess.PaymentIntent.ID
		}
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return Event{}, fmt.Errorf("%w: decode intent: %v", ErrInvalidPayload, err)
		}
		out.Intent = intentFromStripe(&pi)
		out.IntentID = pi.ID
		if string(event.Type) == "payment_intent.succeeded" {
			out.Kind = EventPaymentSucceeded
		} else {
			out.Kind = EventPaymentFailed
		}
	}

	return out, nil
}

func intentFromStripe(pi *stripe.PaymentIntent) Intent {
	out := Intent{
		ID:       pi.ID,
		Amount:   pi.Amount,
		Metadata: pi.Metadata,
	}
	if pi.LastPaymentError != nil {
		out.FailureMessage = pi.LastPaymentError.Msg
	}
	return out
}
