// Package fulfillment turns verified payment webhooks into transactions and
// ownership grants.
package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Aizen-Agency/dreamster-be/internal/payment"
	pgrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/postgres"
)

var (
	// ErrMissingMetadata means a verified payment event arrived without the
	// user and track ids checkout stamps on every intent.
	ErrMissingMetadata = errors.New("payment intent missing purchase metadata")
	// ErrInvalidReference means the webhook metadata pointed at a user or
	// track this database does not know.
	ErrInvalidReference = errors.New("webhook references unknown rows")
)

type Outcome string

const (
	// OutcomeCompleted: first delivery, transaction stored and ownership
	// granted.
	OutcomeCompleted Outcome = "completed"
	// OutcomeFailed: failed payment attempt recorded.
	OutcomeFailed Outcome = "failed"
	// OutcomeDuplicate: payment id already recorded by an earlier delivery.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeIgnored: verified event we do not act on.
	OutcomeIgnored Outcome = "ignored"
)

type TransactionStore interface {
	RecordCompleted(ctx context.Context, userID, trackID string, amount decimal.Decimal, paymentID string) (pgrepo.TransactionRecord, bool, error)
	RecordFailed(ctx context.Context, userID, trackID string, amount decimal.Decimal, paymentID, errorMessage string) (pgrepo.TransactionRecord, bool, error)
}

// OwnershipCache is invalidated after a grant so the stream path sees the
// purchase immediately.
type OwnershipCache interface {
	InvalidateOwns(ctx context.Context, userID, trackID string) error
}

type Service struct {
	gateway      payment.Gateway
	transactions TransactionStore
	cache        OwnershipCache
	logger       *zap.Logger
}

type Dependencies struct {
	Gateway      payment.Gateway
	Transactions TransactionStore
	Cache        OwnershipCache
	Logger       *zap.Logger
}

type Result struct {
	Outcome       Outcome
	EventType     string
	TransactionID string
	PaymentID     string
	UserID        string
	TrackID       string
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		gateway:      deps.Gateway,
		transactions: deps.Transactions,
		cache:        deps.Cache,
		logger:       logger,
	}
}

// HandleWebhook verifies the payload signature and applies the event.
// Redelivered events resolve to OutcomeDuplicate and unknown event types to
// OutcomeIgnored; both are success from the provider's point of view so it
// stops retrying. Events missing purchase metadata are rejected with
// ErrMissingMetadata since retrying them can never succeed.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (Result, error) {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return Result{}, err
	}

	switch event.Kind {
	case payment.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event)
	case payment.EventPaymentSucceeded:
		return s.fulfillSucceeded(ctx, event.Type, event.Intent)
	case payment.EventPaymentFailed:
		return s.recordFailure(ctx, event.Type, event.Intent)
	default:
		s.logger.Debug("ignoring webhook event", zap.String("event_type", event.Type))
		return Result{Outcome: OutcomeIgnored, EventType: event.Type}, nil
	}
}

// handleCheckoutCompleted fetches the intent named by the session. Sessions
// that never reached a payment intent carry nothing to fulfill.
func (s *Service) handleCheckoutCompleted(ctx context.Context, event payment.Event) (Result, error) {
	if event.IntentID == "" {
		s.logger.Warn("checkout session completed without payment intent")
		return Result{Outcome: OutcomeIgnored, EventType: event.Type}, nil
	}

	intent, err := s.gateway.GetIntent(ctx, event.IntentID)
	if err != nil {
		return Result{}, fmt.Errorf("fetch intent for completed session: %w", err)
	}

	return s.fulfillSucceeded(ctx, event.Type, intent)
}

func (s *Service) fulfillSucceeded(ctx context.Context, eventType string, intent payment.Intent) (Result, error) {
	userID, trackID, ok := purchaseContext(intent)
	if !ok {
		s.logger.Warn("payment intent missing purchase metadata",
			zap.String("payment_id", intent.ID))
		return Result{}, ErrMissingMetadata
	}

	amount := decimal.New(intent.Amount, -2)
	rec, created, err := s.transactions.RecordCompleted(ctx, userID, trackID, amount, intent.ID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrInvalidReference) {
			return Result{}, ErrInvalidReference
		}
		return Result{}, fmt.Errorf("record completed transaction: %w", err)
	}

	result := Result{
		Outcome:       OutcomeCompleted,
		EventType:     eventType,
		TransactionID: rec.ID,
		PaymentID:     intent.ID,
		UserID:        userID,
		TrackID:       trackID,
	}
	if !created {
		result.Outcome = OutcomeDuplicate
		return result, nil
	}

	if s.cache != nil {
		if err := s.cache.InvalidateOwns(ctx, userID, trackID); err != nil {
			s.logger.Warn("invalidate ownership cache",
				zap.String("user_id", userID),
				zap.String("track_id", trackID),
				zap.Error(err))
		}
	}

	s.logger.Info("purchase fulfilled",
		zap.String("transaction_id", rec.ID),
		zap.String("payment_id", intent.ID),
		zap.String("user_id", userID),
		zap.String("track_id", trackID),
		zap.String("amount", amount.StringFixed(2)))
	return result, nil
}

func (s *Service) recordFailure(ctx context.Context, eventType string, intent payment.Intent) (Result, error) {
	userID, trackID, ok := purchaseContext(intent)
	if !ok {
		s.logger.Warn("failed payment intent missing purchase metadata",
			zap.String("payment_id", intent.ID))
		return Result{}, ErrMissingMetadata
	}

	message := intent.FailureMessage
	if message == "" {
		message = "payment failed"
	}

	amount := decimal.New(intent.Amount, -2)
	rec, created, err := s.transactions.RecordFailed(ctx, userID, trackID, amount, intent.ID, message)
	if err != nil {
		if errors.Is(err, pgrepo.ErrInvalidReference) {
			return Result{}, ErrInvalidReference
		}
		return Result{}, fmt.Errorf("record failed transaction: %w", err)
	}

	result := Result{
		Outcome:       OutcomeFailed,
		EventType:     eventType,
		TransactionID: rec.ID,
		PaymentID:     intent.ID,
		UserID:        userID,
		TrackID:       trackID,
	}
	if !created {
		result.Outcome = OutcomeDuplicate
		return result, nil
	}

	s.logger.Info("payment failure recorded",
		zap.String("transaction_id", rec.ID),
		zap.String("payment_id", intent.ID),
		zap.String("reason", message))
	return result, nil
}

func purchaseContext(intent payment.Intent) (string, string, bool) {
	if intent.ID == "" {
		return "", "", false
	}
	userID := intent.Metadata[payment.MetaUserID]
	trackID := intent.Metadata[payment.MetaTrackID]
	if userID == "" || trackID == "" {
		return "", "", false
	}
	return userID, trackID, true
}
