// Package checkout creates hosted payment sessions for track purchases.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Aizen-Agency/dreamster-be/internal/domain/model"
	"github.com/Aizen-Agency/dreamster-be/internal/payment"
	pgrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/postgres"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrUserNotFound        = errors.New("user not found")
	ErrTrackNotFound       = errors.New("track not found")
	ErrTrackNotPurchasable = errors.New("track not purchasable")
	ErrInvalidAmount       = errors.New("track price is not chargeable")
	ErrAlreadyOwned        = errors.New("track already owned")
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (model.User, error)
}

type TrackStore interface {
	Get(ctx context.Context, trackID string) (pgrepo.TrackRecord, error)
}

type OwnershipStore interface {
	Owns(ctx context.Context, userID, trackID string) (bool, error)
}

type Service struct {
	gateway     payment.Gateway
	users       UserStore
	tracks      TrackStore
	ownerships  OwnershipStore
	successURL  string
	cancelURL   string
	currency    string
	maxQuantity int64
}

type Dependencies struct {
	Gateway     payment.Gateway
	Users       UserStore
	Tracks      TrackStore
	Ownerships  OwnershipStore
	SuccessURL  string
	CancelURL   string
	Currency    string
	MaxQuantity int64
}

type CreateSessionInput struct {
	TrackID  string
	Quantity int64
}

type Session struct {
	SessionID string
	URL       string
	TrackID   string
	Title     string
	Amount    decimal.Decimal
	Currency  string
	Quantity  int64
}

func NewService(deps Dependencies) *Service {
	maxQuantity := deps.MaxQuantity
	if maxQuantity <= 0 {
		maxQuantity = 10
	}
	currency := strings.ToLower(strings.TrimSpace(deps.Currency))
	if currency == "" {
		currency = "usd"
	}

	return &Service{
		gateway:     deps.Gateway,
		users:       deps.Users,
		tracks:      deps.Tracks,
		ownerships:  deps.Ownerships,
		successURL:  deps.SuccessURL,
		cancelURL:   deps.CancelURL,
		currency:    currency,
		maxQuantity: maxQuantity,
	}
}

// CreateSession validates the track and hands the buyer a provider-hosted
// payment page. The session carries user and track ids in metadata so the
// webhook can fulfill without any server-side session state.
func (s *Service) CreateSession(ctx context.Context, userID string, in CreateSessionInput) (Session, error) {
	if strings.TrimSpace(userID) == "" {
		return Session{}, ErrValidation
	}
	trackID := strings.TrimSpace(in.TrackID)
	if trackID == "" {
		return Session{}, ErrValidation
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > s.maxQuantity {
		return Session{}, ErrValidation
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Session{}, ErrUserNotFound
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}

	track, err := s.tracks.Get(ctx, trackID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTrackNotFound) {
			return Session{}, ErrTrackNotFound
		}
		return Session{}, fmt.Errorf("load track: %w", err)
	}

	if !track.Approved || !track.Active {
		return Session{}, ErrTrackNotPurchasable
	}

	unitAmount, err := minorUnits(track.Price)
	if err != nil {
		return Session{}, ErrInvalidAmount
	}

	owned, err := s.ownerships.Owns(ctx, userID, trackID)
	if err != nil {
		return Session{}, fmt.Errorf("check ownership: %w", err)
	}
	if owned {
		return Session{}, ErrAlreadyOwned
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		UserID:     userID,
		TrackID:    track.ID,
		TrackTitle: track.Title,
		UnitAmount: unitAmount,
		Quantity:   quantity,
		Currency:   s.currency,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		return Session{}, fmt.Errorf("create checkout session: %w", err)
	}

	return Session{
		SessionID: sess.ID,
		URL:       sess.URL,
		TrackID:   track.ID,
		Title:     track.Title,
		Amount:    track.Price.Mul(decimal.NewFromInt(quantity)),
		Currency:  s.currency,
		Quantity:  quantity,
	}, nil
}

// minorUnits converts a price like 12.50 into 1250 cents. Prices with more
// than two decimal places or non-positive values cannot be charged.
func minorUnits(price decimal.Decimal) (int64, error) {
	cents := price.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("price %s has sub-cent precision", price)
	}
	amount := cents.IntPart()
	if amount <= 0 {
		return 0, fmt.Errorf("price %s is not chargeable", price)
	}
	return amount, nil
}
