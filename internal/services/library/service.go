// Package library serves a fan's purchased tracks and purchase history.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	pgrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type OwnershipStore interface {
	Owns(ctx context.Context, userID, trackID string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]pgrepo.OwnedTrackRecord, error)
}

type TransactionStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]pgrepo.TransactionRecord, error)
}

type OwnershipCache interface {
	CachedOwns(ctx context.Context, userID, trackID string) (bool, bool, error)
	SetOwns(ctx context.Context, userID, trackID string, owns bool, ttl time.Duration) error
}

type Service struct {
	ownerships   OwnershipStore
	transactions TransactionStore
	cache        OwnershipCache
	cacheTTL     time.Duration
	logger       *zap.Logger
}

type Dependencies struct {
	Ownerships   OwnershipStore
	Transactions TransactionStore
	Cache        OwnershipCache
	CacheTTL     time.Duration
	Logger       *zap.Logger
}

func NewService(deps Dependencies) *Service {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		ownerships:   deps.Ownerships,
		transactions: deps.Transactions,
		cache:        deps.Cache,
		cacheTTL:     ttl,
		logger:       logger,
	}
}

func (s *Service) ListOwnedTracks(ctx context.Context, userID string, limit int) ([]pgrepo.OwnedTrackRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}

	items, err := s.ownerships.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list owned tracks: %w", err)
	}
	return items, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID string, limit int) ([]pgrepo.TransactionRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}

	items, err := s.transactions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}

// Owns answers the ownership check behind streaming and purchase guards.
// Cache misses fall through to the database and repopulate the cache; cache
// errors degrade to the database alone.
func (s *Service) Owns(ctx context.Context, userID, trackID string) (bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(trackID) == "" {
		return false, ErrValidation
	}

	if s.cache != nil {
		owns, found, err := s.cache.CachedOwns(ctx, userID, trackID)
		if err != nil {
			s.logger.Warn("ownership cache read", zap.Error(err))
		} else if found {
			return owns, nil
		}
	}

	owns, err := s.ownerships.Owns(ctx, userID, trackID)
	if err != nil {
		return false, fmt.Errorf("check ownership: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetOwns(ctx, userID, trackID, owns, s.cacheTTL); err != nil {
			s.logger.Warn("ownership cache write", zap.Error(err))
		}
	}

	return owns, nil
}
