// Package perks exposes the bonus content unlocked by owning a track.
package perks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type PerkStore interface {
	ListActiveForOwner(ctx context.Context, userID string, limit int) ([]pgrepo.OwnedPerkRecord, error)
}

type Service struct {
	perks PerkStore
}

func NewService(perks PerkStore) *Service {
	return &Service{perks: perks}
}

// ListForUser returns every active perk on tracks the user owns. Deactivated
// perks drop out of the list without touching ownership.
func (s *Service) ListForUser(ctx context.Context, userID string, limit int) ([]pgrepo.OwnedPerkRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}

	items, err := s.perks.ListActiveForOwner(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list perks: %w", err)
	}
	return items, nil
}
