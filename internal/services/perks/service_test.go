package perks

import (
	"context"
	"errors"
	"testing"

	pgrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/postgres"
)

type stubPerkStore struct {
	items []pgrepo.OwnedPerkRecord
	err   error
}

func (s *stubPerkStore) ListActiveForOwner(_ context.Context, _ string, _ int) ([]pgrepo.OwnedPerkRecord, error) {
	return s.items, s.err
}

func TestListForUserReturnsPerks(t *testing.T) {
	store := &stubPerkStore{items: []pgrepo.OwnedPerkRecord{
		{PerkID: "perk-1", TrackID: "track-1", Title: "Stems download"},
	}}
	svc := NewService(store)

	items, err := svc.ListForUser(context.Background(), "user-1", 50)
	if err != nil {
		t.Fatalf("list perks: %v", err)
	}
	if len(items) != 1 || items[0].PerkID != "perk-1" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestListForUserRejectsEmptyUser(t *testing.T) {
	svc := NewService(&stubPerkStore{})
	if _, err := svc.ListForUser(context.Background(), "  ", 50); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
