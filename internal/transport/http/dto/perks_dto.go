package dto

import "time"

type Perk struct {
	PerkID      string    `json:"perk_id"`
	TrackID     string    `json:"track_id"`
	TrackTitle  string    `json:"track_title"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

type PerksResponse struct {
	Perks []Perk `json:"perks"`
}
