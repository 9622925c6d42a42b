package model

import "time"

type TrackPerk struct {
	ID          string    `json:"id"`
	TrackID     string    `json:"track_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         *string   `json:"url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
