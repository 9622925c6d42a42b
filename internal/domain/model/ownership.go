package model

import "time"

// TrackOwnership grants a user access to a track. The (user, track) pair is
// unique regardless of repeat purchase attempts.
type TrackOwnership struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TrackID       string    `json:"track_id"`
	TransactionID string    `json:"transaction_id"`
	PurchasedAt   time.Time `json:"purchased_at"`
}
