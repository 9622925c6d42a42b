package dto

import "time"

type OwnedTrack struct {
	TrackID       string    `json:"track_id"`
	Title         string    `json:"title"`
	Genre         string    `json:"genre"`
	Price         string    `json:"price"`
	ArtistID      string    `json:"artist_id"`
	ArtistName    string    `json:"artist_name"`
	DurationSec   int       `json:"duration_sec"`
	TransactionID string    `json:"transaction_id"`
	PurchasedAt   time.Time `json:"purchased_at"`
}

type LibraryResponse struct {
	Tracks []OwnedTrack `json:"tracks"`
}

type Transaction struct {
	ID           string    `json:"id"`
	TrackID      string    `json:"track_id"`
	Amount       string    `json:"amount"`
	PaymentID    string    `json:"payment_id"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type OwnsResponse struct {
	TrackID string `json:"track_id"`
	Owned   bool   `json:"owned"`
}
