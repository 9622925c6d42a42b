package dto

import "time"

type TrackResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Genre       string    `json:"genre"`
	Price       string    `json:"price"`
	ArtistID    string    `json:"artist_id"`
	ArtistName  string    `json:"artist_name"`
	DurationSec int       `json:"duration_sec"`
	StreamCount int64     `json:"stream_count"`
	SalesCount  int64     `json:"sales_count"`
	LikeCount   int64     `json:"like_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type StreamResponse struct {
	TrackID      string `json:"track_id"`
	URL          string `json:"url"`
	ExpiresInSec int64  `json:"expires_in_sec"`
	StreamCount  int64  `json:"stream_count"`
}
