package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Aizen-Agency/dreamster-be/internal/domain/enums"
)

type Track struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Genre       enums.Genre     `json:"genre"`
	Price       decimal.Decimal `json:"price"`
	Approved    bool            `json:"approved"`
	Active      bool            `json:"active"`
	ArtistID    string          `json:"artist_id"`
	AudioKey    string          `json:"-"`
	ArtworkKey  string          `json:"-"`
	DurationSec int             `json:"duration_sec"`
	StreamCount int             `json:"stream_count"`
	SalesCount  int             `json:"sales_count"`
	LikeCount   int             `json:"like_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Purchasable reports whether a track may appear in a checkout session.
func (t Track) Purchasable() bool {
	return t.Approved && t.Active
}
