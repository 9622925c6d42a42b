package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Aizen-Agency/dreamster-be/internal/domain/enums"
)

// Transaction is the durable record of a payment outcome. PaymentID is the
// gateway's payment-intent id and is unique: it is the idempotency key for
// webhook deliveries.
type Transaction struct {
	ID           string                  `json:"id"`
	UserID       string                  `json:"user_id"`
	TrackID      string                  `json:"track_id"`
	Amount       decimal.Decimal         `json:"amount"`
	PaymentID    string                  `json:"payment_id"`
	Status       enums.TransactionStatus `json:"status"`
	ErrorMessage *string                 `json:"error_message,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}
