package dto

type CheckoutSessionRequest struct {
	TrackID  string `json:"track_id"`
	Quantity int64  `json:"quantity,omitempty"`
}

type CheckoutSessionResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
	TrackID     string `json:"track_id"`
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Quantity    int64  `json:"quantity"`
}

type WebhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}
