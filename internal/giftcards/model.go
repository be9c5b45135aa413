package giftcards

import "time"

// GiftCard is one purchased gift-card code, reachable through the opaque
// access token handed out after checkout.
type GiftCard struct {
	Code       string     `json:"code"`
	OrderID    string     `json:"order_id"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
