package orders

import "time"

// Status is the provider-reported payment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// StatusType buckets statuses for presentation: success, pending or error.
type StatusType string

const (
	TypeSuccess StatusType = "success"
	TypePending StatusType = "pending"
	TypeError   StatusType = "error"
)

// Type maps a raw status to its presentation bucket. Unknown statuses are
// treated as pending so the UI keeps polling rather than scaring the buyer.
func (s Status) Type() StatusType {
	switch s {
	case StatusPaid:
		return TypeSuccess
	case StatusFailed, StatusCancelled:
		return TypeError
	default:
		return TypePending
	}
}

// Terminal reports whether polling can stop.
func (s Status) Terminal() bool {
	return s.Type() != TypePending
}

// Order is one package purchase tracked through checkout.
type Order struct {
	ID               string    `json:"id"`
	Status           Status    `json:"status"`
	PackageName      string    `json:"package_name"`
	SessionsQuantity int       `json:"sessions_quantity"`
	FinalPrice       float64   `json:"final_price"`
	Currency         string    `json:"currency"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StatusView is the order status as returned to the caller.
type StatusView struct {
	Status           Status     `json:"status"`
	StatusType       StatusType `json:"statusType"`
	StatusMessage    string     `json:"statusMessage"`
	PackageName      string     `json:"packageName"`
	SessionsQuantity int        `json:"sessionsQuantity"`
	FinalPrice       float64    `json:"finalPrice"`
}
