package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

type Order struct {
	ID          string     `json:"id" db:"id"`
	Reference   string     `json:"reference" db:"reference"`
	Username    string     `json:"username,omitempty" db:"username"`
	Items       []CartLine `json:"items"`
	TotalAmount float64    `json:"total_amount" db:"total_amount"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type CheckoutResponse struct {
	OrderID   string `json:"order_id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}
