package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus int

const (
	StatusOutForDelivery OrderStatus = 0
	StatusDelivered      OrderStatus = 1
)

// IsValid rejects everything outside {0, 1}; out-of-range values are never
// clamped.
func (s OrderStatus) IsValid() bool {
	return s == StatusOutForDelivery || s == StatusDelivered
}

type Order struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	UserID       uuid.UUID       `db:"user_id" json:"user_id"`
	Status       OrderStatus     `db:"order_status" json:"order_status"`
	DeliveryCrew *uuid.UUID      `db:"delivery_crew_id" json:"delivery_crew,omitempty"`
	Total        decimal.Decimal `db:"total" json:"total"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	Items        []OrderItem     `db:"-" json:"items,omitempty"`
}

// OrderItem is a line snapshotted from the cart at order creation; it is
// never mutated afterwards.
type OrderItem struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OrderID    uuid.UUID `db:"order_id" json:"order_id"`
	MenuItemID uuid.UUID `db:"menu_item_id" json:"menu_item_id"`
	Quantity   int       `db:"quantity" json:"quantity"`
}
