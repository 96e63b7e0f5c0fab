package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a prospective order line. Unit price is copied from the menu
// item when the line is created and never refreshed afterwards.
type CartItem struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	UserID     uuid.UUID       `db:"user_id" json:"user_id"`
	MenuItemID uuid.UUID       `db:"menu_item_id" json:"menu_item_id"`
	Quantity   int             `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	Price      decimal.Decimal `db:"price" json:"price"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// CartLine is the cart view returned to the caller, with the menu item
// summary joined in.
type CartLine struct {
	MenuItemID uuid.UUID       `db:"menu_item_id" json:"menu_item_id"`
	Title      string          `db:"title" json:"title"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	Quantity   int             `db:"quantity" json:"quantity"`
	Price      decimal.Decimal `db:"price" json:"price"`
}
