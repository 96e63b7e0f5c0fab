package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Title     string          `db:"title" json:"title"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Inventory int             `db:"inventory" json:"inventory"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
