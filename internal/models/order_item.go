package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem snapshots the menu item's name and price when the line is written.
type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null;index"`
	ItemName   string          `json:"item_name" gorm:"size:150;not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
