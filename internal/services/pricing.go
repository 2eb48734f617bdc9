package services

import (
	"restaurant_ordering/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OrderTotal is the sum of unit price times quantity over items.
func OrderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// TipAmount rounds half away from zero to two places.
func TipAmount(total, percentage decimal.Decimal) (decimal.Decimal, error) {
	if percentage.IsNegative() {
		return decimal.Zero, invalid("tip", "tip percentage cannot be negative")
	}
	return total.Mul(percentage).Div(hundred).Round(2), nil
}
