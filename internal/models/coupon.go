package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coupon struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	Code               string          `json:"code" gorm:"size:50;uniqueIndex;not null"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage" gorm:"type:numeric(5,2);not null"`
	IsActive           bool            `json:"is_active" gorm:"not null"`
	ValidFrom          time.Time       `json:"valid_from" gorm:"type:date;not null"`
	ValidUntil         time.Time       `json:"valid_until" gorm:"type:date;not null"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ValidOn compares calendar days only.
func (c *Coupon) ValidOn(t time.Time) bool {
	if !c.IsActive {
		return false
	}
	day := dateOnly(t)
	return !day.Before(dateOnly(c.ValidFrom)) && !day.After(dateOnly(c.ValidUntil))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type PaymentMethod struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:50;unique;not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}
