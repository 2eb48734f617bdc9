package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;unique;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// MenuItem prices are copied into order items at order time; later price
// changes never touch placed orders.
type MenuItem struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" gorm:"size:150;not null;index"`
	Description string           `json:"description" gorm:"type:text"`
	Price       decimal.Decimal  `json:"price" gorm:"type:numeric(10,2);not null"`
	IsAvailable bool             `json:"is_available" gorm:"not null"`
	IsFeatured  bool             `json:"is_featured" gorm:"not null"`
	CategoryID  *uint            `json:"category_id" gorm:"index"`
	Category    *MenuCategory    `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Nutrition   *NutritionalInfo `json:"nutrition,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Ingredients []Ingredient     `json:"ingredients,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type NutritionalInfo struct {
	ID         uint            `json:"-" gorm:"primaryKey"`
	MenuItemID uint            `json:"-" gorm:"uniqueIndex;not null"`
	Calories   int             `json:"calories" gorm:"not null"`
	Protein    decimal.Decimal `json:"protein" gorm:"type:numeric(5,2);not null"`
	Carbs      decimal.Decimal `json:"carbs" gorm:"type:numeric(5,2);not null"`
	Fat        decimal.Decimal `json:"fat" gorm:"type:numeric(5,2);not null"`
}

type Ingredient struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"size:100;not null"`
	MenuItemID uint   `json:"-" gorm:"index;not null"`
}

type DailySpecial struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Available   bool            `json:"available" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
}
