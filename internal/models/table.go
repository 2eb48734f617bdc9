package models

import "time"

// DiningTable is a single availability gate; reservations carry no history
// and no time bound.
type DiningTable struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Number      int       `json:"table_number" gorm:"unique;not null"`
	Capacity    int       `json:"capacity" gorm:"not null"`
	IsAvailable bool      `json:"is_available" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
