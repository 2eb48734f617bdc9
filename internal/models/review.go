package models

import "time"

type CustomerReview struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"uniqueIndex;not null"`
	CustomerID uint      `json:"customer_id" gorm:"not null;index"`
	Rating     int       `json:"rating" gorm:"not null"`
	ReviewText string    `json:"review_text" gorm:"type:text"`
	IsApproved bool      `json:"is_approved" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

type Contact struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Email      string    `json:"email" gorm:"size:254;not null"`
	Subject    string    `json:"subject" gorm:"size:200;not null"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	IsResolved bool      `json:"is_resolved" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

type Restaurant struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:200;not null"`
	Address     string `json:"address" gorm:"type:text"`
	Phone       string `json:"phone" gorm:"size:15"`
	HasDelivery bool   `json:"has_delivery" gorm:"not null"`
	OpeningDays string `json:"opening_days" gorm:"size:100"`
}
