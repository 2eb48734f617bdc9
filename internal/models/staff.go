package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StaffMember struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	UserID     uint             `json:"user_id" gorm:"uniqueIndex;not null"`
	User       *User            `json:"user,omitempty"`
	EmployeeID string           `json:"employee_id" gorm:"size:20;uniqueIndex;not null"`
	Role       string           `json:"role" gorm:"size:50;not null"`
	Phone      string           `json:"phone" gorm:"size:15"`
	HireDate   time.Time        `json:"hire_date" gorm:"type:date;not null"`
	IsActive   bool             `json:"is_active" gorm:"not null"`
	Salary     *decimal.Decimal `json:"salary,omitempty" gorm:"type:numeric(10,2)"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (StaffMember) TableName() string { return "staff" }

var StaffRoles = []string{"manager", "chef", "waiter", "cashier", "cleaner"}

// Shift times are zero padded HH:MM so they order as strings. Role may
// differ from the member's usual role for that shift.
type Shift struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	StaffID   uint         `json:"staff_id" gorm:"not null;uniqueIndex:idx_shift_slot,priority:1"`
	Staff     *StaffMember `json:"staff,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Date      time.Time    `json:"date" gorm:"type:date;not null;uniqueIndex:idx_shift_slot,priority:2"`
	StartTime string       `json:"start_time" gorm:"size:5;not null;uniqueIndex:idx_shift_slot,priority:3"`
	EndTime   string       `json:"end_time" gorm:"size:5;not null"`
	Role      string       `json:"role" gorm:"size:50;not null"`
}

type InventoryItem struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"size:100;not null"`
	Category         string          `json:"category" gorm:"size:50;not null"`
	Quantity         decimal.Decimal `json:"quantity" gorm:"type:numeric(10,2);not null"`
	Unit             string          `json:"unit" gorm:"size:20;not null"`
	MinimumThreshold decimal.Decimal `json:"minimum_threshold" gorm:"type:numeric(10,2);not null"`
	Supplier         string          `json:"supplier" gorm:"size:100"`
	UpdatedAt        time.Time       `json:"last_updated"`
}

func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinimumThreshold)
}

var (
	InventoryCategories = []string{"ingredients", "beverages", "supplies", "equipment"}
	InventoryUnits      = []string{"kg", "g", "l", "ml", "pieces", "boxes"}
)
