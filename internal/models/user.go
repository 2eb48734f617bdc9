package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"size:150;unique;not null"`
	Email        string         `json:"email" gorm:"size:254;unique;not null"`
	FirstName    string         `json:"first_name" gorm:"size:150"`
	LastName     string         `json:"last_name" gorm:"size:150"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         string         `json:"role" gorm:"size:20;not null"` // admin, staff, customer
	IsActive     bool           `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

type UserRole string

const (
	Admin    UserRole = "admin"
	Staff    UserRole = "staff"
	Customer UserRole = "customer"
)

// IsStaffRole reports whether role may perform privileged restaurant actions.
func IsStaffRole(role string) bool {
	return role == string(Admin) || role == string(Staff)
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return u.Username
}
