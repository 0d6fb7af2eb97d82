package models

import (
	"time"
)

// UserRole is the ServeSoft role vocabulary stored on the backend.
// Clients remap it into their own categories.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleManager  UserRole = "manager"
	RoleDriver   UserRole = "driver"
	RoleAdmin    UserRole = "admin"
)

// Valid reports whether r is one of the backend roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleManager, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'customer'"`
	Phone        string    `json:"phone,omitempty"`
	Town         string    `json:"town,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RevokedToken records a JWT ID invalidated by logout. Rows past ExpiresAt
// can be purged since the token would be rejected anyway.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
