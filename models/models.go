package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a club member in the system
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	GoogleID string `gorm:"default:null" json:"google_id"`

	Subscriptions []Subscription `json:"subscriptions,omitempty" gorm:"foreignKey:UserID"`
}

// Admin represents an administrator in the system
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// Cashier statuses
const (
	CashierStatusInvited = "invited"
	CashierStatusActive  = "active"
	CashierStatusRevoked = "revoked"
)

// Cashier represents counter staff allowed to validate and record redemptions
type Cashier struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	InvitedBy string    `json:"invited_by"`
	Status    string    `json:"status" gorm:"default:'invited'"`
	LastLogin time.Time `json:"last_login"`
}
