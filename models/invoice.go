package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice statuses
const (
	InvoiceStatusPaid = "paid"
)

// DefaultCurrency is the club's billing currency.
const DefaultCurrency = "XCD"

// Invoice records one successful cash-payment activation. Exactly one row is
// created per mark-paid transition.
type Invoice struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"index;not null"`
	User           User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	SubscriptionID *uint      `json:"subscription_id" gorm:"index"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency" gorm:"default:'XCD'"`
	Status         string     `json:"status"`
	PaidAt         *time.Time `json:"paid_at"`
	IssuedBy       string     `json:"issued_by"`
}
