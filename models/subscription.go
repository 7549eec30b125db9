package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription statuses
const (
	SubscriptionStatusPendingPayment = "pending_payment"
	SubscriptionStatusActive         = "active"
	SubscriptionStatusPaused         = "paused"
	SubscriptionStatusCancelled      = "cancelled"
)

// SubscriptionPeriodDays is the length of a billing period. Marking a
// pending subscription paid restarts the period, ending this many days
// after payment.
const SubscriptionPeriodDays = 30

// Subscription represents a member's plan over a rolling 30-day period.
// A user may accumulate several rows over time; the most recently created
// active one is the subscription that counts for quota purposes.
type Subscription struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"index;not null"`
	User               User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	PlanID             string     `json:"plan_id" gorm:"not null"`
	PlanName           string     `json:"plan_name"`
	Status             string     `json:"status" gorm:"index;default:'pending_payment'"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CancelAt           *time.Time `json:"cancel_at"`
	PausedAt           *time.Time `json:"paused_at"`

	Members []SubscriptionMember `json:"members,omitempty" gorm:"foreignKey:SubscriptionID"`
}

// IsExpired reports whether the subscription's period has lapsed. Expiry is
// time-derived: a row can still read "active" after the period has rolled over.
func (s *Subscription) IsExpired(now time.Time) bool {
	return now.After(s.CurrentPeriodEnd)
}

// SubscriptionMember links a secondary user onto a bundle subscription,
// sharing its pooled daily quota.
type SubscriptionMember struct {
	gorm.Model
	SubscriptionID uint `json:"subscription_id" gorm:"uniqueIndex:idx_sub_member;not null"`
	MemberUserID   uint `json:"member_user_id" gorm:"uniqueIndex:idx_sub_member;not null"`
	User           User `json:"user,omitempty" gorm:"foreignKey:MemberUserID"`
}
