package models

import "time"

// Redeemable item types
const (
	ItemTypeCoffee  = "coffee"
	ItemTypeFood    = "food"
	ItemTypeDessert = "dessert"
)

// ValidItemType reports whether the given item type is one we redeem.
func ValidItemType(itemType string) bool {
	switch itemType {
	case ItemTypeCoffee, ItemTypeFood, ItemTypeDessert:
		return true
	}
	return false
}

// Usage is one redemption event in the append-only ledger. Rows are never
// updated or deleted; remaining quota is always recomputed by counting rows
// in the relevant window.
type Usage struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"index;not null"`
	SubscriptionID uint      `json:"subscription_id" gorm:"index;not null"`
	ItemType       string    `json:"item_type" gorm:"not null"`
	ItemName       string    `json:"item_name"`
	Location       string    `json:"location"`
	RedeemedAt     time.Time `json:"redeemed_at" gorm:"index;not null"`
}

// TableName keeps the historical singular table name.
func (Usage) TableName() string {
	return "usage"
}
