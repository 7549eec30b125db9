package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
	"gorm.io/gorm"
)

// periodClock computes local day/week boundaries for every usage window in
// the package. main replaces it with a clock built from the configured
// offset; tests swap it for a fixed one.
var periodClock = utils.NewClock(utils.DefaultTimezoneOffsetMinutes)

// SetPeriodClock installs the clock used for usage-window boundaries.
func SetPeriodClock(c utils.Clock) {
	periodClock = c
}

// RedemptionValidation is the verdict returned by ValidateRedemption. Policy
// denials and system faults both come back as IsValid=false with a
// human-readable Reason; the validator never returns an error to its caller.
// Nil remaining fields mean the plan has no cap on that axis.
type RedemptionValidation struct {
	IsValid          bool                  `json:"isValid"`
	Reason           string                `json:"reason,omitempty"`
	Subscription     *models.Subscription  `json:"subscription,omitempty"`
	RemainingCoffees *int                  `json:"remainingCoffees,omitempty"`
	RemainingFood    *int                  `json:"remainingFood,omitempty"`
	UsageToday       []models.Usage        `json:"usageToday,omitempty"`
	UsageThisWeek    []models.Usage        `json:"usageThisWeek,omitempty"`
	NeedsNotice      bool                  `json:"needsNotice,omitempty"`
}

func denyRedemption(reason string, sub *models.Subscription) RedemptionValidation {
	return RedemptionValidation{IsValid: false, Reason: reason, Subscription: sub}
}

// getActiveSubscription resolves the subscription that counts for quota
// purposes: the user's most recently created active subscription, or, for
// bundle seats, the active subscription they are linked to as a member.
func getActiveSubscription(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := config.DB.Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Order("created_at DESC").
		First(&sub).Error
	if err == nil {
		return &sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Shared membership: a subscription where this user holds a seat
	var member models.SubscriptionMember
	err = config.DB.Where("member_user_id = ?", userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}

	err = config.DB.Where("id = ? AND status = ?", member.SubscriptionID, models.SubscriptionStatusActive).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ValidateRedemption decides whether a member may redeem an item right now.
//
// Validation and recording are two separate round-trips. Concurrent
// redemptions against the same subscription can both pass validation before
// either is recorded; at cafe counter volumes we accept that transient
// over-redemption rather than locking.
func ValidateRedemption(userID uint, itemType string) RedemptionValidation {
	utils.LogInfo("ValidateRedemption called for user %d, item type %s", userID, itemType)

	sub, err := getActiveSubscription(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogDebug("No active subscription for user %d", userID)
			return denyRedemption(utils.ErrNoActiveSubscription, nil)
		}
		utils.LogError("Subscription lookup failed for user %d: %v", userID, err)
		return denyRedemption(utils.ErrValidationSystem, nil)
	}

	now := time.Now().UTC()
	if sub.IsExpired(now) {
		utils.LogDebug("Subscription %d expired at %v", sub.ID, sub.CurrentPeriodEnd)
		return denyRedemption(utils.ErrSubscriptionExpired, sub)
	}

	limits, ok := models.LimitsFor(models.NormalizePlanID(sub.PlanID))
	if !ok {
		utils.LogError("No policy for plan %q on subscription %d", sub.PlanID, sub.ID)
		return denyRedemption(utils.ErrInvalidPlanType, sub)
	}

	startOfDay := periodClock.StartOfDay(now)

	var usageToday []models.Usage
	if err := config.DB.Where("user_id = ? AND redeemed_at >= ?", userID, startOfDay).
		Find(&usageToday).Error; err != nil {
		utils.LogError("Failed to fetch today's usage for user %d: %v", userID, err)
		return denyRedemption(utils.ErrCheckingUsage, sub)
	}

	// Daily food limit
	if itemType == models.ItemTypeFood && limits.FoodPerDay > 0 {
		foodToday := countByType(usageToday, models.ItemTypeFood)
		if foodToday >= limits.FoodPerDay {
			remaining := 0
			return RedemptionValidation{
				IsValid:       false,
				Reason:        fmt.Sprintf("Daily food limit reached (%d)", limits.FoodPerDay),
				Subscription:  sub,
				UsageToday:    usageToday,
				RemainingFood: &remaining,
			}
		}
		remaining := limits.FoodPerDay - foodToday
		return RedemptionValidation{
			IsValid:       true,
			Subscription:  sub,
			UsageToday:    usageToday,
			RemainingFood: &remaining,
		}
	}

	// Weekly coffee limit, counted per user (the entry plan)
	if itemType == models.ItemTypeCoffee && limits.CoffeePerWeek > 0 {
		startOfWeek := periodClock.StartOfWeek(now)

		var usageThisWeek []models.Usage
		if err := config.DB.Where("user_id = ? AND item_type = ? AND redeemed_at >= ?",
			userID, models.ItemTypeCoffee, startOfWeek).
			Find(&usageThisWeek).Error; err != nil {
			utils.LogError("Failed to fetch week usage for user %d: %v", userID, err)
			return denyRedemption(utils.ErrCheckingUsage, sub)
		}

		coffeesThisWeek := len(usageThisWeek)
		if coffeesThisWeek >= limits.CoffeePerWeek {
			remaining := 0
			return RedemptionValidation{
				IsValid:          false,
				Reason:           fmt.Sprintf("Weekly coffee limit reached (%d)", limits.CoffeePerWeek),
				Subscription:     sub,
				UsageThisWeek:    usageThisWeek,
				RemainingCoffees: &remaining,
			}
		}

		// Weekly plans have no daily cap; flag heavy same-day use so counter
		// staff can check in with the member.
		remaining := limits.CoffeePerWeek - coffeesThisWeek
		return RedemptionValidation{
			IsValid:          true,
			Subscription:     sub,
			UsageThisWeek:    usageThisWeek,
			RemainingCoffees: &remaining,
			NeedsNotice:      countByType(usageToday, models.ItemTypeCoffee) >= utils.CoffeeNoticeThreshold,
		}
	}

	// Daily coffee cap, pooled per subscription across all its members
	if itemType == models.ItemTypeCoffee && limits.CoffeePerDay > 0 {
		var count int64
		if err := config.DB.Model(&models.Usage{}).
			Where("subscription_id = ? AND item_type = ? AND redeemed_at >= ?",
				sub.ID, models.ItemTypeCoffee, startOfDay).
			Count(&count).Error; err != nil {
			utils.LogError("Failed to count subscription usage for subscription %d: %v", sub.ID, err)
			return denyRedemption(utils.ErrCheckingUsage, sub)
		}

		if int(count) >= limits.CoffeePerDay {
			remaining := 0
			return RedemptionValidation{
				IsValid:          false,
				Reason:           fmt.Sprintf("Daily coffee limit reached (%d) for this subscription", limits.CoffeePerDay),
				Subscription:     sub,
				UsageToday:       usageToday,
				RemainingCoffees: &remaining,
			}
		}
		remaining := limits.CoffeePerDay - int(count)
		return RedemptionValidation{
			IsValid:          true,
			Subscription:     sub,
			UsageToday:       usageToday,
			RemainingCoffees: &remaining,
		}
	}

	// Item type not governed by any cap on this plan
	return RedemptionValidation{IsValid: true, Subscription: sub, UsageToday: usageToday}
}

func countByType(usage []models.Usage, itemType string) int {
	n := 0
	for _, u := range usage {
		if u.ItemType == itemType {
			n++
		}
	}
	return n
}
