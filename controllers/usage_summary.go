package controllers

import (
	"time"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
)

// UsageSummary counts a member's redemptions since local midnight.
type UsageSummary struct {
	Coffees  int `json:"coffees"`
	Food     int `json:"food"`
	Desserts int `json:"desserts"`
	Total    int `json:"total"`
}

// GetTodayUsageSummary returns today's redemption counts for a user. The
// window uses the same day boundary as the redemption validator so dashboards
// and validation never disagree about what "today" means.
func GetTodayUsageSummary(userID uint) (UsageSummary, error) {
	startOfDay := periodClock.StartOfDay(time.Now().UTC())

	var usage []models.Usage
	if err := config.DB.Where("user_id = ? AND redeemed_at >= ?", userID, startOfDay).
		Find(&usage).Error; err != nil {
		utils.LogError("Failed to fetch today summary for user %d: %v", userID, err)
		return UsageSummary{}, err
	}

	summary := UsageSummary{Total: len(usage)}
	for _, u := range usage {
		switch u.ItemType {
		case models.ItemTypeCoffee:
			summary.Coffees++
		case models.ItemTypeFood:
			summary.Food++
		case models.ItemTypeDessert:
			summary.Desserts++
		}
	}
	return summary, nil
}

// GetRedemptionHistory returns the user's most recent usage rows, newest
// first.
func GetRedemptionHistory(userID uint, limit int) ([]models.Usage, error) {
	if limit <= 0 {
		limit = utils.DefaultHistoryLimit
	}

	var usage []models.Usage
	if err := config.DB.Where("user_id = ?", userID).
		Order("redeemed_at DESC").
		Limit(limit).
		Find(&usage).Error; err != nil {
		utils.LogError("Failed to fetch redemption history for user %d: %v", userID, err)
		return nil, err
	}
	return usage, nil
}

// GetPeriodCoffeeCount counts coffees redeemed on a subscription since its
// period start. This feeds the informational monthly-allowance figure on
// dashboards; it is a separate axis from the day/week caps the validator
// enforces and must stay out of validation.
func GetPeriodCoffeeCount(subscriptionID uint, periodStart time.Time) (int64, error) {
	var count int64
	if err := config.DB.Model(&models.Usage{}).
		Where("subscription_id = ? AND item_type = ? AND redeemed_at >= ?",
			subscriptionID, models.ItemTypeCoffee, periodStart).
		Count(&count).Error; err != nil {
		utils.LogError("Failed to count period coffees for subscription %d: %v", subscriptionID, err)
		return 0, err
	}
	return count, nil
}
