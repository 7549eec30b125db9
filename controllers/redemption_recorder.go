package controllers

import (
	"time"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
)

// RecordRedemption appends one usage row to the ledger and returns it.
// Recording never re-checks quota; callers validate first.
func RecordRedemption(userID, subscriptionID uint, itemType, itemName, location string) (*models.Usage, error) {
	if location == "" {
		location = utils.DefaultLocation
	}

	usage := models.Usage{
		UserID:         userID,
		SubscriptionID: subscriptionID,
		ItemType:       itemType,
		ItemName:       itemName,
		Location:       location,
		RedeemedAt:     time.Now().UTC(),
	}

	if err := config.DB.Create(&usage).Error; err != nil {
		utils.LogError("Failed to record redemption for user %d: %v", userID, err)
		return nil, err
	}

	utils.LogInfo("Recorded %s redemption %d for user %d on subscription %d",
		itemType, usage.ID, userID, subscriptionID)
	return &usage, nil
}

// RecordRedemptionBulk appends quantity independent usage rows in a single
// insert, so a failure persists nothing. Each row is its own ledger entry,
// never one row with a count, which keeps remaining quota derivable by
// counting. The quantity-vs-remaining check happens one layer up, against
// the validator's output.
func RecordRedemptionBulk(userID, subscriptionID uint, itemType, itemName, location string, quantity int) ([]models.Usage, error) {
	if quantity < 1 {
		quantity = 1
	}
	if location == "" {
		location = utils.DefaultLocation
	}

	rows := make([]models.Usage, quantity)
	for i := range rows {
		rows[i] = models.Usage{
			UserID:         userID,
			SubscriptionID: subscriptionID,
			ItemType:       itemType,
			ItemName:       itemName,
			Location:       location,
			RedeemedAt:     time.Now().UTC(),
		}
	}

	if err := config.DB.Create(&rows).Error; err != nil {
		utils.LogError("Failed to record bulk redemption for user %d: %v", userID, err)
		return nil, err
	}

	utils.LogInfo("Recorded %d %s redemptions for user %d on subscription %d",
		quantity, itemType, userID, subscriptionID)
	return rows, nil
}
