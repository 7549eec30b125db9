package controllers

import (
	"strconv"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
	"github.com/gin-gonic/gin"
)

// GetMembershipHandler handles GET /membership: the member dashboard.
// Pulls the active subscription, today's usage, remaining allowances
// and recent redemption history in one response.
func GetMembershipHandler(c *gin.Context) {
	utils.LogInfo("GetMembershipHandler called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}
	user := userVal.(models.User)

	subscription, err := getActiveSubscription(user.ID)
	if err != nil {
		utils.LogDebug("No active subscription for user %d: %v", user.ID, err)
		utils.Success(c, "No active membership", gin.H{
			"user":         membershipUserView(user),
			"subscription": nil,
		})
		return
	}

	summary, err := GetTodayUsageSummary(user.ID)
	if err != nil {
		utils.LogError("Failed to load usage summary for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load usage", err.Error())
		return
	}

	limit := utils.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	history, err := GetRedemptionHistory(user.ID, limit)
	if err != nil {
		utils.LogError("Failed to load redemption history for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load history", err.Error())
		return
	}

	// Per-item verdicts let the dashboard grey out what the member
	// cannot redeem right now, with the same reasons the counter sees.
	coffeeValidation := ValidateRedemption(user.ID, models.ItemTypeCoffee)
	foodValidation := ValidateRedemption(user.ID, models.ItemTypeFood)

	planID := models.NormalizePlanID(subscription.PlanID)
	allowance := models.MonthlyCoffeeAllowance(subscription.PlanID)
	periodCoffees, err := GetPeriodCoffeeCount(subscription.ID, subscription.CurrentPeriodStart)
	if err != nil {
		utils.LogError("Failed to count period coffees for subscription %d: %v", subscription.ID, err)
		periodCoffees = 0
	}
	allowanceRemaining := allowance - int(periodCoffees)
	if allowanceRemaining < 0 {
		allowanceRemaining = 0
	}

	var members []models.SubscriptionMember
	if models.IsBundlePlan(subscription.PlanID) {
		if err := config.DB.Preload("User").Where("subscription_id = ?", subscription.ID).
			Find(&members).Error; err != nil {
			utils.LogError("Failed to load bundle members for subscription %d: %v", subscription.ID, err)
		}
	}

	utils.Success(c, "Membership retrieved", gin.H{
		"user": membershipUserView(user),
		"subscription": gin.H{
			"id":                 subscription.ID,
			"planId":             planID,
			"planName":           subscription.PlanName,
			"status":             subscription.Status,
			"currentPeriodStart": subscription.CurrentPeriodStart,
			"currentPeriodEnd":   subscription.CurrentPeriodEnd,
		},
		"usageToday": summary,
		"validations": gin.H{
			"coffee": gin.H{"valid": coffeeValidation.IsValid, "reason": coffeeValidation.Reason, "remaining": coffeeValidation.RemainingCoffees},
			"food":   gin.H{"valid": foodValidation.IsValid, "reason": foodValidation.Reason, "remaining": foodValidation.RemainingFood},
		},
		"monthlyAllowance": gin.H{
			"total":     allowance,
			"used":      periodCoffees,
			"remaining": allowanceRemaining,
		},
		"members":     members,
		"needsNotice": coffeeValidation.NeedsNotice,
		"history":     history,
	})
}

func membershipUserView(user models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"phone": user.Phone,
	}
}
