package controllers

import (
	"errors"
	"time"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// JoinRequest represents the signup request body
type JoinRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	PlanID string `json:"planId"`
}

// JoinHandler handles POST /join: create or reuse the user, open a
// pending subscription, and remind them to settle payment at the counter.
func JoinHandler(c *gin.Context) {
	utils.LogInfo("JoinHandler called")

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid join request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	req.Email = utils.SanitizeString(req.Email)
	req.Name = utils.Title(utils.SanitizeString(req.Name))
	req.Phone = utils.SanitizeString(req.Phone)

	if fieldErrs := utils.ValidateJoinInput(req.Email, req.Name, req.Phone); len(fieldErrs) > 0 {
		utils.ValidationError(c, "Validation failed", fieldErrs)
		return
	}

	planID := models.NormalizePlanID(req.PlanID)
	planName := models.PlanDisplayName(req.PlanID)

	user, err := utils.GetOrCreateUser(req.Email, req.Name, req.Phone)
	if err != nil {
		utils.LogError("Failed to get or create user %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", err.Error())
		return
	}

	// An existing active subscription means nothing to create; return it so
	// the frontend can route straight to the dashboard.
	var existing models.Subscription
	err = config.DB.Where("user_id = ? AND status = ?", user.ID, models.SubscriptionStatusActive).
		Order("created_at DESC").First(&existing).Error
	if err == nil {
		utils.LogDebug("User %d already has active subscription %d", user.ID, existing.ID)
		issueMemberCookie(c, user)
		utils.Success(c, "Already a member", gin.H{
			"user":         user,
			"subscription": existing,
			"existing":     true,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError("Failed to check existing subscription for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to check existing membership", err.Error())
		return
	}

	now := time.Now().UTC()
	subscription := models.Subscription{
		UserID:             user.ID,
		PlanID:             string(planID),
		PlanName:           planName,
		Status:             models.SubscriptionStatusPendingPayment,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 0, models.SubscriptionPeriodDays),
	}
	if err := config.DB.Create(&subscription).Error; err != nil {
		utils.LogError("Failed to create subscription for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create subscription", err.Error())
		return
	}

	utils.LogInfo("User %d joined plan %s (subscription %d, pending payment)", user.ID, planID, subscription.ID)

	if err := utils.SendCashPaymentReminderEmail(user.Email, user.Name, planName); err != nil {
		utils.LogError("Failed to send payment reminder to %s: %v", user.Email, err)
	}

	issueMemberCookie(c, user)

	utils.Created(c, "Membership created, payment pending", gin.H{
		"user":         user,
		"subscription": subscription,
		"plan": gin.H{
			"id":    planID,
			"name":  planName,
			"price": models.PlanPrice(req.PlanID),
		},
	})
}

// issueMemberCookie signs a session token and sets the member cookie.
// Failures are logged and swallowed; the join itself already succeeded.
func issueMemberCookie(c *gin.Context, user *models.User) {
	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		return
	}
	c.SetCookie("bgc_user", token, int((24 * time.Hour).Seconds()), "/", "", false, true)
}
