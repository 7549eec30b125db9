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

// MembershipStatusRequest represents the counter's mark-paid request
type MembershipStatusRequest struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// UpdateMembershipStatusHandler handles POST /membership/status: staff mark
// a pending membership as paid after taking cash at the counter. Activation
// restarts the 30 day period from the moment of payment and issues an invoice.
func UpdateMembershipStatusHandler(c *gin.Context) {
	utils.LogInfo("UpdateMembershipStatusHandler called")

	var req MembershipStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid status request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	if req.Status != "paid" {
		utils.BadRequest(c, "Unsupported status; only \"paid\" is accepted", nil)
		return
	}

	userID, err := resolveUserID(req.UserID, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		utils.LogError("User lookup failed: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	var subscription models.Subscription
	err = config.DB.Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusPendingPayment).
		Order("created_at DESC").First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "No pending subscription found for this user")
			return
		}
		utils.LogError("Subscription lookup failed for user %d: %v", userID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	issuedBy, _ := c.Get("issued_by")
	issuer, _ := issuedBy.(string)

	now := time.Now().UTC()
	amount := models.PlanPrice(subscription.PlanID)

	invoice := models.Invoice{
		UserID:         userID,
		SubscriptionID: &subscription.ID,
		Amount:         amount,
		Currency:       models.DefaultCurrency,
		Status:         models.InvoiceStatusPaid,
		PaidAt:         &now,
		IssuedBy:       issuer,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&subscription).Updates(map[string]interface{}{
			"status":               models.SubscriptionStatusActive,
			"current_period_start": now,
			"current_period_end":   now.AddDate(0, 0, models.SubscriptionPeriodDays),
		}).Error; err != nil {
			return err
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		utils.LogError("Failed to activate subscription %d: %v", subscription.ID, err)
		utils.InternalServerError(c, "Failed to update membership status", err.Error())
		return
	}

	utils.LogInfo("Subscription %d activated for user %d by %s (invoice %d)",
		subscription.ID, userID, issuer, invoice.ID)

	if user, err := utils.GetUserByID(userID); err == nil && user.Email != "" {
		if err := utils.SendInvoiceEmail(user.Email, user.Name, subscription.PlanName,
			amount, invoice.Currency, invoice.ID); err != nil {
			utils.LogError("Failed to send invoice email to %s: %v", user.Email, err)
		}
	}

	utils.Success(c, "Membership activated", gin.H{
		"subscription": gin.H{
			"id":                 subscription.ID,
			"status":             models.SubscriptionStatusActive,
			"currentPeriodStart": now,
			"currentPeriodEnd":   now.AddDate(0, 0, models.SubscriptionPeriodDays),
		},
		"invoice": gin.H{
			"id":       invoice.ID,
			"amount":   invoice.Amount,
			"currency": invoice.Currency,
			"status":   invoice.Status,
		},
	})
}
