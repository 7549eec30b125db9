package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ValidateRequest represents the validation request body
type ValidateRequest struct {
	UserID   uint   `json:"userId"`
	Email    string `json:"email"`
	ItemType string `json:"itemType"`
}

// RedeemRequest represents the redemption request body
type RedeemRequest struct {
	UserID   uint   `json:"userId"`
	Email    string `json:"email"`
	ItemType string `json:"itemType"`
	ItemName string `json:"itemName"`
	Location string `json:"location"`
	Quantity int    `json:"quantity"`
}

// resolveUserID turns a userId/email pair into a user ID, preferring the ID.
func resolveUserID(userID uint, email string) (uint, error) {
	if userID != 0 {
		return userID, nil
	}
	if email == "" {
		return 0, gorm.ErrRecordNotFound
	}
	user, err := utils.GetUserByEmail(email)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// validationResponse shapes a verdict for the counter UI
func validationResponse(validation RedemptionValidation) gin.H {
	resp := gin.H{
		"valid": validation.IsValid,
	}
	if !validation.IsValid {
		resp["reason"] = validation.Reason
		return resp
	}

	sub := validation.Subscription
	resp["subscription"] = gin.H{
		"id":        sub.ID,
		"planId":    sub.PlanID,
		"planName":  sub.PlanName,
		"status":    sub.Status,
		"expiresAt": sub.CurrentPeriodEnd,
	}
	resp["limits"] = gin.H{
		"remainingCoffees": validation.RemainingCoffees,
		"remainingFood":    validation.RemainingFood,
		"period": gin.H{
			"start": sub.CurrentPeriodStart,
			"end":   sub.CurrentPeriodEnd,
		},
	}
	resp["usageToday"] = validation.UsageToday
	resp["needsNotice"] = validation.NeedsNotice
	return resp
}

// ValidateRedemptionHandler handles POST /validate
func ValidateRedemptionHandler(c *gin.Context) {
	utils.LogInfo("ValidateRedemptionHandler called")

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid validate request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	if (req.UserID == 0 && req.Email == "") || req.ItemType == "" {
		utils.BadRequest(c, "Missing userId/email or itemType", nil)
		return
	}
	if !models.ValidItemType(req.ItemType) {
		utils.BadRequest(c, utils.ErrInvalidItemType, nil)
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

	validation := ValidateRedemption(userID, req.ItemType)
	utils.Success(c, "Validation completed", validationResponse(validation))
}

// GetValidationHandler handles GET /validate?userId=xxx, the counter's
// subscription/usage probe. Validates for coffee, the most common item.
func GetValidationHandler(c *gin.Context) {
	utils.LogInfo("GetValidationHandler called")

	userIDParam := c.Query("userId")
	email := c.Query("email")
	if userIDParam == "" && email == "" {
		utils.BadRequest(c, "Missing userId or email parameter", nil)
		return
	}

	var userID uint
	if userIDParam != "" {
		id, err := strconv.Atoi(userIDParam)
		if err != nil || id <= 0 {
			utils.BadRequest(c, "Invalid userId parameter", nil)
			return
		}
		userID = uint(id)
	}

	resolved, err := resolveUserID(userID, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		utils.LogError("User lookup failed: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	validation := ValidateRedemption(resolved, models.ItemTypeCoffee)
	if validation.Subscription == nil {
		utils.NotFound(c, "No subscription found")
		return
	}

	resp := validationResponse(validation)
	resp["memberUserId"] = resolved
	utils.Success(c, "Subscription retrieved", resp)
}

// RedeemHandler handles POST /redeem: validate, record, email a receipt.
//
// Validation and recording stay two separate steps so the counter flow
// mirrors what staff see; a concurrent redemption can slip between them.
func RedeemHandler(c *gin.Context) {
	utils.LogInfo("RedeemHandler called")

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid redeem request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	if (req.UserID == 0 && req.Email == "") || req.ItemType == "" || req.ItemName == "" {
		utils.BadRequest(c, "Missing required fields: userId, itemType, itemName", nil)
		return
	}
	if !models.ValidItemType(req.ItemType) {
		utils.BadRequest(c, utils.ErrInvalidItemType, nil)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
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

	// Step 1: validate
	validation := ValidateRedemption(userID, req.ItemType)
	if !validation.IsValid {
		utils.Forbidden(c, validation.Reason)
		return
	}

	// Step 2: bulk guard. The recorder never re-checks quota, so multi-item
	// redemptions are capped here against the validator's remaining figure.
	// Nothing is persisted when the guard trips.
	if req.Quantity > 1 {
		remaining := remainingForItem(validation, req.ItemType)
		if remaining != nil && req.Quantity > *remaining {
			utils.LogDebug("Bulk redemption rejected: quantity %d exceeds remaining %d", req.Quantity, *remaining)
			utils.Forbidden(c, fmt.Sprintf("Requested quantity %d exceeds remaining allowance (%d)", req.Quantity, *remaining))
			return
		}
	}

	// Step 3: record
	var redemptions []models.Usage
	if req.Quantity == 1 {
		redemption, err := RecordRedemption(userID, validation.Subscription.ID, req.ItemType, req.ItemName, req.Location)
		if err != nil {
			utils.InternalServerError(c, "Failed to record redemption", err.Error())
			return
		}
		redemptions = []models.Usage{*redemption}
	} else {
		redemptions, err = RecordRedemptionBulk(userID, validation.Subscription.ID, req.ItemType, req.ItemName, req.Location, req.Quantity)
		if err != nil {
			utils.InternalServerError(c, "Failed to record redemption", err.Error())
			return
		}
	}

	// Step 4: remaining counts after this redemption, derived locally from
	// the pre-redemption validation rather than a fresh query. A racing
	// redemption can make these drift from true state.
	remainingCoffees := consumeRemaining(validation.RemainingCoffees, req.ItemType == models.ItemTypeCoffee, req.Quantity)
	remainingFood := consumeRemaining(validation.RemainingFood, req.ItemType == models.ItemTypeFood, req.Quantity)

	// Step 5: receipt email, best effort
	sendRedemptionReceipt(userID, validation.Subscription, redemptions[0], remainingCoffees, remainingFood)

	utils.Success(c, "Redemption recorded", gin.H{
		"redemptions": redemptions,
		"subscription": gin.H{
			"planName": validation.Subscription.PlanName,
		},
		"remaining": gin.H{
			"coffees": remainingCoffees,
			"food":    remainingFood,
		},
		"needsNotice": validation.NeedsNotice,
	})
}

// remainingForItem picks the remaining figure governing the requested item.
func remainingForItem(validation RedemptionValidation, itemType string) *int {
	switch itemType {
	case models.ItemTypeCoffee:
		return validation.RemainingCoffees
	case models.ItemTypeFood:
		return validation.RemainingFood
	}
	return nil
}

// consumeRemaining subtracts the consumed quantity from a remaining figure,
// floored at zero. Nil stays nil: an uncapped axis never reports a number.
func consumeRemaining(remaining *int, consumed bool, quantity int) *int {
	if remaining == nil {
		return nil
	}
	value := *remaining
	if consumed {
		value -= quantity
		if value < 0 {
			value = 0
		}
	}
	return &value
}

func sendRedemptionReceipt(userID uint, sub *models.Subscription, redemption models.Usage, remainingCoffees, remainingFood *int) {
	user, err := utils.GetUserByID(userID)
	if err != nil || user.Email == "" {
		utils.LogDebug("Skipping receipt email for user %d: %v", userID, err)
		return
	}

	planName := sub.PlanName
	if planName == "" {
		planName = "Membership"
	}
	name := user.Name
	if name == "" {
		name = "Member"
	}

	if err := utils.SendRedemptionReceiptEmail(user.Email, name, planName,
		redemption.ItemType, redemption.ItemName, redemption.Location,
		redemption.RedeemedAt, remainingCoffees, remainingFood); err != nil {
		utils.LogError("Failed to send redemption receipt to %s: %v", user.Email, err)
	}
}
