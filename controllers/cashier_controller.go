package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// CashierInviteRequest represents the admin's invitation of counter staff
type CashierInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// CashierAcceptRequest represents the cashier accepting their invite
type CashierAcceptRequest struct {
	Token    string `json:"token" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required,min=8"`
}

// CashierLoginRequest represents the cashier login request
type CashierLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// InviteCashierHandler handles POST /admin/cashiers/invite. The invited
// record is created immediately so revocation works even before acceptance.
func InviteCashierHandler(c *gin.Context) {
	utils.LogInfo("InviteCashierHandler called")

	var req CashierInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid cashier invite request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	req.Email = utils.SanitizeString(req.Email)
	req.Name = utils.Title(utils.SanitizeString(req.Name))

	adminVal, _ := c.Get("admin")
	admin, _ := adminVal.(models.Admin)

	cashier := models.Cashier{
		Email:     req.Email,
		Name:      req.Name,
		InvitedBy: admin.Email,
		Status:    models.CashierStatusInvited,
	}
	if err := config.DB.Where("email = ?", req.Email).FirstOrCreate(&cashier).Error; err != nil {
		utils.LogError("Failed to create cashier record for %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create cashier", err.Error())
		return
	}
	if cashier.Status == models.CashierStatusRevoked {
		utils.Forbidden(c, "This cashier has been revoked; reactivate instead of reinviting")
		return
	}

	token, err := utils.GenerateCashierInviteToken(req.Email)
	if err != nil {
		utils.LogError("Failed to generate cashier invite token: %v", err)
		utils.InternalServerError(c, "Failed to create invitation", err.Error())
		return
	}

	acceptURL := fmt.Sprintf("%s/cashiers/accept?token=%s", baseURL(), token)
	if err := utils.SendCashierInviteEmail(req.Email, req.Name, acceptURL); err != nil {
		utils.LogError("Failed to send cashier invite to %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send invitation email", err.Error())
		return
	}

	utils.LogInfo("Cashier %s invited by %s", req.Email, admin.Email)
	utils.Success(c, "Invitation sent", gin.H{
		"cashier": gin.H{
			"id":     cashier.ID,
			"email":  cashier.Email,
			"status": cashier.Status,
		},
	})
}

// AcceptCashierInviteHandler handles POST /cashiers/accept: the invitee
// sets a password and the account flips to active.
func AcceptCashierInviteHandler(c *gin.Context) {
	utils.LogInfo("AcceptCashierInviteHandler called")

	var req CashierAcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid cashier accept request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	email, err := utils.ParseCashierInviteToken(req.Token)
	if err != nil {
		utils.LogDebug("Cashier invite token rejected: %v", err)
		utils.Unauthorized(c, utils.ErrInvalidToken)
		return
	}

	var cashier models.Cashier
	if err := config.DB.Where("email = ?", email).First(&cashier).Error; err != nil {
		utils.NotFound(c, "Invitation not found")
		return
	}
	if cashier.Status == models.CashierStatusRevoked {
		utils.Forbidden(c, "This invitation has been revoked")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash cashier password: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	updates := map[string]interface{}{
		"password": hashed,
		"status":   models.CashierStatusActive,
	}
	if req.Name != "" {
		updates["name"] = utils.Title(utils.SanitizeString(req.Name))
	}
	if err := config.DB.Model(&cashier).Updates(updates).Error; err != nil {
		utils.LogError("Failed to activate cashier %s: %v", email, err)
		utils.InternalServerError(c, "Failed to activate account", err.Error())
		return
	}

	utils.LogInfo("Cashier %s activated", email)
	utils.Success(c, "Account activated, you can now log in", gin.H{
		"cashier": gin.H{
			"id":     cashier.ID,
			"email":  cashier.Email,
			"status": models.CashierStatusActive,
		},
	})
}

// CashierLogin handles cashier authentication at the counter
func CashierLogin(c *gin.Context) {
	utils.LogInfo("CashierLogin called")

	var req CashierLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid cashier login request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	var cashier models.Cashier
	if err := config.DB.Where("email = ?", req.Email).First(&cashier).Error; err != nil {
		utils.LogError("Cashier not found for email: %s: %v", req.Email, err)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}
	if cashier.Status != models.CashierStatusActive {
		utils.Forbidden(c, "Cashier account is not active")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cashier.Password), []byte(req.Password)); err != nil {
		utils.LogError("Invalid password for cashier: %s", cashier.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	cashier.LastLogin = time.Now()
	if err := config.DB.Save(&cashier).Error; err != nil {
		utils.LogError("Failed to update last login for cashier: %s: %v", cashier.Email, err)
	}

	tokenString, err := signStaffToken(jwt.MapClaims{
		"cashier_id": cashier.ID,
		"exp":        time.Now().Add(time.Hour * 12).Unix(),
	})
	if err != nil {
		utils.LogError("Failed to sign JWT token for cashier: %s: %v", cashier.Email, err)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	utils.LogInfo("Cashier login successful: %s", cashier.Email)
	utils.Success(c, "Login successful", gin.H{
		"token": tokenString,
		"cashier": gin.H{
			"id":    cashier.ID,
			"email": cashier.Email,
			"name":  cashier.Name,
		},
	})
}

// ListCashiersHandler handles GET /admin/cashiers
func ListCashiersHandler(c *gin.Context) {
	utils.LogInfo("ListCashiersHandler called")

	var cashiers []models.Cashier
	if err := config.DB.Order("created_at DESC").Find(&cashiers).Error; err != nil {
		utils.LogError("Failed to fetch cashiers: %v", err)
		utils.InternalServerError(c, "Failed to fetch cashiers", err.Error())
		return
	}
	utils.Success(c, "Cashiers retrieved", gin.H{"cashiers": cashiers})
}

// RevokeCashierHandler handles POST /admin/cashiers/:id/revoke. Revoked
// cashiers keep their record but every counter token stops working on
// the next request.
func RevokeCashierHandler(c *gin.Context) {
	utils.LogInfo("RevokeCashierHandler called")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "Invalid cashier ID", nil)
		return
	}

	var cashier models.Cashier
	if err := config.DB.First(&cashier, uint(id)).Error; err != nil {
		utils.NotFound(c, "Cashier not found")
		return
	}

	if err := config.DB.Model(&cashier).Update("status", models.CashierStatusRevoked).Error; err != nil {
		utils.LogError("Failed to revoke cashier %d: %v", cashier.ID, err)
		utils.InternalServerError(c, "Failed to revoke cashier", err.Error())
		return
	}

	utils.LogInfo("Cashier %d revoked", cashier.ID)
	utils.Success(c, "Cashier revoked", gin.H{
		"cashier": gin.H{
			"id":     cashier.ID,
			"email":  cashier.Email,
			"status": models.CashierStatusRevoked,
		},
	})
}
