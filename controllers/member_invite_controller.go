package controllers

import (
	"fmt"
	"os"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
	"github.com/gin-gonic/gin"
)

// MemberInviteRequest represents a bundle-seat invitation request
type MemberInviteRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// MemberAcceptRequest represents the invitee's acceptance
type MemberAcceptRequest struct {
	Token string `json:"token"`
	Phone string `json:"phone"`
}

// InviteMemberHandler handles POST /members/invite: the owner of a bundle
// subscription invites someone onto a free seat. Seats are capped per plan
// and the invite travels as a signed, expiring token in an email link.
func InviteMemberHandler(c *gin.Context) {
	utils.LogInfo("InviteMemberHandler called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}
	owner := userVal.(models.User)

	var req MemberInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid invite request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	req.Email = utils.SanitizeString(req.Email)
	req.Name = utils.Title(utils.SanitizeString(req.Name))
	if !utils.ValidateEmail(req.Email) {
		utils.BadRequest(c, utils.ErrInvalidEmail, nil)
		return
	}

	subscription, err := getActiveSubscription(owner.ID)
	if err != nil {
		utils.NotFound(c, utils.ErrNoActiveSubscription)
		return
	}
	if subscription.UserID != owner.ID {
		utils.Forbidden(c, "Only the subscription owner can invite members")
		return
	}

	if !models.IsBundlePlan(subscription.PlanID) {
		utils.Forbidden(c, "This plan does not include additional members")
		return
	}

	// Seats: the owner occupies one, member links fill the rest.
	var linked int64
	if err := config.DB.Model(&models.SubscriptionMember{}).
		Where("subscription_id = ?", subscription.ID).Count(&linked).Error; err != nil {
		utils.LogError("Failed to count members for subscription %d: %v", subscription.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	maxSeats := models.MaxSeats(subscription.PlanID)
	if int(linked)+1 >= maxSeats {
		utils.Forbidden(c, fmt.Sprintf("All %d seats on this plan are taken", maxSeats))
		return
	}

	if req.Email == owner.Email {
		utils.BadRequest(c, "You already hold a seat on this subscription", nil)
		return
	}

	token, err := utils.GenerateMemberInviteToken(utils.MemberInvite{
		SubscriptionID: subscription.ID,
		Email:          req.Email,
		Name:           req.Name,
	})
	if err != nil {
		utils.LogError("Failed to generate invite token: %v", err)
		utils.InternalServerError(c, "Failed to create invitation", err.Error())
		return
	}

	inviteURL := fmt.Sprintf("%s/members/accept?token=%s", baseURL(), token)
	if err := utils.SendMemberInviteEmail(req.Email, subscription.PlanName, inviteURL); err != nil {
		utils.LogError("Failed to send invite email to %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send invitation email", err.Error())
		return
	}

	utils.LogInfo("User %d invited %s to subscription %d", owner.ID, req.Email, subscription.ID)
	utils.Success(c, "Invitation sent", gin.H{
		"email":          req.Email,
		"subscriptionId": subscription.ID,
		"seatsUsed":      int(linked) + 1,
		"seatsTotal":     maxSeats,
	})
}

// AcceptMemberInviteHandler handles GET and POST /members/accept: the
// invitee redeems the emailed token and gets linked onto the bundle
// subscription. Accepting twice is harmless; the link is created at most
// once. The token comes from the request body or, for emailed links, the
// query string.
func AcceptMemberInviteHandler(c *gin.Context) {
	utils.LogInfo("AcceptMemberInviteHandler called")

	var req MemberAcceptRequest
	if c.Request.Method == "POST" {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.LogError("Invalid accept request: %v", err)
			utils.BadRequest(c, "Invalid input", err.Error())
			return
		}
	}
	if req.Token == "" {
		req.Token = c.Query("token")
	}
	if req.Token == "" {
		utils.BadRequest(c, "Missing invite token", nil)
		return
	}

	invite, err := utils.ParseMemberInviteToken(req.Token)
	if err != nil {
		utils.LogDebug("Invite token rejected: %v", err)
		utils.Unauthorized(c, utils.ErrInvalidToken)
		return
	}

	var subscription models.Subscription
	if err := config.DB.First(&subscription, invite.SubscriptionID).Error; err != nil {
		utils.NotFound(c, "Subscription no longer exists")
		return
	}
	if subscription.Status != models.SubscriptionStatusActive {
		utils.Forbidden(c, "This subscription is not active")
		return
	}

	// Re-check seat capacity at accept time; other invites may have
	// been accepted since this one was issued.
	var linked int64
	if err := config.DB.Model(&models.SubscriptionMember{}).
		Where("subscription_id = ?", subscription.ID).Count(&linked).Error; err != nil {
		utils.LogError("Failed to count members for subscription %d: %v", subscription.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	if int(linked)+1 >= models.MaxSeats(subscription.PlanID) {
		utils.Forbidden(c, "All seats on this plan have been taken")
		return
	}

	user, err := utils.GetOrCreateUser(invite.Email, invite.Name, utils.SanitizeString(req.Phone))
	if err != nil {
		utils.LogError("Failed to get or create invitee %s: %v", invite.Email, err)
		utils.InternalServerError(c, "Failed to create account", err.Error())
		return
	}

	member := models.SubscriptionMember{
		SubscriptionID: subscription.ID,
		MemberUserID:   user.ID,
	}
	if err := config.DB.Where("subscription_id = ? AND member_user_id = ?", subscription.ID, user.ID).
		FirstOrCreate(&member).Error; err != nil {
		utils.LogError("Failed to link member %d to subscription %d: %v", user.ID, subscription.ID, err)
		utils.InternalServerError(c, "Failed to join subscription", err.Error())
		return
	}

	utils.LogInfo("User %d accepted invite to subscription %d", user.ID, subscription.ID)

	issueMemberCookie(c, user)
	utils.Success(c, "Welcome to the bundle", gin.H{
		"user": membershipUserView(*user),
		"subscription": gin.H{
			"id":       subscription.ID,
			"planName": subscription.PlanName,
			"status":   subscription.Status,
		},
	})
}

func baseURL() string {
	if url := os.Getenv("BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}
