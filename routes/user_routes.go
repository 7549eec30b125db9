package routes

import (
	"github.com/browngirlclub/membership/controllers"
	"github.com/browngirlclub/membership/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes member-facing and counter routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes (no authentication required)
	router.POST("/join", controllers.JoinHandler)
	router.GET("/members/accept", controllers.AcceptMemberInviteHandler)
	router.POST("/members/accept", controllers.AcceptMemberInviteHandler)
	router.POST("/cashiers/accept", controllers.AcceptCashierInviteHandler)
	router.POST("/cashiers/login", controllers.CashierLogin)

	// Counter routes, for staff validating and recording redemptions
	counter := router.Group("")
	counter.Use(middleware.CounterAuthMiddleware())
	{
		counter.GET("/validate", controllers.GetValidationHandler)
		counter.POST("/validate", controllers.ValidateRedemptionHandler)
		counter.POST("/redeem", controllers.RedeemHandler)
		counter.POST("/membership/status", controllers.UpdateMembershipStatusHandler)
	}

	// Member routes, behind the session cookie or bearer token
	member := router.Group("")
	member.Use(middleware.AuthMiddleware())
	{
		member.GET("/membership", controllers.GetMembershipHandler)
		member.POST("/members/invite", controllers.InviteMemberHandler)
		member.GET("/invoices", controllers.ListInvoicesHandler)
		member.GET("/invoices/:id/pdf", controllers.DownloadInvoice)
	}
}
