package routes

import (
	"github.com/browngirlclub/membership/controllers"
	"github.com/browngirlclub/membership/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes the admin panel routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.POST("/login", controllers.AdminLogin)

		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware())
		{
			protected.GET("/subscribers", controllers.ListSubscribersHandler)
			protected.GET("/subscribers/export", controllers.ExportSubscribersExcel)
			protected.DELETE("/subscribers/:id", controllers.DeleteSubscriberHandler)

			protected.GET("/cashiers", controllers.ListCashiersHandler)
			protected.POST("/cashiers/invite", controllers.InviteCashierHandler)
			protected.POST("/cashiers/:id/revoke", controllers.RevokeCashierHandler)
		}
	}
}
