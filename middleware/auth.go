package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// AuthMiddleware authenticates a member from a Bearer token or the session
// cookie and loads the user into the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AuthMiddleware called")

		tokenString := bearerToken(c)
		if tokenString == "" {
			if cookie, err := c.Cookie("bgc_user"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			utils.LogError("Missing credentials on member route")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		userID, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.LogError("Invalid token: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}
		utils.LogDebug("Authenticating user ID: %d", userID)

		var user models.User
		if err := config.DB.First(&user, userID).Error; err != nil {
			utils.LogError("User not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("user", user)
		utils.LogInfo("User %d authenticated successfully", userID)
		c.Next()
	}
}

// AdminAuthMiddleware authenticates an admin Bearer token and loads the
// admin into the context.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AdminAuthMiddleware called")

		claims, ok := parseStaffToken(c)
		if !ok {
			return
		}

		adminID, ok := claims["admin_id"].(float64)
		if !ok {
			utils.LogError("Admin ID not found in token claims")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}
		utils.LogDebug("Authenticating admin ID: %d", uint(adminID))

		var admin models.Admin
		if err := config.DB.First(&admin, uint(adminID)).Error; err != nil {
			utils.LogError("Admin not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin not found"})
			c.Abort()
			return
		}

		if !admin.IsActive {
			utils.LogError("Inactive admin attempted access: %d", admin.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin account is inactive"})
			c.Abort()
			return
		}

		c.Set("admin", admin)
		utils.LogInfo("Admin %d authenticated successfully", admin.ID)
		c.Next()
	}
}

// CounterAuthMiddleware authenticates counter operations. Both cashiers and
// admins may validate redemptions and mark subscriptions paid.
func CounterAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("CounterAuthMiddleware called")

		claims, ok := parseStaffToken(c)
		if !ok {
			return
		}

		if adminID, ok := claims["admin_id"].(float64); ok {
			var admin models.Admin
			if err := config.DB.First(&admin, uint(adminID)).Error; err != nil || !admin.IsActive {
				utils.LogError("Admin lookup failed for counter access: %v", err)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
				c.Abort()
				return
			}
			c.Set("admin", admin)
			c.Set("issued_by", "admin")
			c.Next()
			return
		}

		cashierID, ok := claims["cashier_id"].(float64)
		if !ok {
			utils.LogError("No staff ID in token claims")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		var cashier models.Cashier
		if err := config.DB.First(&cashier, uint(cashierID)).Error; err != nil {
			utils.LogError("Cashier not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Cashier not found"})
			c.Abort()
			return
		}

		if cashier.Status != models.CashierStatusActive {
			utils.LogError("Non-active cashier attempted counter access: %d", cashier.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Cashier account is not active"})
			c.Abort()
			return
		}

		c.Set("cashier", cashier)
		c.Set("issued_by", "cashier")
		utils.LogInfo("Cashier %d authenticated successfully", cashier.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
	if tokenString == authHeader {
		return ""
	}
	return tokenString
}

// parseStaffToken extracts and validates the Bearer token for staff routes.
// On failure it writes the error response and aborts.
func parseStaffToken(c *gin.Context) (jwt.MapClaims, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		utils.LogError("Missing or malformed Authorization header")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
		c.Abort()
		return nil, false
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		utils.LogError("JWT secret not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
		c.Abort()
		return nil, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		utils.LogError("Invalid staff token: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
		c.Abort()
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		utils.LogError("Invalid staff token claims")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return nil, false
	}
	return claims, true
}
