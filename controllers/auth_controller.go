package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GoogleUserInfo represents the profile returned by Google's userinfo endpoint
type GoogleUserInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// GoogleLogin starts the Google sign-in flow. A random state value is
// kept in the session and checked on callback.
func GoogleLogin(c *gin.Context) {
	state := uuid.New().String()
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save oauth state: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	url := config.GoogleOAuthConfig.AuthCodeURL(state)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback completes the Google sign-in flow, linking or creating
// the member account and handing a session token back to the frontend.
func GoogleCallback(c *gin.Context) {
	utils.LogInfo("GoogleCallback called")

	session := sessions.Default(c)
	expectedState, _ := session.Get("oauth_state").(string)
	session.Delete("oauth_state")
	if err := session.Save(); err != nil {
		utils.LogError("Failed to clear oauth state: %v", err)
	}
	if expectedState == "" || c.Query("state") != expectedState {
		utils.LogError("OAuth state mismatch")
		utils.Unauthorized(c, "Invalid OAuth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "No code provided", nil)
		return
	}

	token, err := config.GoogleOAuthConfig.Exchange(c, code)
	if err != nil {
		utils.LogError("Failed to exchange OAuth code: %v", err)
		utils.InternalServerError(c, "Failed to exchange token", err.Error())
		return
	}

	// Get user info from Google
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		utils.InternalServerError(c, "Failed to get user info", err.Error())
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.InternalServerError(c, "Failed to read response", err.Error())
		return
	}

	var googleUser GoogleUserInfo
	if err := json.Unmarshal(data, &googleUser); err != nil {
		utils.InternalServerError(c, "Failed to parse user info", err.Error())
		return
	}
	if googleUser.Email == "" {
		utils.InternalServerError(c, "Google account has no email", nil)
		return
	}

	name := strings.TrimSpace(googleUser.Name)
	if name == "" {
		name = strings.TrimSpace(googleUser.GivenName + " " + googleUser.FamilyName)
	}

	user, err := utils.GetOrCreateUser(googleUser.Email, utils.Title(name), "")
	if err != nil {
		utils.LogError("Failed to get or create user %s: %v", googleUser.Email, err)
		utils.InternalServerError(c, "Failed to create user", err.Error())
		return
	}

	if user.GoogleID == "" && googleUser.ID != "" {
		if err := config.DB.Model(user).Update("google_id", googleUser.ID).Error; err != nil {
			utils.LogError("Failed to link Google ID for user %d: %v", user.ID, err)
		}
	}

	tokenString, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	c.SetCookie("bgc_user", tokenString, int((24 * time.Hour).Seconds()), "/", "", false, true)

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		utils.Success(c, "Login successful", gin.H{
			"token": tokenString,
			"user":  membershipUserView(*user),
		})
		return
	}

	redirectURL := fmt.Sprintf("%s?token=%s&user=%s",
		frontend,
		url.QueryEscape(tokenString),
		url.QueryEscape(fmt.Sprintf(`{"id":%d,"email":"%s","name":"%s"}`,
			user.ID, user.Email, user.Name)))
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

// Logout clears the member session cookie
func Logout(c *gin.Context) {
	c.SetCookie("bgc_user", "", -1, "/", "", false, true)
	utils.Success(c, "Logged out successfully", nil)
}
