package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type googleUserInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// GoogleLogin redirects the user to Google's consent page
func GoogleLogin(c *gin.Context) {
	utils.LogInfo("GoogleLogin called")

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	state := base64.URLEncoding.EncodeToString(b)

	session := sessions.Default(c)
	session.Set("oauth_state", state)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save session: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	url := config.GoogleOAuthConfig.AuthCodeURL(state)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles Google's redirect, finds or creates the user
// and issues a JWT.
func GoogleCallback(c *gin.Context) {
	utils.LogInfo("GoogleCallback called")

	session := sessions.Default(c)
	savedState, _ := session.Get("oauth_state").(string)
	session.Delete("oauth_state")
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save session: %v", err)
	}

	if savedState == "" || c.Query("state") != savedState {
		utils.LogError("OAuth state mismatch")
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	token, err := config.GoogleOAuthConfig.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		utils.LogError("OAuth code exchange failed: %v", err)
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	client := config.GoogleOAuthConfig.Client(c.Request.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		utils.LogError("Failed to fetch Google user info: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		utils.LogError("Failed to decode Google user info: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	if info.Email == "" {
		utils.BadRequest(c, utils.MsgNotValidEmailOrPhone, nil)
		return
	}

	var user models.User
	err = config.DB.Where("google_id = ?", info.ID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		err = config.DB.Where("email = ?", utils.NormalizeIdentifier(info.Email)).First(&user).Error
	}
	if err == gorm.ErrRecordNotFound {
		user = models.User{
			Email:      utils.NormalizeIdentifier(info.Email),
			FirstName:  info.GivenName,
			LastName:   info.FamilyName,
			GoogleID:   info.ID,
			IsVerified: true,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			utils.LogError("Failed to create user: %v", err)
			utils.InternalServerError(c, utils.MsgFailed, nil)
			return
		}
	} else if err != nil {
		utils.LogError("Failed to load user: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	} else if user.GoogleID == "" {
		if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"google_id":   info.ID,
			"is_verified": true,
		}).Error; err != nil {
			utils.LogError("Failed to link Google account: %v", err)
			utils.InternalServerError(c, utils.MsgFailed, nil)
			return
		}
	}

	if user.IsBlocked {
		utils.Forbidden(c, utils.MsgAccessDenied)
		return
	}

	jwtToken, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.LogInfo("User %d logged in via Google", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": jwtToken,
		"user":  user,
	})
}
