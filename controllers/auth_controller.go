package controllers

import (
	"fmt"
	"time"

	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OTPChallenge binds a pending login verification to the browser session
type OTPChallenge struct {
	UserID     uint
	Identifier string
	IsEmail    bool
	ExpiresAt  time.Time
}

// RequestOTP starts a passwordless login: it finds or creates the user
// for the given phone or email and sends a verification code.
func RequestOTP(c *gin.Context) {
	utils.LogInfo("RequestOTP called")

	var req struct {
		Identifier string `json:"identifier" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgNotValidEmailOrPhone, nil)
		return
	}

	identifier := utils.NormalizeIdentifier(req.Identifier)
	isEmail := utils.ValidateEmail(identifier)
	if !isEmail && !utils.ValidatePhone(identifier) {
		utils.LogError("Invalid login identifier: %s", identifier)
		utils.BadRequest(c, utils.MsgNotValidEmailOrPhone, nil)
		return
	}

	var user *models.User
	var err error
	if isEmail {
		user, err = utils.GetUserByEmail(identifier)
	} else {
		user, err = utils.GetUserByPhone(identifier)
	}
	if err == gorm.ErrRecordNotFound {
		user = &models.User{}
		if isEmail {
			user.Email = identifier
		} else {
			user.Phone = identifier
		}
		if err := config.DB.Create(user).Error; err != nil {
			utils.LogError("Failed to create user: %v", err)
			utils.InternalServerError(c, utils.MsgFailed, nil)
			return
		}
	} else if err != nil {
		utils.LogError("Failed to load user: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	if user.IsBlocked {
		utils.Forbidden(c, utils.MsgAccessDenied)
		return
	}

	otp := utils.GenerateOTP()
	expiresAt := time.Now().Add(utils.OTPExpiry)

	// one active code per user
	if err := config.DB.Where("user_id = ?", user.ID).Delete(&models.UserOTP{}).Error; err != nil {
		utils.LogError("Failed to clear previous OTP: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if err := config.DB.Create(&models.UserOTP{
		UserID:    user.ID,
		Code:      otp,
		ExpiresAt: expiresAt,
	}).Error; err != nil {
		utils.LogError("Failed to store OTP: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	if isEmail {
		if err := utils.SendOTPEmail(identifier, otp); err != nil {
			utils.LogError("Failed to send OTP email: %v", err)
			utils.InternalServerError(c, utils.MsgFailed, nil)
			return
		}
	} else {
		utils.SendOTPSMS(identifier, otp)
	}

	session := sessions.Default(c)
	session.Set("otp_challenge", OTPChallenge{
		UserID:     user.ID,
		Identifier: identifier,
		IsEmail:    isEmail,
		ExpiresAt:  expiresAt,
	})
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save session: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.LogInfo("OTP sent to user %d", user.ID)
	utils.Success(c, fmt.Sprintf(utils.MsgOTPSent, identifier), nil)
}

// VerifyOTP finishes the login: it checks the code against the pending
// challenge and issues a JWT.
func VerifyOTP(c *gin.Context) {
	utils.LogInfo("VerifyOTP called")

	var req struct {
		Identifier string `json:"identifier" binding:"required"`
		Code       string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgWrongOTP, nil)
		return
	}

	session := sessions.Default(c)
	val := session.Get("otp_challenge")
	challenge, ok := val.(OTPChallenge)
	if !ok || challenge.Identifier != utils.NormalizeIdentifier(req.Identifier) {
		utils.LogError("OTP challenge missing or identifier mismatch")
		utils.BadRequest(c, utils.MsgWrongOTP, nil)
		return
	}

	var otp models.UserOTP
	err := config.DB.Where("user_id = ?", challenge.UserID).First(&otp).Error
	if err != nil {
		utils.LogError("OTP not found for user %d: %v", challenge.UserID, err)
		utils.BadRequest(c, utils.MsgWrongOTP, nil)
		return
	}

	if otp.Code != req.Code || time.Now().After(otp.ExpiresAt) {
		utils.LogError("Wrong or expired OTP for user %d", challenge.UserID)
		utils.BadRequest(c, utils.MsgWrongOTP, nil)
		return
	}

	if err := config.DB.Delete(&models.UserOTP{}, otp.ID).Error; err != nil {
		utils.LogError("Failed to delete used OTP: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	user, err := utils.GetUserByID(challenge.UserID)
	if err != nil {
		utils.LogError("User not found: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	if !user.IsVerified {
		if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).
			Update("is_verified", true).Error; err != nil {
			utils.LogError("Failed to mark user verified: %v", err)
			utils.InternalServerError(c, utils.MsgFailed, nil)
			return
		}
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	session.Delete("otp_challenge")
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save session: %v", err)
	}

	utils.LogInfo("User %d logged in", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user":  user,
	})
}
