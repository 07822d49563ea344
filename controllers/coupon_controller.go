package controllers

import (
	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/middleware"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-gonic/gin"
)

// UseCoupon dry-runs a coupon against the user's open cart and attaches
// it when valid. Nothing is redeemed until payment succeeds.
func UseCoupon(c *gin.Context) {
	utils.LogInfo("UseCoupon called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !utils.ValidateCouponCode(req.Code) {
		utils.BadRequest(c, utils.MsgCouponNotValid, nil)
		return
	}

	order, err := utils.GetOpenOrder(user.ID)
	if err != nil {
		utils.LogError("Failed to load open order: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if order == nil || len(order.Items) == 0 {
		utils.BadRequest(c, utils.MsgEmptyOrder, nil)
		return
	}
	if order.Lock {
		utils.BadRequest(c, utils.MsgFinalizingOrder, nil)
		return
	}

	coupon, err := utils.GetCouponByCode(req.Code)
	if err != nil {
		utils.LogError("Coupon %s not found: %v", req.Code, err)
		utils.BadRequest(c, utils.MsgCouponNotValid, nil)
		return
	}

	total := order.TotalPrice()
	valid, message := coupon.ValidateCoupon(config.DB, total, user.ID)
	if !valid {
		utils.BadRequest(c, message, nil)
		return
	}

	if err := config.DB.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("coupon_id", coupon.ID).Error; err != nil {
		utils.LogError("Failed to attach coupon: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	discounted, discountAmount, percent := coupon.CalculateDiscount(total)
	utils.Success(c, message, gin.H{
		"code":              coupon.Code,
		"total_price":       total,
		"discounted_price":  discounted,
		"discount_amount":   discountAmount,
		"percentage_effect": percent,
	})
}

// RemoveCoupon detaches the coupon from the open cart.
func RemoveCoupon(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	order, err := utils.GetOpenOrder(user.ID)
	if err != nil {
		utils.LogError("Failed to load open order: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if order == nil {
		utils.BadRequest(c, utils.MsgEmptyOrder, nil)
		return
	}
	if order.Lock {
		utils.BadRequest(c, utils.MsgFinalizingOrder, nil)
		return
	}

	if err := config.DB.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("coupon_id", nil).Error; err != nil {
		utils.LogError("Failed to detach coupon: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.Success(c, utils.MsgSuccess, nil)
}
