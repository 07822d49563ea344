package controllers

import (
	"time"

	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/middleware"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-gonic/gin"
)

// ListShippingRates returns the public shipping rates valid for the given
// province, cheapest-position first, with the effective cost for the
// user's current cart subtotal.
func ListShippingRates(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	province := c.Query("province")

	var rates []models.ShippingRate
	if err := config.DB.Preload("Service").
		Where("is_public = ?", true).
		Order("position ASC").
		Find(&rates).Error; err != nil {
		utils.LogError("Failed to load shipping rates: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	var subtotal int64
	order, err := utils.GetOpenOrder(user.ID)
	if err != nil {
		utils.LogError("Failed to load open order: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if order != nil {
		subtotal = order.TotalPrice()
	}

	result := make([]gin.H, 0, len(rates))
	for i := range rates {
		rate := &rates[i]
		if province != "" {
			if valid, _ := models.IsValidShippingForProvince(config.DB, province, rate); !valid {
				continue
			}
		}
		result = append(result, gin.H{
			"id":                 rate.ID,
			"service":            rate.Service,
			"all_area":           rate.AllArea,
			"area":               rate.Area,
			"pay_at_destination": rate.PayAtDestination,
			"price":              rate.Price,
			"effective_price":    rate.CalculatePrice(subtotal),
		})
	}

	utils.Success(c, utils.MsgSuccess, gin.H{
		"rates":       result,
		"subtotal":    subtotal,
		"computed_at": time.Now(),
	})
}
