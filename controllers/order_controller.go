package controllers

import (
	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/middleware"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-gonic/gin"
)

func listUserOrders(c *gin.Context, query string, args ...interface{}) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	params := append([]interface{}{user.ID}, args...)

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Order{}).
		Where("user_id = ? AND "+query, params...).
		Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	pagination.SetTotal(total)

	var orders []models.Order
	if err := config.DB.
		Preload("Items.Product").
		Preload("ShippingRate.Service").
		Preload("Address").
		Where("user_id = ? AND "+query, params...).
		Order("updated_at DESC").
		Offset(pagination.Offset).
		Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to load orders: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.SendPaginatedResponse(c, orders, pagination)
}

// ListCurrentOrders returns paid orders still on their way.
func ListCurrentOrders(c *gin.Context) {
	listUserOrders(c, "payment_status = ? AND delivery_status IN ?",
		models.PaymentStatusPaid,
		[]string{models.DeliveryStatusPending, models.DeliveryStatusProcessing, models.DeliveryStatusShipped})
}

// ListDeliveredOrders returns completed orders.
func ListDeliveredOrders(c *gin.Context) {
	listUserOrders(c, "delivery_status = ?", models.DeliveryStatusDelivered)
}

// ListCanceledOrders returns canceled orders.
func ListCanceledOrders(c *gin.Context) {
	listUserOrders(c, "delivery_status = ?", models.DeliveryStatusCanceled)
}

// GetOrderDetail returns one of the user's orders by its order number.
func GetOrderDetail(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	order, err := utils.GetUserOrderBySlug(user.ID, c.Param("slug"))
	if err != nil {
		utils.NotFound(c, utils.MsgFailed)
		return
	}

	var transactions []models.Transaction
	if err := config.DB.Where("order_id = ?", order.ID).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to load transactions: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.Success(c, utils.MsgSuccess, gin.H{
		"order":        order,
		"transactions": transactions,
	})
}
