package controllers

import (
	"fmt"
	"time"

	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/middleware"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// cartResponse shapes the open cart with its running totals
func cartResponse(order *models.Order) gin.H {
	items := make([]gin.H, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		var unitPrice int64
		var maxOrderable int
		if item.Product != nil && item.Product.StockRecord != nil {
			unitPrice = item.Product.StockRecord.FinalPrice()
			if item.Product.TracksStock() {
				maxOrderable = item.Product.StockRecord.MaxOrderable()
			} else if item.Product.StockRecord.InOrderLimit != nil {
				maxOrderable = *item.Product.StockRecord.InOrderLimit
			}
		}
		items = append(items, gin.H{
			"id":            item.ID,
			"product":       item.Product,
			"count":         item.Count,
			"unit_price":    unitPrice,
			"total_price":   item.TotalPrice(),
			"max_orderable": maxOrderable,
		})
	}
	return gin.H{
		"id":             order.ID,
		"slug":           order.Slug,
		"payment_status": order.PaymentStatus,
		"items":          items,
		"total_price":    order.TotalPrice(),
	}
}

// loadOpenCart fetches the user's open order and rejects the request when
// a checkout is finalizing it.
func loadOpenCart(c *gin.Context, userID uint) (*models.Order, bool) {
	order, err := utils.GetOrCreateOpenOrder(userID)
	if err != nil {
		utils.LogError("Failed to load open order: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return nil, false
	}
	if order.Lock {
		utils.BadRequest(c, utils.MsgFinalizingOrder, nil)
		return nil, false
	}
	return order, true
}

// GetOrder returns the user's cart plus any pending order still payable.
func GetOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	order, err := utils.GetOrCreateOpenOrder(user.ID)
	if err != nil {
		utils.LogError("Failed to load open order: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	data := gin.H{"order": cartResponse(order)}

	pending, err := utils.GetPendingOrder(user.ID)
	if err != nil {
		utils.LogError("Failed to load pending order: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if pending != nil && pending.CanRepayAt(time.Now()) {
		data["pending_order"] = gin.H{
			"slug":                pending.Slug,
			"payment_status":      pending.PaymentStatus,
			"final_paid_price":    pending.FinalPaidPrice,
			"repayment_expire_at": pending.RepaymentExpireAt,
		}
	}

	utils.Success(c, utils.MsgSuccess, data)
}

// AddItems adds a batch of products to the cart. Counts are clamped
// against stock and the per-order limit; a single violation rejects the
// whole batch.
func AddItems(c *gin.Context) {
	utils.LogInfo("AddItems called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	var req struct {
		Items []struct {
			ProductID uint `json:"product_id" binding:"required"`
			Count     int  `json:"count"`
		} `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	order, ok := loadOpenCart(c, user.ID)
	if !ok {
		return
	}

	for _, line := range req.Items {
		count := line.Count
		if count < 1 {
			count = 1
		}

		var product models.Product
		err := config.DB.Preload("StockRecord").
			Preload("ProductClass").
			Preload("Parent.ProductClass").
			Where("id = ? AND is_public = ?", line.ProductID, true).
			First(&product).Error
		if err != nil {
			utils.LogError("Product %d not found: %v", line.ProductID, err)
			utils.NotFound(c, utils.MsgFailed)
			return
		}
		if product.StockRecord == nil || product.Structure == models.ProductStructureParent {
			utils.BadRequest(c, utils.MsgFailed, nil)
			return
		}

		existing := 0
		for i := range order.Items {
			if order.Items[i].ProductID == product.ID {
				existing = order.Items[i].Count
				break
			}
		}

		wanted := existing + count
		if product.TracksStock() {
			bound := product.StockRecord.MaxOrderable()
			if wanted > bound {
				utils.BadRequest(c, fmt.Sprintf(utils.MsgOrderItemNotMoreThan, bound), nil)
				return
			}
		} else if product.StockRecord.InOrderLimit != nil && wanted > *product.StockRecord.InOrderLimit {
			utils.BadRequest(c, fmt.Sprintf(utils.MsgOrderItemReachLimit, *product.StockRecord.InOrderLimit), nil)
			return
		}

		if existing > 0 {
			err = config.DB.Model(&models.OrderItem{}).
				Where("order_id = ? AND product_id = ?", order.ID, product.ID).
				Update("count", wanted).Error
		} else {
			err = config.DB.Create(&models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Count:     count,
			}).Error
		}
		if err != nil {
			utils.LogError("Failed to save order item: %v", err)
			utils.InternalServerError(c, utils.MsgFailed, nil)
			return
		}
	}

	order, err := utils.GetOpenOrder(user.ID)
	if err != nil || order == nil {
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	utils.Success(c, utils.MsgOrderAddedToCart, cartResponse(order))
}

// IncreaseItem adds one unit of a cart line.
func IncreaseItem(c *gin.Context) {
	updateItemCount(c, +1, utils.MsgOrderItemCountIncreased)
}

// DecreaseItem removes one unit of a cart line, deleting it at zero.
func DecreaseItem(c *gin.Context) {
	updateItemCount(c, -1, utils.MsgOrderItemCountDecreased)
}

func updateItemCount(c *gin.Context, delta int, message string) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	order, ok := loadOpenCart(c, user.ID)
	if !ok {
		return
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ProductID == req.ProductID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		utils.NotFound(c, utils.MsgFailed)
		return
	}

	newCount := item.Count + delta
	if delta > 0 && item.Product != nil && item.Product.StockRecord != nil {
		if item.Product.TracksStock() {
			bound := item.Product.StockRecord.MaxOrderable()
			if newCount > bound {
				utils.BadRequest(c, fmt.Sprintf(utils.MsgOrderItemNotMoreThan, bound), nil)
				return
			}
		} else if limit := item.Product.StockRecord.InOrderLimit; limit != nil && newCount > *limit {
			utils.BadRequest(c, fmt.Sprintf(utils.MsgOrderItemReachLimit, *limit), nil)
			return
		}
	}

	var err error
	if newCount <= 0 {
		err = config.DB.Delete(&models.OrderItem{}, item.ID).Error
		message = utils.MsgOrderItemRemoved
	} else {
		err = config.DB.Model(&models.OrderItem{}).Where("id = ?", item.ID).
			Update("count", newCount).Error
	}
	if err != nil {
		utils.LogError("Failed to update order item: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	order, err = utils.GetOpenOrder(user.ID)
	if err != nil || order == nil {
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	utils.Success(c, message, cartResponse(order))
}

// RemoveItem drops a product from the cart entirely.
func RemoveItem(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	order, ok := loadOpenCart(c, user.ID)
	if !ok {
		return
	}

	res := config.DB.Where("order_id = ? AND product_id = ?", order.ID, req.ProductID).
		Delete(&models.OrderItem{})
	if res.Error != nil {
		utils.LogError("Failed to remove order item: %v", res.Error)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, utils.MsgFailed)
		return
	}

	order, err := utils.GetOpenOrder(user.ID)
	if err != nil || order == nil {
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	utils.Success(c, utils.MsgOrderItemRemoved, cartResponse(order))
}

// ClearItems empties the cart.
func ClearItems(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	order, ok := loadOpenCart(c, user.ID)
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"coupon_id":        nil,
			"shipping_rate_id": nil,
			"address_id":       nil,
		}).Error
	})
	if err != nil {
		utils.LogError("Failed to clear cart: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.Success(c, utils.MsgOrderItemCleared, nil)
}
