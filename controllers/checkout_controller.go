package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/middleware"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderTotals carries the price breakdown computed at checkout time.
type orderTotals struct {
	ItemsFinal          int64
	ItemsBeforeDiscount int64
	Profit              int64
	CouponEffect        int64
	ShippingEffect      int64
	Payable             int64
}

func computeTotals(order *models.Order, rate *models.ShippingRate, coupon *models.Coupon) orderTotals {
	var t orderTotals
	for i := range order.Items {
		item := &order.Items[i]
		t.ItemsFinal += item.TotalPrice()
		t.ItemsBeforeDiscount += item.PriceBeforeDiscount() * int64(item.Count)
		t.Profit += item.Profit() * int64(item.Count)
	}
	t.ShippingEffect = rate.CalculatePrice(t.ItemsFinal)
	t.Payable = t.ItemsFinal + t.ShippingEffect
	if coupon != nil {
		discounted, discountAmount, _ := coupon.CalculateDiscount(t.Payable)
		t.CouponEffect = discountAmount
		t.Payable = discounted
	}
	return t
}

// snapshotTotals persists the breakdown on the order.
func snapshotTotals(db *gorm.DB, orderID uint, t orderTotals) error {
	return db.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"final_paid_price":                        t.Payable,
		"final_profit_price":                      t.Profit,
		"final_total_items_final_price":           t.ItemsFinal,
		"final_total_items_before_discount_price": t.ItemsBeforeDiscount,
		"final_coupon_effect_price":               t.CouponEffect,
		"final_shipping_effect_price":             t.ShippingEffect,
	}).Error
}

// finalizeOrder completes a paid order inside one transaction: it locks
// the stock rows, decrements tracked stock, snapshots item prices,
// redeems the coupon and flips the order to paid. Calling it on an
// already-paid order is a no-op, so a duplicated bank callback cannot
// double-finalize.
func finalizeOrder(tx *gorm.DB, order *models.Order, trans *models.Transaction, refID string) error {
	var current models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&current, order.ID).Error; err != nil {
		return err
	}
	if current.PaymentStatus == models.PaymentStatusPaid {
		return nil
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.Product == nil {
			continue
		}
		var rec models.StockRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", item.ProductID).
			First(&rec).Error; err != nil {
			return err
		}
		// money is already captured by the time this runs, so the
		// decrement never aborts; stock may go negative
		if item.Product.TracksStock() {
			if err := tx.Model(&models.StockRecord{}).Where("id = ?", rec.ID).
				Update("num_stock", gorm.Expr("num_stock - ?", item.Count)).Error; err != nil {
				return err
			}
		}
		if err := item.SetFinalFields(tx); err != nil {
			return err
		}
	}

	if order.CouponID != nil && order.UserID != nil {
		if err := models.RecordCouponUsage(tx, *order.CouponID, *order.UserID); err != nil {
			return err
		}
	}

	now := time.Now()
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"payment_status":              models.PaymentStatusPaid,
		"delivery_status":             models.DeliveryStatusPending,
		"ordered_at":                  now,
		"delivery_status_modified_at": now,
	}).Error; err != nil {
		return err
	}

	if trans != nil {
		if err := tx.Model(&models.Transaction{}).Where("id = ?", trans.ID).Updates(map[string]interface{}{
			"status": models.TransactionStatusSuccess,
			"ref_id": refID,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// checkStockBounds re-validates every cart line against current stock.
func checkStockBounds(order *models.Order) (string, bool) {
	for i := range order.Items {
		item := &order.Items[i]
		if item.Product == nil || item.Product.StockRecord == nil {
			return utils.MsgFailed, false
		}
		if item.Product.TracksStock() {
			if bound := item.Product.StockRecord.MaxOrderable(); item.Count > bound {
				return fmt.Sprintf(utils.MsgOrderItemNotMoreThan, bound), false
			}
		} else if limit := item.Product.StockRecord.InOrderLimit; limit != nil && item.Count > *limit {
			return fmt.Sprintf(utils.MsgOrderItemReachLimit, *limit), false
		}
	}
	return "", true
}

func verifyCallbackURL(order *models.Order, trans *models.Transaction) string {
	return fmt.Sprintf("%s/transaction/verify?order=%s&tn=%s",
		config.AppConfig.BackendURL, order.Slug, trans.TransactionNumber)
}

// TransactionRequest turns the open cart into a pending order and sends
// the customer to the payment gateway. The whole handler runs under the
// order's checkout lock.
func TransactionRequest(c *gin.Context) {
	utils.LogInfo("TransactionRequest called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	var req struct {
		AddressID      uint `json:"address_id" binding:"required"`
		ShippingRateID uint `json:"shipping_rate_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgShippingOrAddressInvalid, nil)
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

	won, err := order.AcquireLock(config.DB)
	if err != nil {
		utils.LogError("Failed to acquire order lock: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if !won {
		utils.BadRequest(c, utils.MsgFinalizingOrder, nil)
		return
	}
	defer func() {
		if err := order.ReleaseLock(config.DB); err != nil {
			utils.LogError("Failed to release order lock: %v", err)
		}
	}()

	if msg, ok := checkStockBounds(order); !ok {
		utils.BadRequest(c, msg, nil)
		return
	}

	address, err := utils.GetUserAddress(user.ID, req.AddressID)
	if err != nil {
		utils.LogError("Address %d not found: %v", req.AddressID, err)
		utils.BadRequest(c, utils.MsgShippingOrAddressInvalid, nil)
		return
	}
	rate, err := utils.GetPublicShippingRate(req.ShippingRateID)
	if err != nil {
		utils.LogError("Shipping rate %d not found: %v", req.ShippingRateID, err)
		utils.BadRequest(c, utils.MsgShippingOrAddressInvalid, nil)
		return
	}
	if valid, _ := models.IsValidShippingMethod(config.DB, address, rate); !valid {
		utils.BadRequest(c, utils.MsgShippingOrAddressInvalid, nil)
		return
	}

	// coupon rules run against the same total the discount applies to,
	// items plus the shipping effect
	itemsTotal := order.TotalPrice()
	checkoutTotal := itemsTotal + rate.CalculatePrice(itemsTotal)

	var coupon *models.Coupon
	if order.CouponID != nil {
		coupon = order.Coupon
		if coupon == nil {
			utils.BadRequest(c, utils.MsgUsedCouponInvalid, nil)
			return
		}
		if valid, _ := coupon.ValidateCoupon(config.DB, checkoutTotal, user.ID); !valid {
			if err := config.DB.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("coupon_id", nil).Error; err != nil {
				utils.LogError("Failed to detach coupon: %v", err)
			}
			utils.BadRequest(c, utils.MsgUsedCouponInvalid, nil)
			return
		}
	}

	snapshot := models.OrderAddress{}
	snapshot.FillFrom(address)
	if err := config.DB.Create(&snapshot).Error; err != nil {
		utils.LogError("Failed to snapshot address: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if err := config.DB.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"address_id":       snapshot.ID,
		"shipping_rate_id": rate.ID,
	}).Error; err != nil {
		utils.LogError("Failed to attach address and shipping: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	totals := computeTotals(order, rate, coupon)
	if err := snapshotTotals(config.DB, order.ID, totals); err != nil {
		utils.LogError("Failed to snapshot totals: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	// fully covered by coupon, no gateway round trip
	if totals.Payable == 0 {
		trans := models.Transaction{
			UserID:  &user.ID,
			OrderID: &order.ID,
			Status:  models.TransactionStatusWaiting,
		}
		if err := config.DB.Create(&trans).Error; err != nil {
			utils.LogError("Failed to create transaction: %v", err)
			utils.InternalServerError(c, utils.MsgFailed, nil)
			return
		}
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			return finalizeOrder(tx, order, &trans, "")
		})
		if err != nil {
			utils.LogError("Failed to finalize order %s: %v", order.Slug, err)
			utils.InternalServerError(c, utils.MsgFailed, nil)
			return
		}
		utils.LogInfo("Order %s finalized without gateway", order.Slug)
		utils.Success(c, utils.MsgPaymentSuccessful, gin.H{
			"order_slug":         order.Slug,
			"transaction_number": trans.TransactionNumber,
		})
		return
	}

	payable := totals.Payable
	if payable < utils.GatewayMinimumAmount {
		payable = utils.GatewayMinimumAmount
	}

	trans := models.Transaction{
		UserID:  &user.ID,
		OrderID: &order.ID,
		Status:  models.TransactionStatusWaiting,
	}
	if err := config.DB.Create(&trans).Error; err != nil {
		utils.LogError("Failed to create transaction: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	authority, code, err := utils.RequestPayment(payable, user.Phone, verifyCallbackURL(order, &trans))
	if err != nil {
		reason := utils.GatewayErrorMessage(code)
		if errors.Is(err, utils.ErrGatewayTimeout) {
			reason = utils.MsgTimeout
		}
		if err := config.DB.Model(&models.Transaction{}).Where("id = ?", trans.ID).Updates(map[string]interface{}{
			"status":        models.TransactionStatusFailed,
			"failed_reason": reason,
		}).Error; err != nil {
			utils.LogError("Failed to update transaction: %v", err)
		}
		utils.LogError("Gateway request failed for order %s: %v", order.Slug, err)
		if errors.Is(err, utils.ErrGatewayTimeout) {
			utils.Respond(c, http.StatusServiceUnavailable, utils.MsgTimeout, nil)
			return
		}
		utils.BadRequest(c, reason, nil)
		return
	}

	expireAt := time.Now().Add(utils.RepaymentWindow)
	if err := config.DB.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"payment_status":      models.PaymentStatusPending,
		"repayment_expire_at": expireAt,
	}).Error; err != nil {
		utils.LogError("Failed to move order to pending payment: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if err := config.DB.Model(&models.Transaction{}).Where("id = ?", trans.ID).Updates(map[string]interface{}{
		"status":    models.TransactionStatusRedirectToBank,
		"authority": authority,
	}).Error; err != nil {
		utils.LogError("Failed to update transaction: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.LogInfo("Order %s sent to gateway, transaction %s", order.Slug, trans.TransactionNumber)
	utils.Success(c, utils.MsgRedirectingToBank, gin.H{
		"url":                 utils.StartPayURL(authority),
		"order_slug":          order.Slug,
		"transaction_number":  trans.TransactionNumber,
		"payable":             payable,
		"repayment_expire_at": expireAt,
	})
}

// TransactionRepayment retries payment for a pending order within its
// repayment window, reusing the amount snapshotted at checkout.
func TransactionRepayment(c *gin.Context) {
	utils.LogInfo("TransactionRepayment called")

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
	if order.PaymentStatus != models.PaymentStatusPending {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}
	if !order.CanRepayAt(time.Now()) {
		utils.BadRequest(c, utils.MsgRepaymentExpired, nil)
		return
	}

	won, err := order.AcquireLock(config.DB)
	if err != nil {
		utils.LogError("Failed to acquire order lock: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if !won {
		utils.BadRequest(c, utils.MsgFinalizingOrder, nil)
		return
	}
	defer func() {
		if err := order.ReleaseLock(config.DB); err != nil {
			utils.LogError("Failed to release order lock: %v", err)
		}
	}()

	if order.Address == nil || order.ShippingRate == nil {
		utils.BadRequest(c, utils.MsgShippingOrAddressInvalid, nil)
		return
	}
	if valid, _ := models.IsValidShippingForProvince(config.DB, order.Address.ReceiverProvince, order.ShippingRate); !valid {
		utils.BadRequest(c, utils.MsgShippingOrAddressInvalid, nil)
		return
	}
	if msg, ok := checkStockBounds(order); !ok {
		utils.BadRequest(c, msg, nil)
		return
	}

	payable := order.FinalPaidPrice
	if payable < utils.GatewayMinimumAmount {
		payable = utils.GatewayMinimumAmount
	}

	trans := models.Transaction{
		UserID:  &user.ID,
		OrderID: &order.ID,
		Status:  models.TransactionStatusWaiting,
	}
	if err := config.DB.Create(&trans).Error; err != nil {
		utils.LogError("Failed to create transaction: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	authority, code, err := utils.RequestPayment(payable, user.Phone, verifyCallbackURL(order, &trans))
	if err != nil {
		reason := utils.GatewayErrorMessage(code)
		if errors.Is(err, utils.ErrGatewayTimeout) {
			reason = utils.MsgTimeout
		}
		if err := config.DB.Model(&models.Transaction{}).Where("id = ?", trans.ID).Updates(map[string]interface{}{
			"status":        models.TransactionStatusFailed,
			"failed_reason": reason,
		}).Error; err != nil {
			utils.LogError("Failed to update transaction: %v", err)
		}
		utils.LogError("Gateway request failed for order %s: %v", order.Slug, err)
		if errors.Is(err, utils.ErrGatewayTimeout) {
			utils.Respond(c, http.StatusServiceUnavailable, utils.MsgTimeout, nil)
			return
		}
		utils.BadRequest(c, reason, nil)
		return
	}

	if err := config.DB.Model(&models.Transaction{}).Where("id = ?", trans.ID).Updates(map[string]interface{}{
		"status":    models.TransactionStatusRedirectToBank,
		"authority": authority,
	}).Error; err != nil {
		utils.LogError("Failed to update transaction: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.LogInfo("Repayment for order %s, transaction %s", order.Slug, trans.TransactionNumber)
	utils.Success(c, utils.MsgRedirectingToBank, gin.H{
		"url":                utils.StartPayURL(authority),
		"order_slug":         order.Slug,
		"transaction_number": trans.TransactionNumber,
		"payable":            payable,
	})
}
