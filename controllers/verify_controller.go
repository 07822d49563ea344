package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func resultRedirectURL(orderSlug, transactionNumber string) string {
	return fmt.Sprintf("%s/payment/result?order=%s&tn=%s",
		config.AppConfig.FrontendURL, orderSlug, transactionNumber)
}

// TransactionVerify is the bank callback. It is unauthenticated: the
// customer returns from the gateway with the order number, transaction
// number and authority in the query string, and the amount is verified
// server side before anything is finalized.
func TransactionVerify(c *gin.Context) {
	utils.LogInfo("TransactionVerify called")

	orderSlug := c.Query("order")
	transactionNumber := c.Query("tn")
	authority := c.Query("Authority")
	if orderSlug == "" || transactionNumber == "" || authority == "" {
		utils.BadRequest(c, utils.MsgPaymentNotFound, nil)
		return
	}

	order, err := utils.GetOrderBySlug(orderSlug)
	if err != nil {
		utils.LogError("Order %s not found: %v", orderSlug, err)
		utils.NotFound(c, utils.MsgPaymentNotFound)
		return
	}

	var trans models.Transaction
	err = config.DB.
		Where("transaction_number = ? AND order_id = ? AND created_at > ?",
			transactionNumber, order.ID, time.Now().Add(-utils.VerifyLookback)).
		First(&trans).Error
	if err != nil {
		utils.LogError("Transaction %s not found: %v", transactionNumber, err)
		utils.NotFound(c, utils.MsgPaymentNotFound)
		return
	}
	if trans.Authority != authority {
		utils.LogError("Authority mismatch for transaction %s", transactionNumber)
		utils.BadRequest(c, utils.MsgPaymentNotFound, nil)
		return
	}

	if err := config.DB.Model(&models.Transaction{}).Where("id = ?", trans.ID).
		Update("status", models.TransactionStatusReturnFromBank).Error; err != nil {
		utils.LogError("Failed to update transaction: %v", err)
	}

	if order.IsPaid() {
		c.Redirect(http.StatusFound, resultRedirectURL(order.Slug, trans.TransactionNumber))
		return
	}

	payable := order.FinalPaidPrice
	if payable < utils.GatewayMinimumAmount {
		payable = utils.GatewayMinimumAmount
	}

	refID, code, err := utils.VerifyPayment(payable, authority)
	switch {
	case err == nil:
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			return finalizeOrder(tx, order, &trans, refID)
		})
		if err != nil {
			utils.LogError("Failed to finalize order %s: %v", order.Slug, err)
			if err := config.DB.Model(&models.Transaction{}).Where("id = ?", trans.ID).Updates(map[string]interface{}{
				"status":        models.TransactionStatusFailed,
				"failed_reason": utils.MsgFailed,
			}).Error; err != nil {
				utils.LogError("Failed to update transaction: %v", err)
			}
		} else {
			utils.LogInfo("Order %s paid, ref %s", order.Slug, refID)
		}

	case errors.Is(err, utils.ErrGatewayTimeout):
		utils.LogError("Gateway verify timed out for order %s", order.Slug)
		if err := config.DB.Model(&models.Transaction{}).Where("id = ?", trans.ID).Updates(map[string]interface{}{
			"status":        models.TransactionStatusOther,
			"failed_reason": utils.MsgTimeout,
		}).Error; err != nil {
			utils.LogError("Failed to update transaction: %v", err)
		}

	case code == utils.GatewayStatusCancelByUser:
		utils.LogInfo("Order %s payment canceled by user", order.Slug)
		if err := config.DB.Model(&models.Transaction{}).Where("id = ?", trans.ID).Updates(map[string]interface{}{
			"status":        models.TransactionStatusCancelByUser,
			"failed_reason": utils.MsgPaymentCancelByUser,
		}).Error; err != nil {
			utils.LogError("Failed to update transaction: %v", err)
		}
		// give the customer another hour to retry
		if err := config.DB.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("repayment_expire_at", time.Now().Add(utils.RepaymentWindow)).Error; err != nil {
			utils.LogError("Failed to extend repayment window: %v", err)
		}

	default:
		utils.LogError("Gateway verify failed for order %s with code %d", order.Slug, code)
		if err := config.DB.Model(&models.Transaction{}).Where("id = ?", trans.ID).Updates(map[string]interface{}{
			"status":        models.TransactionStatusFailed,
			"failed_reason": utils.GatewayErrorMessage(code),
		}).Error; err != nil {
			utils.LogError("Failed to update transaction: %v", err)
		}
	}

	c.Redirect(http.StatusFound, resultRedirectURL(order.Slug, trans.TransactionNumber))
}

// TransactionResult reports the outcome of a payment attempt. It is
// public so the result page works without a token right after the bank
// redirect; the random order and transaction numbers act as the capability.
func TransactionResult(c *gin.Context) {
	transactionNumber := c.Param("number")
	orderSlug := c.Param("slug")

	order, err := utils.GetOrderBySlug(orderSlug)
	if err != nil {
		utils.NotFound(c, utils.MsgPaymentNotFound)
		return
	}

	var trans models.Transaction
	err = config.DB.
		Where("transaction_number = ? AND order_id = ?", transactionNumber, order.ID).
		First(&trans).Error
	if err != nil {
		utils.NotFound(c, utils.MsgPaymentNotFound)
		return
	}

	data := gin.H{
		"order_slug":          order.Slug,
		"payment_status":      order.PaymentStatus,
		"transaction_number":  trans.TransactionNumber,
		"transaction_status":  trans.Status,
		"failed_reason":       trans.FailedReason,
		"ref_id":              trans.RefID,
		"final_paid_price":    order.FinalPaidPrice,
		"repayment_expire_at": order.RepaymentExpireAt,
	}

	if trans.Status == models.TransactionStatusSuccess {
		utils.Success(c, utils.MsgPaymentSuccessful, data)
		return
	}
	utils.Success(c, trans.Status, data)
}
