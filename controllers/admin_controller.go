package controllers

import (
	"bytes"
	"time"

	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/middleware"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// AdminLogin authenticates an administrator with email and password.
func AdminLogin(c *gin.Context) {
	utils.LogInfo("AdminLogin called")

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	admin, err := utils.GetAdminByEmail(utils.NormalizeIdentifier(req.Email))
	if err != nil {
		utils.LogError("Admin not found: %v", err)
		utils.Unauthorized(c, utils.MsgWrongPassword)
		return
	}
	if !admin.IsActive {
		utils.Forbidden(c, utils.MsgAccessDenied)
		return
	}
	if !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogError("Wrong password for admin %d", admin.ID)
		utils.Unauthorized(c, utils.MsgWrongPassword)
		return
	}

	token, err := utils.GenerateAdminToken(admin)
	if err != nil {
		utils.LogError("Failed to generate admin token: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	if err := config.DB.Model(&models.Admin{}).Where("id = ?", admin.ID).
		Update("last_login", time.Now()).Error; err != nil {
		utils.LogError("Failed to stamp admin login: %v", err)
	}

	utils.LogInfo("Admin %d logged in", admin.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"admin": admin,
	})
}

// deliveryTransitions maps each delivery status to its allowed successors.
var deliveryTransitions = map[string][]string{
	models.DeliveryStatusPending:    {models.DeliveryStatusProcessing, models.DeliveryStatusCanceled},
	models.DeliveryStatusProcessing: {models.DeliveryStatusShipped, models.DeliveryStatusCanceled},
	models.DeliveryStatusShipped:    {models.DeliveryStatusDelivered},
}

// UpdateDeliveryStatus advances a paid order through the delivery flow,
// stamping timestamps and the tracking code along the way.
func UpdateDeliveryStatus(c *gin.Context) {
	utils.LogInfo("UpdateDeliveryStatus called")

	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	var req struct {
		Status         string `json:"status" binding:"required"`
		TrackingCode   string `json:"tracking_code"`
		CanceledReason string `json:"canceled_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	order, err := utils.GetOrderBySlug(c.Param("slug"))
	if err != nil {
		utils.NotFound(c, utils.MsgFailed)
		return
	}
	if !order.IsPaid() {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	allowed := false
	for _, next := range deliveryTransitions[order.DeliveryStatus] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		utils.LogError("Invalid delivery transition %s -> %s for order %s",
			order.DeliveryStatus, req.Status, order.Slug)
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"delivery_status":             req.Status,
		"delivery_status_modified_at": now,
	}
	switch req.Status {
	case models.DeliveryStatusShipped:
		updates["shipped_at"] = now
		if req.TrackingCode != "" {
			updates["tracking_code"] = req.TrackingCode
		}
	case models.DeliveryStatusDelivered:
		updates["delivered_at"] = now
	case models.DeliveryStatusCanceled:
		updates["delivery_canceled_reason"] = req.CanceledReason
	}

	if err := config.DB.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(updates).Error; err != nil {
		utils.LogError("Failed to update delivery status: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.LogInfo("Order %s delivery status set to %s by admin %d", order.Slug, req.Status, admin.ID)
	utils.Success(c, utils.MsgSuccess, gin.H{
		"order_slug":      order.Slug,
		"delivery_status": req.Status,
	})
}

// UpdateStockRecord edits a product's price and stock. Open carts are
// clipped to the new bounds and parent variants get their mirror
// recomputed.
func UpdateStockRecord(c *gin.Context) {
	utils.LogInfo("UpdateStockRecord called")

	var req struct {
		ProductID               uint       `json:"product_id" binding:"required"`
		SalePrice               int64      `json:"sale_price" binding:"required"`
		SpecialSalePrice        *int64     `json:"special_sale_price"`
		SpecialSalePriceStartAt *time.Time `json:"special_sale_price_start_at"`
		SpecialSalePriceEndAt   *time.Time `json:"special_sale_price_end_at"`
		NumStock                int        `json:"num_stock"`
		InOrderLimit            *int       `json:"in_order_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	var product models.Product
	err := config.DB.Preload("StockRecord").
		Preload("ProductClass").
		Preload("Parent.ProductClass").
		First(&product, req.ProductID).Error
	if err != nil {
		utils.LogError("Product %d not found: %v", req.ProductID, err)
		utils.NotFound(c, utils.MsgFailed)
		return
	}

	rec := product.StockRecord
	if rec == nil {
		rec = &models.StockRecord{ProductID: product.ID}
	}
	rec.SalePrice = req.SalePrice
	rec.SpecialSalePrice = req.SpecialSalePrice
	rec.SpecialSalePriceStartAt = req.SpecialSalePriceStartAt
	rec.SpecialSalePriceEndAt = req.SpecialSalePriceEndAt
	rec.NumStock = req.NumStock
	rec.InOrderLimit = req.InOrderLimit

	if err := utils.SaveStockRecord(&product, rec); err != nil {
		utils.LogError("Failed to save stock record: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.LogInfo("Stock record for product %d updated", product.ID)
	utils.Success(c, utils.MsgSuccess, gin.H{"stockrecord": rec})
}

// salesWindow resolves the report period query parameter.
func salesWindow(period string, now time.Time) (time.Time, time.Time, bool) {
	switch period {
	case "day":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 0, 1), true
	case "week":
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		return end.AddDate(0, 0, -7), end, true
	case "month":
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		return end.AddDate(0, -1, 0), end, true
	}
	return time.Time{}, time.Time{}, false
}

func loadPaidOrders(start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := config.DB.
		Preload("Items.Product").
		Where("payment_status = ? AND ordered_at >= ? AND ordered_at < ?",
			models.PaymentStatusPaid, start, end).
		Order("ordered_at DESC").
		Find(&orders).Error
	return orders, err
}

type salesSummary struct {
	TotalOrders    int   `json:"total_orders"`
	TotalItems     int   `json:"total_items"`
	TotalRevenue   int64 `json:"total_revenue"`
	TotalDiscounts int64 `json:"total_discounts"`
	TotalShipping  int64 `json:"total_shipping"`
	TotalProfit    int64 `json:"total_profit"`
}

func summarize(orders []models.Order) salesSummary {
	var s salesSummary
	for i := range orders {
		order := &orders[i]
		s.TotalOrders++
		s.TotalRevenue += order.FinalPaidPrice
		s.TotalDiscounts += order.FinalCouponEffectPrice
		s.TotalShipping += order.FinalShippingEffectPrice
		s.TotalProfit += order.FinalProfitPrice
		for j := range order.Items {
			s.TotalItems += order.Items[j].Count
		}
	}
	return s
}

// SalesReport returns paid-order aggregates for a day, week or month.
func SalesReport(c *gin.Context) {
	utils.LogInfo("SalesReport called")

	start, end, ok := salesWindow(c.DefaultQuery("period", "day"), time.Now())
	if !ok {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	orders, err := loadPaidOrders(start, end)
	if err != nil {
		utils.LogError("Failed to load orders: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.Success(c, utils.MsgSuccess, gin.H{
		"from":    start,
		"to":      end,
		"summary": summarize(orders),
		"orders":  orders,
	})
}

// DownloadSalesReportExcel exports the sales report as an Excel workbook.
func DownloadSalesReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadSalesReportExcel called")

	period := c.DefaultQuery("period", "day")
	start, end, ok := salesWindow(period, time.Now())
	if !ok {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	orders, err := loadPaidOrders(start, end)
	if err != nil {
		utils.LogError("Failed to load orders: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	summary := summarize(orders)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("Bazargah - Sales Report")
	rangeRow := sheet.AddRow()
	rangeRow.AddCell().SetString("From " + start.Format("2006-01-02") + " to " + end.Format("2006-01-02"))
	sheet.AddRow()

	summaryHeader := sheet.AddRow()
	for _, h := range []string{"Orders", "Items", "Revenue", "Discounts", "Shipping", "Profit"} {
		summaryHeader.AddCell().SetString(h)
	}
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetInt(summary.TotalOrders)
	summaryRow.AddCell().SetInt(summary.TotalItems)
	summaryRow.AddCell().SetInt64(summary.TotalRevenue)
	summaryRow.AddCell().SetInt64(summary.TotalDiscounts)
	summaryRow.AddCell().SetInt64(summary.TotalShipping)
	summaryRow.AddCell().SetInt64(summary.TotalProfit)
	sheet.AddRow()

	header := sheet.AddRow()
	for _, h := range []string{"Order No", "Ordered At", "Items", "Paid", "Coupon Effect", "Shipping Effect", "Delivery Status"} {
		header.AddCell().SetString(h)
	}
	for i := range orders {
		order := &orders[i]
		itemCount := 0
		for j := range order.Items {
			itemCount += order.Items[j].Count
		}
		row := sheet.AddRow()
		row.AddCell().SetString(order.Slug)
		if order.OrderedAt != nil {
			row.AddCell().SetString(order.OrderedAt.Format("2006-01-02 15:04"))
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetInt(itemCount)
		row.AddCell().SetInt64(order.FinalPaidPrice)
		row.AddCell().SetInt64(order.FinalCouponEffectPrice)
		row.AddCell().SetInt64(order.FinalShippingEffectPrice)
		row.AddCell().SetString(order.DeliveryStatus)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to render Excel file: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=sales-report-"+period+".xlsx")
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
