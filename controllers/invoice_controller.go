package controllers

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/bazargah/backend/middleware"
	"github.com/bazargah/backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoice generates and returns a PDF invoice for a paid order
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	order, err := utils.GetUserOrderBySlug(user.ID, c.Param("slug"))
	if err != nil {
		utils.LogError("Order not found for invoice: %v", err)
		utils.NotFound(c, utils.MsgFailed)
		return
	}
	if !order.IsPaid() {
		utils.BadRequest(c, utils.MsgFailed, nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Bazargah")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(60, 8, "Order No: "+order.Slug)
	if order.OrderedAt != nil {
		pdf.Cell(80, 8, "Order Date: "+order.OrderedAt.Format("2006-01-02 15:04:05"))
	}
	pdf.Ln(10)

	if order.Address != nil {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(100, 8, "Shipping Address:")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(100, 8, order.Address.ReceiverName+" "+order.Address.ReceiverFamily)
		pdf.Ln(6)
		pdf.Cell(100, 8, order.Address.ReceiverProvince+", "+order.Address.ReceiverCity)
		pdf.Ln(6)
		pdf.Cell(100, 8, "Postal Code: "+order.Address.ReceiverPostalCode+" | Phone: "+order.Address.ReceiverPhone)
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 8, "Product", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Unit Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for i := range order.Items {
		item := &order.Items[i]
		name := strconv.Itoa(int(item.ProductID))
		if item.Product != nil {
			name = item.Product.Title
		}
		var unit, total int64
		if item.FinalPrice != nil && item.Count > 0 {
			total = *item.FinalPrice
			unit = total / int64(item.Count)
		}
		pdf.CellFormat(70, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Count), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", unit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	summary := []struct {
		label string
		value int64
	}{
		{"Items Total:", order.FinalTotalItemsFinalPrice},
		{"Coupon Discount:", order.FinalCouponEffectPrice},
		{"Shipping:", order.FinalShippingEffectPrice},
		{"Paid:", order.FinalPaidPrice},
	}
	for _, row := range summary {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(120, 8, row.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", row.value), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render invoice PDF: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=invoice-"+order.Slug+".pdf")
	c.Data(200, "application/pdf", buf.Bytes())
}
