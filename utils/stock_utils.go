package utils

import (
	"time"

	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/models"
	"gorm.io/gorm"
)

// SyncParentStock recomputes a parent product's mirrored stock record
// after one of its children changed. The parent mirrors the cheapest
// available child (available = in stock, or stock tracking disabled on
// the parent's product class); the special-price window spans the
// earliest start and latest end among children whose window is currently
// valid. When no child is available the parent falls back to the saving
// child's own price and stock with the special price cleared.
//
// Called explicitly after every child stock save instead of hiding the
// propagation inside a persistence hook.
func SyncParentStock(db *gorm.DB, child *models.Product, childRecord *models.StockRecord) error {
	if child.Structure != models.ProductStructureChild || child.ParentID == nil {
		return nil
	}

	var parent models.Product
	if err := db.Preload("ProductClass").First(&parent, *child.ParentID).Error; err != nil {
		return WrapError(err, "failed to load parent product")
	}

	var children []models.Product
	if err := db.Preload("StockRecord").
		Where("parent_id = ? AND is_public = ?", parent.ID, true).
		Find(&children).Error; err != nil {
		return WrapError(err, "failed to load child products")
	}

	tracked := parent.ProductClass == nil || parent.ProductClass.TrackStock

	var available []*models.StockRecord
	for i := range children {
		rec := children[i].StockRecord
		if rec == nil {
			continue
		}
		if !tracked || rec.NumStock > 0 {
			available = append(available, rec)
		}
	}

	defaults := computeParentDefaults(available, childRecord)

	var parentRecord models.StockRecord
	err := db.Where("product_id = ?", parent.ID).First(&parentRecord).Error
	if err == gorm.ErrRecordNotFound {
		parentRecord = models.StockRecord{ProductID: parent.ID, SalePrice: defaults["sale_price"].(int64)}
		if err := db.Create(&parentRecord).Error; err != nil {
			return WrapError(err, "failed to create parent stock record")
		}
	} else if err != nil {
		return WrapError(err, "failed to load parent stock record")
	}

	return db.Model(&models.StockRecord{}).Where("id = ?", parentRecord.ID).Updates(defaults).Error
}

// computeParentDefaults picks the column values a parent record mirrors:
// the cheapest available child's price and stock, with a special-price
// window spanning the earliest start and latest end among children whose
// window is currently valid and fully dated. With no available children
// the parent takes the saving child's own price and stock and the
// special price is cleared.
func computeParentDefaults(available []*models.StockRecord, saving *models.StockRecord) map[string]interface{} {
	if len(available) == 0 {
		return map[string]interface{}{
			"sale_price":                  saving.SalePrice,
			"special_sale_price":          nil,
			"special_sale_price_start_at": nil,
			"special_sale_price_end_at":   nil,
			"num_stock":                   saving.NumStock,
		}
	}

	cheapest := available[0]
	var minStart, maxEnd *time.Time
	for _, rec := range available {
		if rec.SalePrice < cheapest.SalePrice {
			cheapest = rec
		}
		if rec.IsSpecialPriceDatesValid() && rec.HasSpecialPriceWithDate() &&
			rec.SpecialSalePriceStartAt != nil && rec.SpecialSalePriceEndAt != nil {
			if minStart == nil || rec.SpecialSalePriceStartAt.Before(*minStart) {
				minStart = rec.SpecialSalePriceStartAt
			}
			if maxEnd == nil || rec.SpecialSalePriceEndAt.After(*maxEnd) {
				maxEnd = rec.SpecialSalePriceEndAt
			}
		}
	}
	return map[string]interface{}{
		"sale_price":                  cheapest.SalePrice,
		"special_sale_price":          cheapest.SpecialSalePrice,
		"special_sale_price_start_at": minStart,
		"special_sale_price_end_at":   maxEnd,
		"num_stock":                   cheapest.NumStock,
	}
}

// ClipOpenOrderItems clamps items sitting in open carts to a stock
// record's new bound after a stock or per-order-limit reduction. Items
// whose allowance drops to zero are removed from the carts.
func ClipOpenOrderItems(db *gorm.DB, rec *models.StockRecord, tracksStock bool) error {
	var bound int
	switch {
	case tracksStock:
		bound = rec.MaxOrderable()
	case rec.InOrderLimit != nil:
		bound = *rec.InOrderLimit
	default:
		return nil
	}

	openOrders := db.Model(&models.Order{}).Select("id").
		Where("payment_status = ?", models.PaymentStatusOpen)

	if bound <= 0 {
		return db.Where("product_id = ? AND order_id IN (?)", rec.ProductID, openOrders).
			Delete(&models.OrderItem{}).Error
	}
	return db.Model(&models.OrderItem{}).
		Where("product_id = ? AND count > ? AND order_id IN (?)", rec.ProductID, bound, openOrders).
		Update("count", bound).Error
}

// SaveStockRecord persists a stock record and runs the propagation that
// depends on it: parent mirroring for child variants and open-cart
// clipping for every affected record.
func SaveStockRecord(product *models.Product, rec *models.StockRecord) error {
	db := config.DB
	if err := db.Save(rec).Error; err != nil {
		return WrapError(err, "failed to save stock record")
	}
	if err := ClipOpenOrderItems(db, rec, product.TracksStock()); err != nil {
		return err
	}
	return SyncParentStock(db, product, rec)
}
