package models

import (
	"math/rand"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Payment status labels, surfaced verbatim to the client
const (
	PaymentStatusOpen    = "باز"
	PaymentStatusPending = "در انتظار پرداخت"
	PaymentStatusPaid    = "پرداخت شده"
)

// Delivery status labels
const (
	DeliveryStatusCanceled   = "لغو شده"
	DeliveryStatusPending    = "در انتظار تایید"
	DeliveryStatusProcessing = "درحال پردازش"
	DeliveryStatusShipped    = "ارسال شده"
	DeliveryStatusDelivered  = "تحویل داده شده"
)

// Order is the cart/purchase aggregate. It is created implicitly on the
// first cart interaction as an open order and moves through
// open -> pending payment -> paid; delivery status is tracked separately
// once the order is paid.
type Order struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `json:"user_id"`
	User   *User `json:"-" gorm:"foreignKey:UserID"`

	Slug          string `gorm:"uniqueIndex;size:5" json:"slug"` // order number
	PaymentStatus string `json:"payment_status" gorm:"default:'باز'"`

	// Lock guards against concurrent checkout attempts. It is only ever
	// flipped through a compare-and-swap update, see AcquireLock.
	Lock              bool       `json:"-" gorm:"column:lock;default:false"`
	RepaymentExpireAt *time.Time `json:"repayment_expire_at"`

	DeliveryStatus         string `json:"delivery_status,omitempty"`
	DeliveryCanceledReason string `json:"delivery_canceled_reason,omitempty"`

	ShippingRateID *uint         `json:"shipping_rate_id"`
	ShippingRate   *ShippingRate `json:"shipping_rate,omitempty" gorm:"foreignKey:ShippingRateID"`
	AddressID      *uint         `json:"address_id"`
	Address        *OrderAddress `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	CouponID       *uint         `json:"coupon_id"`
	Coupon         *Coupon       `json:"coupon,omitempty" gorm:"foreignKey:CouponID"`

	// Fields filled after payment
	TrackingCode             string     `json:"tracking_code,omitempty"`
	DeliveryStatusModifiedAt *time.Time `json:"delivery_status_modified_at"`
	OrderedAt                *time.Time `json:"ordered_at"`
	ShippedAt                *time.Time `json:"shipped_at"`
	DeliveredAt              *time.Time `json:"delivered_at"`

	FinalPaidPrice                     int64 `json:"final_paid_price" gorm:"default:0"`
	FinalProfitPrice                   int64 `json:"final_profit_price" gorm:"default:0"`
	FinalTotalItemsFinalPrice          int64 `json:"final_total_items_final_price" gorm:"default:0"`
	FinalTotalItemsBeforeDiscountPrice int64 `json:"final_total_items_before_discount_price" gorm:"default:0"`
	FinalCouponEffectPrice             int64 `json:"final_coupon_effect_price" gorm:"default:0"`
	FinalShippingEffectPrice           int64 `json:"final_shipping_effect_price" gorm:"default:0"`

	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName keeps the original schema name
func (Order) TableName() string {
	return "order"
}

// IsPaid reports whether the order has completed payment.
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// CanRepayAt reports whether the order accepts another payment attempt
// at the given instant: it must be pending payment and inside its
// repayment window. An expiry exactly at now counts as expired.
func (o *Order) CanRepayAt(now time.Time) bool {
	if o.PaymentStatus != PaymentStatusPending {
		return false
	}
	return o.RepaymentExpireAt != nil && o.RepaymentExpireAt.After(now)
}

// TotalPrice sums the effective item prices. Items must be loaded with
// their product stock records.
func (o *Order) TotalPrice() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].TotalPrice()
	}
	return total
}

// GenerateUniqueSlug picks a free 5-digit order number.
func GenerateUniqueSlug(db *gorm.DB) (string, error) {
	for {
		slug := strconv.Itoa(10000 + rand.Intn(90000))
		var count int64
		if err := db.Model(&Order{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
	}
}

// BeforeCreate assigns the order number.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Slug == "" {
		slug, err := GenerateUniqueSlug(tx)
		if err != nil {
			return err
		}
		o.Slug = slug
	}
	return nil
}

// AcquireLock flips the checkout lock with a compare-and-swap update and
// reports whether this caller won it. Two concurrent checkout requests
// can never both pass.
func (o *Order) AcquireLock(db *gorm.DB) (bool, error) {
	res := db.Model(&Order{}).
		Where(`id = ? AND "lock" = ?`, o.ID, false).
		Update("lock", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	o.Lock = true
	return true, nil
}

// ReleaseLock clears the checkout lock.
func (o *Order) ReleaseLock(db *gorm.DB) error {
	o.Lock = false
	return db.Model(&Order{}).Where("id = ?", o.ID).Update("lock", false).Error
}

// OrderItem is one product line of an order. The final_* fields are
// written once at payment time and stay immutable afterwards.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `json:"order_id"`
	ProductID uint     `json:"product_id"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Count     int      `json:"count" gorm:"default:0"`

	FinalPrice               *int64 `json:"final_price"`
	FinalPriceBeforeDiscount *int64 `json:"final_price_before_discount"`
	FinalDiscount            *int64 `json:"final_discount"`
	FinalProfit              *int64 `json:"final_profit"`
}

// TableName keeps the original schema name
func (OrderItem) TableName() string {
	return "order_item"
}

// TotalPrice is count times the product's effective price.
func (i *OrderItem) TotalPrice() int64 {
	if i.Product == nil || i.Product.StockRecord == nil {
		return 0
	}
	return i.Product.StockRecord.FinalPrice() * int64(i.Count)
}

// PriceBeforeDiscount is the undiscounted unit price snapshot source.
func (i *OrderItem) PriceBeforeDiscount() int64 {
	if i.Product == nil || i.Product.StockRecord == nil {
		return 0
	}
	return i.Product.StockRecord.SalePrice
}

// Profit is the per-unit margin a special price produced, zero otherwise.
func (i *OrderItem) Profit() int64 {
	if i.Product == nil || i.Product.StockRecord == nil {
		return 0
	}
	rec := i.Product.StockRecord
	if rec.SpecialSalePrice != nil {
		return rec.SalePrice - *rec.SpecialSalePrice
	}
	return 0
}

// DiscountDiff is the undiscounted unit price when a special price
// applies, zero otherwise.
func (i *OrderItem) DiscountDiff() int64 {
	if i.Product == nil || i.Product.StockRecord == nil {
		return 0
	}
	if i.Product.StockRecord.SpecialSalePrice != nil {
		return i.Product.StockRecord.SalePrice
	}
	return 0
}

// SetFinalFields snapshots the purchase-time prices onto the item.
func (i *OrderItem) SetFinalFields(tx *gorm.DB) error {
	price := i.TotalPrice()
	before := i.PriceBeforeDiscount()
	discount := i.DiscountDiff()
	profit := i.Profit()
	i.FinalPrice = &price
	i.FinalPriceBeforeDiscount = &before
	i.FinalDiscount = &discount
	i.FinalProfit = &profit
	return tx.Model(&OrderItem{}).Where("id = ?", i.ID).Updates(map[string]interface{}{
		"final_price":                 price,
		"final_price_before_discount": before,
		"final_discount":              discount,
		"final_profit":                profit,
	}).Error
}

// OrderAddress is the address snapshot copied from the user's saved
// address at checkout time.
type OrderAddress struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	ReceiverName         string `json:"receiver_name"`
	ReceiverFamily       string `json:"receiver_family"`
	ReceiverPhone        string `json:"receiver_phone"`
	ReceiverNationalCode string `json:"receiver_national_code"`
	ReceiverProvince     string `json:"receiver_province"`
	ReceiverCity         string `json:"receiver_city"`
	ReceiverAddress      string `json:"receiver_address"`
	ReceiverPostalCode   string `json:"receiver_postal_code"`
	ReceiverBuildingNo   string `json:"receiver_building_number"`
	ReceiverUnit         string `json:"receiver_unit"`
}

// TableName keeps the original schema name
func (OrderAddress) TableName() string {
	return "order_address"
}

// FillFrom copies the user's saved address into the snapshot.
func (a *OrderAddress) FillFrom(src *UserAddress) {
	a.ReceiverName = src.ReceiverName
	a.ReceiverFamily = src.ReceiverFamily
	a.ReceiverPhone = src.ReceiverPhone
	a.ReceiverNationalCode = src.ReceiverNationalCode
	a.ReceiverProvince = src.ReceiverProvince
	a.ReceiverCity = src.ReceiverCity
	a.ReceiverAddress = src.ReceiverAddress
	a.ReceiverPostalCode = src.ReceiverPostalCode
	a.ReceiverBuildingNo = src.ReceiverBuildingNo
	a.ReceiverUnit = src.ReceiverUnit
}
