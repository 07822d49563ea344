package models

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

// Coupon discount types
const (
	DiscountTypePercent = "%"
	DiscountTypeFixed   = "$"
)

// Coupon is a discount code. All bound fields are optional; a nil bound
// means that check is skipped.
type Coupon struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `json:"title"`
	Code            string     `gorm:"uniqueIndex;not null" json:"code"`
	DiscountType    string     `json:"discount_type" gorm:"size:1"`
	DiscountAmount  int64      `json:"discount_amount"`
	MaxUsage        *int       `json:"max_usage"`
	UsageCount      int        `json:"usage_count" gorm:"default:0"`
	MaxUsagePerUser *int       `json:"max_usage_per_user"`
	MinOrderTotal   *int64     `json:"min_order_total"`
	MaxOrderTotal   *int64     `json:"max_order_total"`
	OnlyFirstOrder  bool       `json:"only_first_order" gorm:"default:false"`
	StartAt         *time.Time `json:"start_at"`
	ExpireAt        *time.Time `json:"expire_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName keeps the original schema name
func (Coupon) TableName() string {
	return "coupon"
}

// CouponUsage tracks how many times one user redeemed one coupon.
type CouponUsage struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	CouponID   *uint `json:"coupon_id"`
	UserID     *uint `json:"user_id"`
	UsageCount int   `json:"usage_count" gorm:"default:0"`
}

// TableName keeps the original schema name
func (CouponUsage) TableName() string {
	return "coupon_usage"
}

// CalculateDiscount applies the coupon to a price. It returns the
// discounted price, the absolute discount and the percentage effect, all
// integer-truncated. A fixed discount never exceeds the price, so the
// result can never go below zero.
func (c *Coupon) CalculateDiscount(price int64) (discountedPrice, discountAmount int64, percentageEffect int) {
	var discount int64
	if c.DiscountType == DiscountTypePercent {
		discount = int64(math.Round(float64(price) * float64(c.DiscountAmount) / 100))
		percentageEffect = int(c.DiscountAmount)
	} else {
		discount = c.DiscountAmount
		if discount > price {
			discount = price
		}
		if price > 0 {
			percentageEffect = int(float64(discount) / float64(price) * 100)
		}
	}
	discountedPrice = price - discount
	discountAmount = price - discountedPrice
	return discountedPrice, discountAmount, percentageEffect
}

// ValidateCoupon checks whether the coupon is usable for the given order
// total and user, returning a user-facing message either way. The checks
// run in a fixed sequence and stop at the first failure.
func (c *Coupon) ValidateCoupon(db *gorm.DB, orderTotalPrice int64, userID uint) (bool, string) {
	userUsage, err := CountCouponUsage(db, c.ID, userID)
	if err != nil {
		return false, "کد تخفیف معتبر نمیباشد"
	}
	hasPaidOrder, err := HasPaidOrder(db, userID)
	if err != nil {
		return false, "کد تخفیف معتبر نمیباشد"
	}
	return c.CheckRules(orderTotalPrice, userUsage, hasPaidOrder, time.Now())
}

// CheckRules is the pure validation sequence: global cap, per-user cap,
// expiry, order-total bounds, start date, first-order-only.
func (c *Coupon) CheckRules(orderTotalPrice int64, userUsageCount int, hasPaidOrder bool, now time.Time) (bool, string) {
	if c.MaxUsage != nil && *c.MaxUsage <= c.UsageCount {
		return false, "کد تخفیف به حداکثر حد مجاز استفاده رسیده است"
	}
	if c.MaxUsagePerUser != nil && userUsageCount >= *c.MaxUsagePerUser {
		return false, fmt.Sprintf("کد تخفیف وارد شده فقط %d بار قابل استفاده برای هر کاربری میباشد", *c.MaxUsagePerUser)
	}
	if c.ExpireAt != nil && !c.ExpireAt.After(now) {
		return false, "کد تخفیف وارد شده منقضی شده است"
	}
	if c.MinOrderTotal != nil && orderTotalPrice < *c.MinOrderTotal {
		return false, fmt.Sprintf("کد تخفیف وارد شده قابل استفاده برای سفارش های بیشتر از %d می باشد", *c.MinOrderTotal)
	}
	if c.MaxOrderTotal != nil && orderTotalPrice > *c.MaxOrderTotal {
		return false, fmt.Sprintf("کد تخفیف وارد شده قابل استفاده برای سفارش های کمتر از %d می باشد", *c.MaxOrderTotal)
	}
	if c.StartAt != nil && now.Before(*c.StartAt) {
		return false, "کد تخفیف معتبر نمیباشد"
	}
	if c.OnlyFirstOrder && hasPaidOrder {
		return false, "کد تخفیف فقط برای اولین خرید قابل استفاده است"
	}
	return true, "کد تخفیف با موفقیت اعمال شد"
}

// CountCouponUsage returns how many times the user redeemed the coupon.
func CountCouponUsage(db *gorm.DB, couponID, userID uint) (int, error) {
	var usage CouponUsage
	err := db.Where("coupon_id = ? AND user_id = ?", couponID, userID).First(&usage).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return usage.UsageCount, nil
}

// HasPaidOrder reports whether the user ever completed a payment.
func HasPaidOrder(db *gorm.DB, userID uint) (bool, error) {
	var count int64
	err := db.Model(&Order{}).
		Where("user_id = ? AND payment_status = ?", userID, PaymentStatusPaid).
		Count(&count).Error
	return count > 0, err
}

// RecordCouponUsage bumps the per-user and global usage counters inside
// the caller's transaction.
func RecordCouponUsage(tx *gorm.DB, couponID, userID uint) error {
	var usage CouponUsage
	err := tx.Where("coupon_id = ? AND user_id = ?", couponID, userID).First(&usage).Error
	if err == gorm.ErrRecordNotFound {
		usage = CouponUsage{CouponID: &couponID, UserID: &userID, UsageCount: 1}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else {
		if err := tx.Model(&CouponUsage{}).Where("id = ?", usage.ID).
			Update("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			return err
		}
	}
	return tx.Model(&Coupon{}).Where("id = ?", couponID).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}
