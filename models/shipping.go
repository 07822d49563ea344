package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingService is a delivery carrier (post, courier, ...).
type ShippingService struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name" gorm:"size:115"`
	URL       string    `json:"url"`
	IsPublic  bool      `json:"is_public" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the original schema name
func (ShippingService) TableName() string {
	return "shipping_service"
}

// ShippingRate prices a carrier for either one province or all areas.
type ShippingRate struct {
	ID                    uint             `gorm:"primaryKey" json:"id"`
	ServiceID             uint             `json:"service_id"`
	Service               *ShippingService `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	AllArea               bool             `json:"all_area" gorm:"default:false"`
	Area                  string           `json:"area" gorm:"size:24"`
	PayAtDestination      bool             `json:"pay_at_destination" gorm:"default:false"`
	Price                 int64            `json:"price" gorm:"default:0"`
	FreeShippingThreshold int64            `json:"free_shipping_threshold" gorm:"default:0"`
	IsPublic              bool             `json:"is_public" gorm:"default:false"`
	Position              int              `json:"order" gorm:"column:position;default:0"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// TableName keeps the original schema name
func (ShippingRate) TableName() string {
	return "shipping_rate"
}

// CalculatePrice returns the shipping cost for an order subtotal: zero
// when the rate is paid at the destination or the subtotal beats a
// configured free-shipping threshold.
func (r *ShippingRate) CalculatePrice(orderPrice int64) int64 {
	if r.PayAtDestination {
		return 0
	}
	if r.FreeShippingThreshold > 0 && orderPrice > r.FreeShippingThreshold {
		return 0
	}
	return r.Price
}

// IsValidShippingMethod checks a selected rate against the delivery
// address. A province-specific rate must match the address province
// exactly; an all-area rate is a fallback that loses to any public
// province-specific rate covering that province.
func IsValidShippingMethod(db *gorm.DB, address *UserAddress, rate *ShippingRate) (bool, string) {
	if address == nil || rate == nil {
		return false, "آدرس و یا شیوه ارسال نا معتبر"
	}
	return IsValidShippingForProvince(db, address.ReceiverProvince, rate)
}

// IsValidShippingForProvince is IsValidShippingMethod for a bare province
// name, used when re-validating against an order's address snapshot.
func IsValidShippingForProvince(db *gorm.DB, province string, rate *ShippingRate) (bool, string) {
	if province == "" || rate == nil {
		return false, "آدرس و یا شیوه ارسال نا معتبر"
	}
	if rate.AllArea {
		var count int64
		res := db.Model(&ShippingRate{}).
			Where("all_area = ? AND is_public = ? AND area = ?", false, true, province).
			Count(&count)
		if res.Error != nil || count > 0 {
			return false, "شیوه ارسال انتخاب شده نامعتبر می باشد"
		}
		return true, ""
	}
	if rate.Area == province {
		return true, ""
	}
	return false, "شیوه ارسال انتخاب شده نامعتبر می باشد"
}
