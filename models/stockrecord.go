package models

import (
	"time"
)

// StockRecord holds price and inventory for one product. Prices are
// integer Toman amounts.
type StockRecord struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	ProductID               uint       `gorm:"uniqueIndex;not null" json:"product_id"`
	SKU                     string     `gorm:"uniqueIndex;default:null" json:"sku"`
	BuyPrice                *int64     `json:"buy_price,omitempty"`
	SalePrice               int64      `json:"sale_price" gorm:"not null"`
	SpecialSalePrice        *int64     `json:"special_sale_price"`
	SpecialSalePriceStartAt *time.Time `json:"special_sale_price_start_at"`
	SpecialSalePriceEndAt   *time.Time `json:"special_sale_price_end_at"`
	NumStock                int        `json:"num_stock" gorm:"default:0"`
	InOrderLimit            *int       `json:"in_order_limit"`
	ThresholdLowStock       *int       `json:"threshold_low_stock"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// TableName keeps the original schema name
func (StockRecord) TableName() string {
	return "stock_record"
}

// HasSpecialPriceWithDate reports whether a special price is set together
// with at least one window bound.
func (s *StockRecord) HasSpecialPriceWithDate() bool {
	if s.SpecialSalePrice == nil {
		return false
	}
	return s.SpecialSalePriceStartAt != nil || s.SpecialSalePriceEndAt != nil
}

// IsSpecialPriceDatesValid reports whether the configured start bound has
// been reached and, when an end bound is set, not yet passed.
func (s *StockRecord) IsSpecialPriceDatesValid() bool {
	return s.IsSpecialPriceDatesValidAt(time.Now())
}

// IsSpecialPriceDatesValidAt is IsSpecialPriceDatesValid against a given
// instant.
func (s *StockRecord) IsSpecialPriceDatesValidAt(now time.Time) bool {
	if s.SpecialSalePriceStartAt != nil && s.SpecialSalePriceEndAt == nil {
		return !now.Before(*s.SpecialSalePriceStartAt)
	}
	if s.SpecialSalePriceStartAt != nil && s.SpecialSalePriceEndAt != nil {
		return !now.Before(*s.SpecialSalePriceStartAt) && !now.After(*s.SpecialSalePriceEndAt)
	}
	return false
}

// FinalPrice resolves the effective sale price: the special price when one
// is set and the current time satisfies whichever window bounds exist,
// otherwise the regular sale price.
func (s *StockRecord) FinalPrice() int64 {
	return s.FinalPriceAt(time.Now())
}

// FinalPriceAt is FinalPrice against a given instant.
func (s *StockRecord) FinalPriceAt(now time.Time) int64 {
	if s.SpecialSalePrice != nil {
		start, end := s.SpecialSalePriceStartAt, s.SpecialSalePriceEndAt
		switch {
		case start == nil && end == nil:
			return *s.SpecialSalePrice
		case start != nil && end != nil:
			if !now.Before(*start) && !now.After(*end) {
				return *s.SpecialSalePrice
			}
		case start != nil:
			if !now.Before(*start) {
				return *s.SpecialSalePrice
			}
		case end != nil:
			if !now.After(*end) {
				return *s.SpecialSalePrice
			}
		}
	}
	return s.SalePrice
}

// MaxOrderable returns how many units a single open cart may hold,
// clamping stock with the per-order limit. A nil limit means the stock
// count alone bounds the cart.
func (s *StockRecord) MaxOrderable() int {
	limit := s.NumStock
	if s.InOrderLimit != nil && *s.InOrderLimit < limit {
		limit = *s.InOrderLimit
	}
	return limit
}
