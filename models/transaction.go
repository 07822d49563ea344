package models

import (
	"math/rand"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Transaction status labels, surfaced verbatim to the client
const (
	TransactionStatusSuccess        = "پرداخت موفق"
	TransactionStatusFailed         = "پرداخت ناموفق"
	TransactionStatusOther          = "نا مشخص"
	TransactionStatusCancelByUser   = "پرداخت توسط کاربر کنسل شده است"
	TransactionStatusWaiting        = "در انتظار برای انتقال کاربر به درگاه بانک"
	TransactionStatusReturnFromBank = "کاربر از درگاه برگشته"
	TransactionStatusRedirectToBank = "کاربر به درگاه انتقال یافت"
)

// Transaction is one payment-gateway attempt for an order. Rows are only
// appended; an attempt that fails stays recorded with its reason.
type Transaction struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  *uint  `json:"user_id"`
	User    *User  `json:"-" gorm:"foreignKey:UserID"`
	OrderID *uint  `json:"order_id"`
	Order   *Order `json:"-" gorm:"foreignKey:OrderID"`

	Status            string `json:"status" gorm:"size:55"`
	FailedReason      string `json:"failed_reason,omitempty"`
	TransactionNumber string `json:"transaction_number" gorm:"size:50"` // شماره پیگیری
	Slug              string `gorm:"uniqueIndex;size:6" json:"slug"`
	Authority         string `json:"-" gorm:"size:64"`
	RefID             string `json:"ref_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the original schema name
func (Transaction) TableName() string {
	return "transaction"
}

const slugAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BeforeCreate assigns a unique 8-digit transaction number and 6-char slug.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TransactionNumber == "" {
		for {
			number := strconv.Itoa(10000000 + rand.Intn(90000000))
			var count int64
			if err := tx.Model(&Transaction{}).Where("transaction_number = ?", number).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				t.TransactionNumber = number
				break
			}
		}
	}
	if t.Slug == "" {
		for {
			b := make([]byte, 6)
			for i := range b {
				b[i] = slugAlphabet[rand.Intn(len(slugAlphabet))]
			}
			slug := string(b)
			var count int64
			if err := tx.Model(&Transaction{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				t.Slug = slug
				break
			}
		}
	}
	return nil
}
