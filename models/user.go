package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a shop customer, identified by phone or email
type User struct {
	gorm.Model
	Phone      string `gorm:"uniqueIndex;default:null" json:"phone"`
	Email      string `gorm:"uniqueIndex;default:null" json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsVerified bool   `json:"is_verified" gorm:"default:false"`
	IsBlocked  bool   `json:"is_blocked" gorm:"default:false"`
	GoogleID   string `gorm:"default:null" json:"-"`

	Addresses []UserAddress `json:"addresses,omitempty" gorm:"foreignKey:UserID"`
	Orders    []Order       `json:"-" gorm:"foreignKey:UserID"`
}

// Admin represents a back-office administrator
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// UserAddress is a saved delivery address in the user's panel
type UserAddress struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `json:"user_id" gorm:"not null"`
	ReceiverName         string    `json:"receiver_name"`
	ReceiverFamily       string    `json:"receiver_family"`
	ReceiverPhone        string    `json:"receiver_phone"`
	ReceiverNationalCode string    `json:"receiver_national_code"`
	ReceiverProvince     string    `json:"receiver_province"`
	ReceiverCity         string    `json:"receiver_city"`
	ReceiverAddress      string    `json:"receiver_address"`
	ReceiverPostalCode   string    `json:"receiver_postal_code"`
	ReceiverBuildingNo   string    `json:"receiver_building_number"`
	ReceiverUnit         string    `json:"receiver_unit"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName keeps the original schema name
func (UserAddress) TableName() string {
	return "users_addresses"
}

// UserOTP represents a one-time password for login verification
type UserOTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Code      string    `json:"-" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
