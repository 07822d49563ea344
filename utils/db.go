package utils

import (
	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/models"
	"gorm.io/gorm"
)

// orderPreloads loads everything cart and checkout code reads from an
// order in one go.
func orderPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items.Product.StockRecord").
		Preload("Items.Product.ProductClass").
		Preload("Items.Product.Parent.ProductClass").
		Preload("ShippingRate").
		Preload("Address").
		Preload("Coupon")
}

// GetOpenOrder returns the user's open cart order, or nil when none exists.
func GetOpenOrder(userID uint) (*models.Order, error) {
	var order models.Order
	err := orderPreloads(config.DB).
		Where("user_id = ? AND payment_status = ?", userID, models.PaymentStatusOpen).
		First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrCreateOpenOrder returns the user's open cart order, creating an
// empty one on first use.
func GetOrCreateOpenOrder(userID uint) (*models.Order, error) {
	order, err := GetOpenOrder(userID)
	if err != nil {
		return nil, err
	}
	if order != nil {
		return order, nil
	}
	order = &models.Order{UserID: &userID, PaymentStatus: models.PaymentStatusOpen}
	if err := config.DB.Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// GetPendingOrder returns the user's newest pending-payment order, or nil.
func GetPendingOrder(userID uint) (*models.Order, error) {
	var order models.Order
	err := orderPreloads(config.DB).
		Where("user_id = ? AND payment_status = ?", userID, models.PaymentStatusPending).
		Order("updated_at DESC").
		First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderBySlug retrieves an order by its public order number.
func GetOrderBySlug(slug string) (*models.Order, error) {
	var order models.Order
	err := orderPreloads(config.DB).Where("slug = ?", slug).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetUserOrderBySlug retrieves an order by number, scoped to its owner.
func GetUserOrderBySlug(userID uint, slug string) (*models.Order, error) {
	var order models.Order
	err := orderPreloads(config.DB).
		Where("user_id = ? AND slug = ?", userID, slug).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetUserByID retrieves a user by ID
func GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := config.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByPhone retrieves a user by phone number
func GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("phone = ?", phone).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAdminByEmail retrieves an admin by email
func GetAdminByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := config.DB.Where("email = ?", email).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetUserAddress retrieves one of the user's saved addresses.
func GetUserAddress(userID, addressID uint) (*models.UserAddress, error) {
	var address models.UserAddress
	err := config.DB.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// CountUserAddresses returns how many addresses the user has saved.
func CountUserAddresses(userID uint) (int64, error) {
	var count int64
	err := config.DB.Model(&models.UserAddress{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// GetPublicShippingRate retrieves a shipping rate visible to customers.
func GetPublicShippingRate(id uint) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	err := config.DB.Preload("Service").Where("id = ? AND is_public = ?", id, true).First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// GetCouponByCode retrieves a coupon by its redeem code.
func GetCouponByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := config.DB.Where("code = ?", code).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
