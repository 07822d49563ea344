package config

import (
	"fmt"

	"github.com/bazargah/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	// Auto-migrate the schema
	err = DB.AutoMigrate(
		&models.User{},
		&models.UserAddress{},
		&models.UserOTP{},
		&models.Admin{},
		&models.ProductClass{},
		&models.Product{},
		&models.StockRecord{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderAddress{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.ShippingService{},
		&models.ShippingRate{},
		&models.Transaction{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}
