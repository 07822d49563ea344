package controllers

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bazargah/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func cartWith(prices map[int64]int) *models.Order {
	order := &models.Order{}
	for price, count := range prices {
		order.Items = append(order.Items, models.OrderItem{
			Count: count,
			Product: &models.Product{
				StockRecord: &models.StockRecord{SalePrice: price},
			},
		})
	}
	return order
}

func TestComputeTotalsShippingBelowThreshold(t *testing.T) {
	order := cartWith(map[int64]int{50000: 1})
	rate := &models.ShippingRate{Price: 10000, FreeShippingThreshold: 60000}

	totals := computeTotals(order, rate, nil)
	assert.Equal(t, int64(50000), totals.ItemsFinal)
	assert.Equal(t, int64(10000), totals.ShippingEffect)
	assert.Equal(t, int64(60000), totals.Payable)
}

func TestComputeTotalsFreeShippingAboveThreshold(t *testing.T) {
	order := cartWith(map[int64]int{70000: 1})
	rate := &models.ShippingRate{Price: 10000, FreeShippingThreshold: 60000}

	totals := computeTotals(order, rate, nil)
	assert.Equal(t, int64(0), totals.ShippingEffect)
	assert.Equal(t, int64(70000), totals.Payable)
}

func TestComputeTotalsCouponAppliesToShippingInclusiveTotal(t *testing.T) {
	order := cartWith(map[int64]int{1000: 1})
	rate := &models.ShippingRate{Price: 5000}
	coupon := &models.Coupon{DiscountType: models.DiscountTypePercent, DiscountAmount: 20}

	// the discount runs on items plus shipping, not the items alone
	totals := computeTotals(order, rate, coupon)
	assert.Equal(t, int64(1000), totals.ItemsFinal)
	assert.Equal(t, int64(5000), totals.ShippingEffect)
	assert.Equal(t, int64(1200), totals.CouponEffect)
	assert.Equal(t, int64(4800), totals.Payable)
}

func TestComputeTotalsFullCouponCoversShipping(t *testing.T) {
	order := cartWith(map[int64]int{1000: 2})
	rate := &models.ShippingRate{Price: 5000}
	coupon := &models.Coupon{DiscountType: models.DiscountTypePercent, DiscountAmount: 100}

	totals := computeTotals(order, rate, coupon)
	assert.Equal(t, int64(5000), totals.ShippingEffect)
	assert.Equal(t, int64(7000), totals.CouponEffect)
	assert.Equal(t, int64(0), totals.Payable)
}

func TestComputeTotalsFullyCovered(t *testing.T) {
	order := cartWith(map[int64]int{1000: 2})
	rate := &models.ShippingRate{Price: 5000, PayAtDestination: true}
	coupon := &models.Coupon{DiscountType: models.DiscountTypePercent, DiscountAmount: 100}

	totals := computeTotals(order, rate, coupon)
	assert.Equal(t, int64(0), totals.Payable)
}

func TestComputeTotalsSpecialPriceBreakdown(t *testing.T) {
	special := int64(700)
	order := &models.Order{Items: []models.OrderItem{
		{
			Count: 2,
			Product: &models.Product{
				StockRecord: &models.StockRecord{SalePrice: 1000, SpecialSalePrice: &special},
			},
		},
	}}
	rate := &models.ShippingRate{}

	totals := computeTotals(order, rate, nil)
	assert.Equal(t, int64(1400), totals.ItemsFinal)
	assert.Equal(t, int64(2000), totals.ItemsBeforeDiscount)
	assert.Equal(t, int64(600), totals.Profit)
}

func TestFinalizeOrderSettlesWhenStockExhausted(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "order" WHERE (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_status"}).
			AddRow(4, models.PaymentStatusOpen))
	mock.ExpectQuery(`SELECT (.+) FROM "stock_record" WHERE (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "num_stock"}).
			AddRow(9, 5, 1))
	mock.ExpectExec(`UPDATE "stock_record" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "order_item" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "order" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order := &models.Order{ID: 4, Items: []models.OrderItem{
		{
			ID:        3,
			ProductID: 5,
			Count:     3,
			Product: &models.Product{
				StockRecord: &models.StockRecord{ID: 9, ProductID: 5, SalePrice: 1000, NumStock: 1},
			},
		},
	}}

	// the money is already captured when finalize runs, so a cart bigger
	// than the remaining stock still completes and the stock goes negative
	require.NoError(t, finalizeOrder(db, order, nil, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}
