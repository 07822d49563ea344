package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestAcquireLockWinsWhenUnlocked(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE "order" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order := Order{ID: 7}
	won, err := order.AcquireLock(db)
	require.NoError(t, err)
	assert.True(t, won)
	assert.True(t, order.Lock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireLockLosesWhenAlreadyLocked(t *testing.T) {
	db, mock := newMockDB(t)

	// another checkout already flipped the flag, so the guarded update
	// matches no row
	mock.ExpectExec(`UPDATE "order" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	order := Order{ID: 7}
	won, err := order.AcquireLock(db)
	require.NoError(t, err)
	assert.False(t, won)
	assert.False(t, order.Lock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseLock(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE "order" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order := Order{ID: 7, Lock: true}
	require.NoError(t, order.ReleaseLock(db))
	assert.False(t, order.Lock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateUniqueSlug(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "order"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	slug, err := GenerateUniqueSlug(db)
	require.NoError(t, err)
	assert.Len(t, slug, 5)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCanRepayAtInsideWindow(t *testing.T) {
	now := time.Now()
	future := now.Add(30 * time.Minute)

	order := Order{PaymentStatus: PaymentStatusPending, RepaymentExpireAt: &future}
	assert.True(t, order.CanRepayAt(now))
}

func TestCanRepayAtRefusesExpiredWindow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	order := Order{PaymentStatus: PaymentStatusPending, RepaymentExpireAt: &past}
	assert.False(t, order.CanRepayAt(now))

	// the boundary instant already counts as expired
	boundary := Order{PaymentStatus: PaymentStatusPending, RepaymentExpireAt: &now}
	assert.False(t, boundary.CanRepayAt(now))
}

func TestCanRepayAtRefusesWithoutWindow(t *testing.T) {
	order := Order{PaymentStatus: PaymentStatusPending}
	assert.False(t, order.CanRepayAt(time.Now()))
}

func TestCanRepayAtRefusesNonPendingOrder(t *testing.T) {
	now := time.Now()
	future := now.Add(30 * time.Minute)

	open := Order{PaymentStatus: PaymentStatusOpen, RepaymentExpireAt: &future}
	assert.False(t, open.CanRepayAt(now))

	paid := Order{PaymentStatus: PaymentStatusPaid, RepaymentExpireAt: &future}
	assert.False(t, paid.CanRepayAt(now))
}

func TestOrderTotalPrice(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{
				Count: 2,
				Product: &Product{
					StockRecord: &StockRecord{SalePrice: 1000},
				},
			},
			{
				Count: 1,
				Product: &Product{
					StockRecord: &StockRecord{SalePrice: 5000, SpecialSalePrice: ptrInt64(4000)},
				},
			},
		},
	}
	assert.Equal(t, int64(6000), order.TotalPrice())
}

func TestOrderItemProfitAndDiscountDiff(t *testing.T) {
	item := OrderItem{
		Count: 3,
		Product: &Product{
			StockRecord: &StockRecord{SalePrice: 1000, SpecialSalePrice: ptrInt64(700)},
		},
	}
	assert.Equal(t, int64(300), item.Profit())
	assert.Equal(t, int64(1000), item.DiscountDiff())

	plain := OrderItem{
		Count: 1,
		Product: &Product{
			StockRecord: &StockRecord{SalePrice: 1000},
		},
	}
	assert.Equal(t, int64(0), plain.Profit())
	assert.Equal(t, int64(0), plain.DiscountDiff())
}
