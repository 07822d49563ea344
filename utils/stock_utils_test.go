package utils

import (
	"testing"
	"time"

	"github.com/bazargah/backend/models"
	"github.com/stretchr/testify/assert"
)

func ptrInt64(v int64) *int64 { return &v }

func ptrTime(v time.Time) *time.Time { return &v }

func TestComputeParentDefaultsMirrorsCheapestChild(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	available := []*models.StockRecord{
		{SalePrice: 3000, NumStock: 5},
		{
			SalePrice:               2000,
			NumStock:                2,
			SpecialSalePrice:        ptrInt64(1500),
			SpecialSalePriceStartAt: &start,
			SpecialSalePriceEndAt:   &end,
		},
		{SalePrice: 5000, NumStock: 9},
	}

	defaults := computeParentDefaults(available, &models.StockRecord{SalePrice: 8000})
	assert.Equal(t, int64(2000), defaults["sale_price"])
	assert.Equal(t, 2, defaults["num_stock"])
	assert.Equal(t, ptrInt64(1500), defaults["special_sale_price"])
	assert.Equal(t, &start, defaults["special_sale_price_start_at"])
	assert.Equal(t, &end, defaults["special_sale_price_end_at"])
}

func TestComputeParentDefaultsUnionsSpecialWindows(t *testing.T) {
	earliest := time.Now().Add(-2 * time.Hour)
	latest := time.Now().Add(3 * time.Hour)
	available := []*models.StockRecord{
		{
			SalePrice:               2000,
			NumStock:                1,
			SpecialSalePrice:        ptrInt64(1500),
			SpecialSalePriceStartAt: &earliest,
			SpecialSalePriceEndAt:   ptrTime(time.Now().Add(time.Hour)),
		},
		{
			SalePrice:               3000,
			NumStock:                4,
			SpecialSalePrice:        ptrInt64(2500),
			SpecialSalePriceStartAt: ptrTime(time.Now().Add(-time.Hour)),
			SpecialSalePriceEndAt:   &latest,
		},
	}

	// the mirrored window spans the earliest start and the latest end
	defaults := computeParentDefaults(available, &models.StockRecord{SalePrice: 8000})
	assert.Equal(t, int64(2000), defaults["sale_price"])
	assert.Equal(t, &earliest, defaults["special_sale_price_start_at"])
	assert.Equal(t, &latest, defaults["special_sale_price_end_at"])
}

func TestComputeParentDefaultsIgnoresStaleWindows(t *testing.T) {
	available := []*models.StockRecord{
		{
			SalePrice:               2000,
			NumStock:                3,
			SpecialSalePrice:        ptrInt64(1500),
			SpecialSalePriceStartAt: ptrTime(time.Now().Add(-3 * time.Hour)),
			SpecialSalePriceEndAt:   ptrTime(time.Now().Add(-time.Hour)),
		},
		{SalePrice: 4000, NumStock: 1},
	}

	defaults := computeParentDefaults(available, &models.StockRecord{SalePrice: 8000})
	assert.Equal(t, int64(2000), defaults["sale_price"])
	assert.Nil(t, defaults["special_sale_price_start_at"])
	assert.Nil(t, defaults["special_sale_price_end_at"])
}

func TestComputeParentDefaultsFallbackClearsSpecialPrice(t *testing.T) {
	saving := &models.StockRecord{SalePrice: 7000, NumStock: 0}

	defaults := computeParentDefaults(nil, saving)
	assert.Equal(t, int64(7000), defaults["sale_price"])
	assert.Equal(t, 0, defaults["num_stock"])
	assert.Nil(t, defaults["special_sale_price"])
	assert.Nil(t, defaults["special_sale_price_start_at"])
	assert.Nil(t, defaults["special_sale_price_end_at"])
}
