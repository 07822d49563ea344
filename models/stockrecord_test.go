package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptrInt64(v int64) *int64 { return &v }
func ptrInt(v int) *int       { return &v }
func ptrTime(v time.Time) *time.Time {
	return &v
}

func TestFinalPriceAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name string
		rec  StockRecord
		want int64
	}{
		{
			name: "no special price",
			rec:  StockRecord{SalePrice: 1000},
			want: 1000,
		},
		{
			name: "special price without window",
			rec:  StockRecord{SalePrice: 1000, SpecialSalePrice: ptrInt64(800)},
			want: 800,
		},
		{
			name: "open ended start already reached",
			rec: StockRecord{
				SalePrice:               1000,
				SpecialSalePrice:        ptrInt64(800),
				SpecialSalePriceStartAt: ptrTime(before),
			},
			want: 800,
		},
		{
			name: "open ended start not reached",
			rec: StockRecord{
				SalePrice:               1000,
				SpecialSalePrice:        ptrInt64(800),
				SpecialSalePriceStartAt: ptrTime(after),
			},
			want: 1000,
		},
		{
			name: "inside full window",
			rec: StockRecord{
				SalePrice:               1000,
				SpecialSalePrice:        ptrInt64(800),
				SpecialSalePriceStartAt: ptrTime(before),
				SpecialSalePriceEndAt:   ptrTime(after),
			},
			want: 800,
		},
		{
			name: "past full window",
			rec: StockRecord{
				SalePrice:               1000,
				SpecialSalePrice:        ptrInt64(800),
				SpecialSalePriceStartAt: ptrTime(before.Add(-time.Hour)),
				SpecialSalePriceEndAt:   ptrTime(before),
			},
			want: 1000,
		},
		{
			name: "window end exactly now",
			rec: StockRecord{
				SalePrice:               1000,
				SpecialSalePrice:        ptrInt64(800),
				SpecialSalePriceStartAt: ptrTime(before),
				SpecialSalePriceEndAt:   ptrTime(now),
			},
			want: 800,
		},
		{
			name: "open ended end not passed",
			rec: StockRecord{
				SalePrice:             1000,
				SpecialSalePrice:      ptrInt64(800),
				SpecialSalePriceEndAt: ptrTime(after),
			},
			want: 800,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.FinalPriceAt(now))
		})
	}
}

func TestIsSpecialPriceDatesValidAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	rec := StockRecord{
		SpecialSalePrice:        ptrInt64(800),
		SpecialSalePriceStartAt: ptrTime(now.Add(-time.Hour)),
	}
	assert.True(t, rec.IsSpecialPriceDatesValidAt(now))

	rec.SpecialSalePriceEndAt = ptrTime(now.Add(-time.Minute))
	assert.False(t, rec.IsSpecialPriceDatesValidAt(now))

	// no bounds at all is not a dated special price
	rec = StockRecord{SpecialSalePrice: ptrInt64(800)}
	assert.False(t, rec.IsSpecialPriceDatesValidAt(now))
}

func TestMaxOrderable(t *testing.T) {
	rec := StockRecord{NumStock: 10}
	assert.Equal(t, 10, rec.MaxOrderable())

	rec.InOrderLimit = ptrInt(3)
	assert.Equal(t, 3, rec.MaxOrderable())

	rec.NumStock = 2
	assert.Equal(t, 2, rec.MaxOrderable())
}
