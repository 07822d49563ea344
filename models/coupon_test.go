package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDiscount(t *testing.T) {
	percent := Coupon{DiscountType: DiscountTypePercent, DiscountAmount: 20}
	discounted, amount, effect := percent.CalculateDiscount(1000)
	assert.Equal(t, int64(800), discounted)
	assert.Equal(t, int64(200), amount)
	assert.Equal(t, 20, effect)

	fixed := Coupon{DiscountType: DiscountTypeFixed, DiscountAmount: 5000}
	discounted, amount, _ = fixed.CalculateDiscount(3000)
	assert.Equal(t, int64(0), discounted)
	assert.Equal(t, int64(3000), amount)

	fixed = Coupon{DiscountType: DiscountTypeFixed, DiscountAmount: 500}
	discounted, amount, effect = fixed.CalculateDiscount(1000)
	assert.Equal(t, int64(500), discounted)
	assert.Equal(t, int64(500), amount)
	assert.Equal(t, 50, effect)
}

func TestCheckRules(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("valid coupon", func(t *testing.T) {
		c := Coupon{DiscountType: DiscountTypePercent, DiscountAmount: 10}
		ok, _ := c.CheckRules(1000, 0, false, now)
		assert.True(t, ok)
	})

	t.Run("global usage cap", func(t *testing.T) {
		c := Coupon{MaxUsage: ptrInt(5), UsageCount: 5}
		ok, _ := c.CheckRules(1000, 0, false, now)
		assert.False(t, ok)
	})

	t.Run("per user cap", func(t *testing.T) {
		c := Coupon{MaxUsagePerUser: ptrInt(2)}
		ok, _ := c.CheckRules(1000, 2, false, now)
		assert.False(t, ok)

		ok, _ = c.CheckRules(1000, 1, false, now)
		assert.True(t, ok)
	})

	t.Run("expiry exactly now counts as expired", func(t *testing.T) {
		c := Coupon{ExpireAt: ptrTime(now)}
		ok, _ := c.CheckRules(1000, 0, false, now)
		assert.False(t, ok)

		c.ExpireAt = ptrTime(now.Add(time.Second))
		ok, _ = c.CheckRules(1000, 0, false, now)
		assert.True(t, ok)
	})

	t.Run("order total bounds", func(t *testing.T) {
		c := Coupon{MinOrderTotal: ptrInt64(500), MaxOrderTotal: ptrInt64(2000)}
		ok, _ := c.CheckRules(400, 0, false, now)
		assert.False(t, ok)

		ok, _ = c.CheckRules(2500, 0, false, now)
		assert.False(t, ok)

		ok, _ = c.CheckRules(1000, 0, false, now)
		assert.True(t, ok)
	})

	t.Run("start date not reached", func(t *testing.T) {
		c := Coupon{StartAt: ptrTime(now.Add(time.Hour))}
		ok, _ := c.CheckRules(1000, 0, false, now)
		assert.False(t, ok)
	})

	t.Run("first order only", func(t *testing.T) {
		c := Coupon{OnlyFirstOrder: true}
		ok, _ := c.CheckRules(1000, 0, true, now)
		assert.False(t, ok)

		ok, _ = c.CheckRules(1000, 0, false, now)
		assert.True(t, ok)
	})

	t.Run("check order stops at first failure", func(t *testing.T) {
		c := Coupon{
			MaxUsage:      ptrInt(1),
			UsageCount:    1,
			MinOrderTotal: ptrInt64(5000),
		}
		_, msg := c.CheckRules(100, 0, false, now)
		assert.Equal(t, "کد تخفیف به حداکثر حد مجاز استفاده رسیده است", msg)
	})
}
