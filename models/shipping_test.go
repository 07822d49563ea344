package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingCalculatePrice(t *testing.T) {
	rate := ShippingRate{Price: 10000, FreeShippingThreshold: 60000}

	// subtotal below the threshold pays full shipping
	assert.Equal(t, int64(10000), rate.CalculatePrice(50000))

	// subtotal above the threshold ships free
	assert.Equal(t, int64(0), rate.CalculatePrice(70000))

	// exactly at the threshold still pays
	assert.Equal(t, int64(10000), rate.CalculatePrice(60000))
}

func TestShippingCalculatePricePayAtDestination(t *testing.T) {
	rate := ShippingRate{Price: 10000, PayAtDestination: true}
	assert.Equal(t, int64(0), rate.CalculatePrice(1000))
}

func TestShippingCalculatePriceNoThreshold(t *testing.T) {
	rate := ShippingRate{Price: 10000}
	assert.Equal(t, int64(10000), rate.CalculatePrice(1_000_000))
}
