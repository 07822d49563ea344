package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("09123456789"))
	assert.False(t, ValidatePhone("9123456789"))
	assert.False(t, ValidatePhone("0912345678"))
	assert.False(t, ValidatePhone("091234567890"))
	assert.False(t, ValidatePhone("0912345678a"))
}

func TestValidatePostalCode(t *testing.T) {
	assert.True(t, ValidatePostalCode("1234567890"))
	assert.False(t, ValidatePostalCode("123456789"))
	assert.False(t, ValidatePostalCode("12345678901"))
	assert.False(t, ValidatePostalCode("12345abcde"))
}

func TestValidateCouponCode(t *testing.T) {
	assert.True(t, ValidateCouponCode("NOWRUZ1404"))
	assert.True(t, ValidateCouponCode("first-order_10"))
	assert.False(t, ValidateCouponCode(""))
	assert.False(t, ValidateCouponCode("off 10"))
	assert.False(t, ValidateCouponCode("تخفیف"))
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeIdentifier("  User@Example.COM "))
	assert.Equal(t, "09123456789", NormalizeIdentifier("09123456789"))
}
