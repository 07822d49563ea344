package utils

import (
	"regexp"
	"strings"
)

var (
	phoneRegex      = regexp.MustCompile(`^09\d{9}$`)
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	postalCodeRegex = regexp.MustCompile(`^\d{10}$`)
	couponCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)
)

// ValidatePhone checks the 11-digit local mobile format
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidateEmail checks email format
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePostalCode checks the 10-digit postal code format
func ValidatePostalCode(code string) bool {
	return postalCodeRegex.MatchString(code)
}

// ValidateCouponCode rejects codes with characters outside the allowed set
func ValidateCouponCode(code string) bool {
	return couponCodeRegex.MatchString(code)
}

// NormalizeIdentifier trims and lowercases a login identifier
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
