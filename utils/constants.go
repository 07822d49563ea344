package utils

import "time"

// AppName is used in OTP emails and text messages
const AppName = "بازارگاه"

// MaxUserAddresses caps how many addresses a user can save
const MaxUserAddresses = 5

// GatewayMinimumAmount is the smallest payable the gateway accepts, in
// Toman. Smaller totals are clamped up to it.
const GatewayMinimumAmount int64 = 1000

// RepaymentWindow is how long a pending order stays payable after a
// checkout attempt
const RepaymentWindow = time.Hour

// VerifyLookback bounds how old a transaction may be when the bank
// callback arrives
const VerifyLookback = time.Hour

// OTPExpiry is how long a login verification code stays valid
const OTPExpiry = 2 * time.Minute
