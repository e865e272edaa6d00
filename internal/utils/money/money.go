// Package money formats integer minor-currency amounts for display.
// The ledger stores amounts as int64 minor units; everything user
// facing goes through these helpers.
package money

import "github.com/shopspring/decimal"

// DefaultExponent is the minor-unit exponent used for display.
// Multi-currency conversion is out of scope; amounts are stored and
// rendered with two decimal places.
const DefaultExponent = 2

// FromMinorUnits converts an integer minor-unit amount to a decimal in
// major units using the currency's exponent.
// Example: 4250 with exponent 2 returns 42.50
func FromMinorUnits(amount int64, exponent int) decimal.Decimal {
	return decimal.New(amount, -int32(exponent))
}

// FormatMinorUnits renders an integer minor-unit amount as a fixed
// precision string.
// Example: 4250 with exponent 2 returns "42.50"
func FormatMinorUnits(amount int64, exponent int) string {
	return FromMinorUnits(amount, exponent).StringFixed(int32(exponent))
}
