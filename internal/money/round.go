package money

import "github.com/shopspring/decimal"

// Round rounds an amount to minor units, half away from zero.
// Callers keep full precision until display.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// MaxUnitPrice is the platform ceiling for any single per-person price.
var MaxUnitPrice = decimal.NewFromInt(10000)
