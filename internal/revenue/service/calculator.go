package service

import (
	"strings"

	revenuedomain "github.com/lankaconnect/eventpricing/internal/revenue/domain"
	"github.com/shopspring/decimal"
)

const taxableCountry = "United States"

var (
	maxTaxRate      = decimal.RequireFromString("0.5")
	payoutThreshold = decimal.NewFromInt(1)
)

// Calculator computes revenue breakdowns against an injected tax-rate table.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	rates revenuedomain.TaxRateTable
}

func NewCalculator(rates revenuedomain.TaxRateTable) *Calculator {
	return &Calculator{rates: rates}
}

// Calculate returns nil when no breakdown applies: null or non-positive gross,
// unsupported currency, or unusable commission settings.
//
// The order is fixed: tax on gross, taxable = gross - tax, processor fee and
// commission on taxable, payout = taxable - fee - commission.
func (c *Calculator) Calculate(in revenuedomain.Input) *revenuedomain.Breakdown {
	if !in.Gross.Valid || !in.Gross.Decimal.IsPositive() {
		return nil
	}
	if !in.Currency.Valid() {
		return nil
	}
	settings := in.Settings
	if err := settings.Validate(); err != nil {
		return nil
	}

	gross := in.Gross.Decimal
	rate := c.TaxRate(in.State, in.Country)

	salesTax := gross.Mul(rate)
	taxable := gross.Sub(salesTax)
	stripeFee := taxable.Mul(settings.StripeFeeRate).Add(settings.StripeFeeFixed)
	commission := taxable.Mul(settings.PlatformCommissionRate)
	payout := taxable.Sub(stripeFee).Sub(commission)

	return &revenuedomain.Breakdown{
		GrossAmount:              gross,
		SalesTaxAmount:           salesTax,
		TaxableAmount:            taxable,
		StripeFeeAmount:          stripeFee,
		PlatformCommissionAmount: commission,
		OrganizerPayoutAmount:    payout,
		Currency:                 in.Currency,
		SalesTaxRate:             rate,
		TaxRateDisplay:           FormatTaxRate(rate),
	}
}

// TaxRate is zero unless the buyer is in the United States and the state is
// present in the table.
func (c *Calculator) TaxRate(state, country string) decimal.Decimal {
	if !strings.EqualFold(strings.TrimSpace(country), taxableCountry) {
		return decimal.Zero
	}
	state = strings.TrimSpace(state)
	if state == "" || c.rates == nil {
		return decimal.Zero
	}
	rate, ok := c.rates.RateFor(state)
	if !ok || rate.IsNegative() || rate.GreaterThan(maxTaxRate) {
		return decimal.Zero
	}
	return rate
}

// FormatTaxRate renders a fractional rate as a percentage, e.g. 0.0725 -> "7.25%".
func FormatTaxRate(rate decimal.Decimal) string {
	if !rate.IsPositive() {
		return "0%"
	}
	return rate.Shift(2).Round(4).String() + "%"
}

// IsPayoutWarningThreshold reports an organizer payout below one major unit.
// Informational only.
func IsPayoutWarningThreshold(b *revenuedomain.Breakdown) bool {
	if b == nil {
		return false
	}
	return b.OrganizerPayoutAmount.LessThan(payoutThreshold)
}
