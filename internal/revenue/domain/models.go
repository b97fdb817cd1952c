package domain

import (
	"errors"

	"github.com/lankaconnect/eventpricing/internal/money"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCommissionRate = errors.New("invalid_platform_commission_rate")
	ErrInvalidStripeFeeRate  = errors.New("invalid_stripe_fee_rate")
	ErrInvalidStripeFeeFixed = errors.New("invalid_stripe_fee_fixed")
)

// CommissionSettings is a read-only snapshot of platform fee configuration.
type CommissionSettings struct {
	PlatformCommissionRate decimal.Decimal `json:"platform_commission_rate"`
	StripeFeeRate          decimal.Decimal `json:"stripe_fee_rate"`
	StripeFeeFixed         decimal.Decimal `json:"stripe_fee_fixed"`
}

func DefaultCommissionSettings() CommissionSettings {
	return CommissionSettings{
		PlatformCommissionRate: decimal.RequireFromString("0.02"),
		StripeFeeRate:          decimal.RequireFromString("0.029"),
		StripeFeeFixed:         decimal.RequireFromString("0.30"),
	}
}

func (s CommissionSettings) Validate() error {
	one := decimal.NewFromInt(1)
	if s.PlatformCommissionRate.IsNegative() || s.PlatformCommissionRate.GreaterThanOrEqual(one) {
		return ErrInvalidCommissionRate
	}
	if s.StripeFeeRate.IsNegative() || s.StripeFeeRate.GreaterThanOrEqual(one) {
		return ErrInvalidStripeFeeRate
	}
	if s.StripeFeeFixed.IsNegative() {
		return ErrInvalidStripeFeeFixed
	}
	return nil
}

// TaxRateTable resolves a US state (code or name) to its sales tax rate.
type TaxRateTable interface {
	RateFor(state string) (decimal.Decimal, bool)
}

type Input struct {
	Gross    decimal.NullDecimal
	Currency money.Currency
	State    string
	Country  string
	Settings CommissionSettings
}

// Breakdown splits a gross ticket price into tax, processor fee, platform
// commission and organizer payout. Amounts are kept at full precision; use
// Rounded for display.
type Breakdown struct {
	GrossAmount              decimal.Decimal `json:"gross_amount"`
	SalesTaxAmount           decimal.Decimal `json:"sales_tax_amount"`
	TaxableAmount            decimal.Decimal `json:"taxable_amount"`
	StripeFeeAmount          decimal.Decimal `json:"stripe_fee_amount"`
	PlatformCommissionAmount decimal.Decimal `json:"platform_commission_amount"`
	OrganizerPayoutAmount    decimal.Decimal `json:"organizer_payout_amount"`
	Currency                 money.Currency  `json:"currency"`
	SalesTaxRate             decimal.Decimal `json:"sales_tax_rate"`
	TaxRateDisplay           string          `json:"tax_rate_display"`
}

// Rounded returns the breakdown in minor units. Components are rounded half-up
// individually and the taxable amount and payout are re-derived from the
// rounded parts, so the displayed rows always add up.
func (b Breakdown) Rounded() Breakdown {
	out := b
	out.GrossAmount = money.Round(b.GrossAmount)
	out.SalesTaxAmount = money.Round(b.SalesTaxAmount)
	out.TaxableAmount = out.GrossAmount.Sub(out.SalesTaxAmount)
	out.StripeFeeAmount = money.Round(b.StripeFeeAmount)
	out.PlatformCommissionAmount = money.Round(b.PlatformCommissionAmount)
	out.OrganizerPayoutAmount = out.TaxableAmount.
		Sub(out.StripeFeeAmount).
		Sub(out.PlatformCommissionAmount)
	return out
}

// CommissionSettingsProvider hands out the settings snapshot to use for one
// calculation.
type CommissionSettingsProvider interface {
	Current() CommissionSettings
}
