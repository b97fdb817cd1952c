package domain

import (
	"context"

	"github.com/lankaconnect/eventpricing/internal/money"
	"github.com/shopspring/decimal"
)

type Service interface {
	// Breakdown splits gross using the tax table and commission snapshot in
	// force now. A nil Breakdown in the response means none applies.
	Breakdown(ctx context.Context, req BreakdownRequest) (*BreakdownResponse, error)
	Settings(ctx context.Context) CommissionSettings
}

type BreakdownRequest struct {
	GrossAmount decimal.NullDecimal `json:"gross_amount"`
	Currency    money.Currency      `json:"currency"`
	State       string              `json:"state"`
	Country     string              `json:"country"`
}

type BreakdownResponse struct {
	Breakdown     *Breakdown         `json:"breakdown"`
	PayoutWarning bool               `json:"payout_warning"`
	Settings      CommissionSettings `json:"settings"`
}
