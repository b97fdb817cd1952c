package service

import (
	"context"

	"github.com/lankaconnect/eventpricing/internal/observability/metrics"
	revenuedomain "github.com/lankaconnect/eventpricing/internal/revenue/domain"
	taxratedomain "github.com/lankaconnect/eventpricing/internal/taxrate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	TaxRates   taxratedomain.Service
	Commission revenuedomain.CommissionSettingsProvider
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	taxRates   taxratedomain.Service
	commission revenuedomain.CommissionSettingsProvider
	metrics    *metrics.Metrics
}

func New(p Params) revenuedomain.Service {
	return &Service{
		log:        p.Log.Named("revenue.service"),
		taxRates:   p.TaxRates,
		commission: p.Commission,
		metrics:    p.Metrics,
	}
}

func (s *Service) Settings(context.Context) revenuedomain.CommissionSettings {
	return s.commission.Current()
}

func (s *Service) Breakdown(ctx context.Context, req revenuedomain.BreakdownRequest) (*revenuedomain.BreakdownResponse, error) {
	table, err := s.taxRates.Table(ctx)
	if err != nil {
		return nil, err
	}

	// one snapshot per calculation; a reload mid-request does not split it
	settings := s.commission.Current()
	breakdown := NewCalculator(table).Calculate(revenuedomain.Input{
		Gross:    req.GrossAmount,
		Currency: req.Currency,
		State:    req.State,
		Country:  req.Country,
		Settings: settings,
	})

	resp := &revenuedomain.BreakdownResponse{Settings: settings}
	if breakdown == nil {
		s.log.Debug("no breakdown applies",
			zap.String("gross", req.GrossAmount.Decimal.String()),
			zap.Bool("gross_set", req.GrossAmount.Valid),
			zap.Int16("currency", int16(req.Currency)),
		)
		return resp, nil
	}

	rounded := breakdown.Rounded()
	resp.Breakdown = &rounded
	resp.PayoutWarning = IsPayoutWarningThreshold(breakdown)
	s.metrics.ObserveBreakdown(breakdown.SalesTaxRate.IsPositive(), resp.PayoutWarning)

	if resp.PayoutWarning {
		s.log.Info("organizer payout below threshold",
			zap.String("gross", breakdown.GrossAmount.String()),
			zap.String("payout", rounded.OrganizerPayoutAmount.String()),
		)
	}
	return resp, nil
}
