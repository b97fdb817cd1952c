package service

import (
	"context"
	"strings"
	"time"

	"github.com/lankaconnect/eventpricing/internal/cache"
	"github.com/lankaconnect/eventpricing/internal/clock"
	revenueservice "github.com/lankaconnect/eventpricing/internal/revenue/service"
	taxratedomain "github.com/lankaconnect/eventpricing/internal/taxrate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// rates change a handful of times per year; quotes read them on every request
const effectiveRatesTTL = 5 * time.Minute

const effectiveRatesKey = "effective"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  taxratedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  taxratedomain.Repository
	rates cache.Cache[string, []taxratedomain.StateTaxRate]
}

func New(p Params) taxratedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("taxrate.service"),
		clock: p.Clock,
		repo:  p.Repo,
		rates: cache.NewTTLCache[string, []taxratedomain.StateTaxRate](p.Clock),
	}
}

func (s *Service) effective(ctx context.Context) ([]taxratedomain.StateTaxRate, error) {
	if items, ok := s.rates.Get(effectiveRatesKey); ok {
		return items, nil
	}
	items, err := s.repo.ListEffective(ctx, s.db, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.rates.Set(effectiveRatesKey, items, effectiveRatesTTL)
	return items, nil
}

func (s *Service) Table(ctx context.Context) (taxratedomain.Table, error) {
	items, err := s.effective(ctx)
	if err != nil {
		s.log.Error("failed to load state tax rates", zap.Error(err))
		return nil, err
	}
	return taxratedomain.NewTable(items), nil
}

func (s *Service) List(ctx context.Context) ([]taxratedomain.Response, error) {
	items, err := s.effective(ctx)
	if err != nil {
		return nil, err
	}

	// rows are ordered newest first within each state
	resp := make([]taxratedomain.Response, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		code := strings.ToUpper(items[i].StateCode)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, state string) (*taxratedomain.Response, error) {
	key := strings.ToUpper(strings.Join(strings.Fields(state), " "))
	if key == "" {
		return nil, taxratedomain.ErrInvalidState
	}

	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if strings.ToUpper(items[i].StateCode) == key || strings.ToUpper(items[i].StateName) == key {
			return &items[i], nil
		}
	}
	return nil, taxratedomain.ErrNotFound
}

func toResponse(r *taxratedomain.StateTaxRate) taxratedomain.Response {
	return taxratedomain.Response{
		ID:            r.ID.String(),
		StateCode:     r.StateCode,
		StateName:     r.StateName,
		TaxRate:       r.TaxRate,
		Display:       revenueservice.FormatTaxRate(r.TaxRate),
		EffectiveDate: r.EffectiveDate,
		DataSource:    r.DataSource,
	}
}
