package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/lankaconnect/eventpricing/internal/clock"
	"github.com/lankaconnect/eventpricing/internal/observability/metrics"
	pricingdomain "github.com/lankaconnect/eventpricing/internal/pricing/domain"
	revenuedomain "github.com/lankaconnect/eventpricing/internal/revenue/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      pricingdomain.Repository
	Revenue   revenuedomain.Service
	Publisher pricingdomain.Publisher
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      pricingdomain.Repository
	revenue   revenuedomain.Service
	publisher pricingdomain.Publisher
	metrics   *metrics.Metrics
}

func New(p Params) pricingdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("pricing.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		revenue:   p.Revenue,
		publisher: p.Publisher,
		metrics:   p.Metrics,
	}
}

func (s *Service) Validate(ctx context.Context, pricing pricingdomain.TicketPricing) []pricingdomain.FieldError {
	errs := ValidatePricing(pricing)
	for _, e := range errs {
		s.metrics.ObserveValidationFailure(e.Code)
	}
	return errs
}

func (s *Service) Save(ctx context.Context, req pricingdomain.SaveRequest) (*pricingdomain.Response, error) {
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		return nil, pricingdomain.ErrInvalidEventID
	}

	if errs := s.Validate(ctx, req.Pricing); len(errs) > 0 {
		return nil, &pricingdomain.ValidationErrors{Errors: errs}
	}

	pricing := req.Pricing
	if pricing.Type == pricingdomain.PricingTypeGroupTiered {
		pricing.GroupTiers = SortTiers(pricing.GroupTiers)
	}

	now := s.clock.Now()
	row := &pricingdomain.EventPricing{
		ID:          s.genID.Generate(),
		EventID:     eventID,
		PricingType: pricing.Type,
		Currency:    pricing.Currency,
		Config:      datatypes.NewJSONType(pricing),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByEventID(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if existing != nil {
			row.ID = existing.ID
			row.Version = existing.Version + 1
			row.CreatedAt = existing.CreatedAt
		}
		return s.repo.Upsert(ctx, tx, row)
	})
	if err != nil {
		s.log.Error("failed to save event pricing", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	s.metrics.ObserveConfigSave(pricing.Type.String())

	evt := pricingdomain.PricingUpdated{
		EventID:     eventID,
		PricingType: pricing.Type,
		Currency:    pricing.Currency,
		Version:     row.Version,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := s.publisher.PublishPricingUpdated(ctx, evt); err != nil {
		// the row is committed; consumers re-read on their next refresh
		s.metrics.ObservePublishFailure()
		s.log.Warn("failed to publish pricing update",
			zap.String("event_id", eventID),
			zap.Int64("version", row.Version),
			zap.Error(err),
		)
	}

	s.log.Info("event pricing saved",
		zap.String("event_id", eventID),
		zap.String("pricing_type", pricing.Type.String()),
		zap.Int64("version", row.Version),
	)
	return toResponse(row), nil
}

func (s *Service) Get(ctx context.Context, eventID string) (*pricingdomain.Response, error) {
	row, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return toResponse(row), nil
}

func (s *Service) Quote(ctx context.Context, req pricingdomain.QuoteRequest) (*pricingdomain.QuoteResponse, error) {
	row, err := s.load(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	pricing := row.Config.Data()
	typeLabel := pricing.Type.String()

	count, err := attendeeCount(pricing.Type, req)
	if err != nil {
		s.metrics.ObserveQuote(typeLabel, "invalid_request", pricing.Currency.String(), 0)
		return nil, err
	}

	var (
		total decimal.Decimal
		tier  *pricingdomain.GroupPricingTier
		ok    bool
	)
	switch pricing.Type {
	case pricingdomain.PricingTypeSingle:
		if pricing.Single != nil {
			total, ok = SingleTotal(*pricing.Single, count)
		}
	case pricingdomain.PricingTypeAgeDual:
		if pricing.Dual != nil {
			total, ok = DualTotal(*pricing.Dual, req.Attendees)
		}
	case pricingdomain.PricingTypeGroupTiered:
		total, tier, ok = GroupTotal(pricing.GroupTiers, count)
	}
	if !ok {
		s.metrics.ObserveQuote(typeLabel, "no_applicable_price", pricing.Currency.String(), 0)
		s.log.Warn("no applicable price",
			zap.String("event_id", row.EventID),
			zap.String("pricing_type", typeLabel),
			zap.Int("attendee_count", count),
		)
		return nil, pricingdomain.ErrNoApplicablePrice
	}

	breakdown, err := s.revenue.Breakdown(ctx, revenuedomain.BreakdownRequest{
		GrossAmount: decimal.NewNullDecimal(total),
		Currency:    pricing.Currency,
		State:       req.State,
		Country:     req.Country,
	})
	if err != nil {
		s.metrics.ObserveQuote(typeLabel, "error", pricing.Currency.String(), 0)
		return nil, err
	}

	s.metrics.ObserveQuote(typeLabel, "success", pricing.Currency.String(), total.InexactFloat64())
	return &pricingdomain.QuoteResponse{
		EventID:       row.EventID,
		PricingType:   pricing.Type,
		Currency:      pricing.Currency,
		AttendeeCount: count,
		Total:         total,
		Tier:          tier,
		Breakdown:     breakdown.Breakdown,
		PayoutWarning: breakdown.PayoutWarning,
	}, nil
}

func (s *Service) load(ctx context.Context, eventID string) (*pricingdomain.EventPricing, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, pricingdomain.ErrInvalidEventID
	}
	row, err := s.repo.FindByEventID(ctx, s.db, eventID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, pricingdomain.ErrNotFound
	}
	return row, nil
}

// attendeeCount reconciles the explicit count with the attendee list. Dual
// pricing needs the list; the other modes accept either.
func attendeeCount(t pricingdomain.PricingType, req pricingdomain.QuoteRequest) (int, error) {
	if req.AttendeeCount < 0 {
		return 0, pricingdomain.ErrInvalidAttendees
	}
	if req.AttendeeCount > 0 && len(req.Attendees) > 0 && req.AttendeeCount != len(req.Attendees) {
		return 0, pricingdomain.ErrInvalidAttendees
	}
	for _, category := range req.Attendees {
		if !category.Valid() {
			return 0, pricingdomain.ErrInvalidAgeCategory
		}
	}

	count := req.AttendeeCount
	if count == 0 {
		count = len(req.Attendees)
	}
	if count < 1 {
		return 0, pricingdomain.ErrInvalidAttendees
	}
	if t == pricingdomain.PricingTypeAgeDual && len(req.Attendees) == 0 {
		return 0, pricingdomain.ErrInvalidAttendees
	}
	return count, nil
}

func toResponse(row *pricingdomain.EventPricing) *pricingdomain.Response {
	return &pricingdomain.Response{
		ID:        row.ID.String(),
		EventID:   row.EventID,
		Pricing:   row.Config.Data(),
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
