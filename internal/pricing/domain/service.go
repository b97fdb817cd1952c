package domain

import (
	"context"
	"time"

	"github.com/lankaconnect/eventpricing/internal/money"
	revenuedomain "github.com/lankaconnect/eventpricing/internal/revenue/domain"
	"github.com/shopspring/decimal"
)

type Service interface {
	Validate(ctx context.Context, pricing TicketPricing) []FieldError
	Save(ctx context.Context, req SaveRequest) (*Response, error)
	Get(ctx context.Context, eventID string) (*Response, error)
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
}

type SaveRequest struct {
	EventID string        `json:"event_id"`
	Pricing TicketPricing `json:"pricing"`
}

type Response struct {
	ID        string        `json:"id"`
	EventID   string        `json:"event_id"`
	Pricing   TicketPricing `json:"pricing"`
	Version   int64         `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// QuoteRequest prices one registration. Attendees (per-attendee age
// categories) is required for dual pricing; otherwise AttendeeCount is used,
// falling back to len(Attendees).
type QuoteRequest struct {
	EventID       string        `json:"event_id"`
	AttendeeCount int           `json:"attendee_count"`
	Attendees     []AgeCategory `json:"attendees"`
	State         string        `json:"state"`
	Country       string        `json:"country"`
}

type QuoteResponse struct {
	EventID       string                   `json:"event_id"`
	PricingType   PricingType              `json:"pricing_type"`
	Currency      money.Currency           `json:"currency"`
	AttendeeCount int                      `json:"attendee_count"`
	Total         decimal.Decimal          `json:"total"`
	Tier          *GroupPricingTier        `json:"tier,omitempty"`
	Breakdown     *revenuedomain.Breakdown `json:"breakdown,omitempty"`
	PayoutWarning bool                     `json:"payout_warning"`
}

// PricingUpdated is emitted after a configuration is saved so checkout flows
// holding an older snapshot can refresh it.
type PricingUpdated struct {
	EventID     string         `json:"event_id"`
	PricingType PricingType    `json:"pricing_type"`
	Currency    money.Currency `json:"currency"`
	Version     int64          `json:"version"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

//go:generate mockgen -destination=../mocks/publisher_mock.go -package=mocks github.com/lankaconnect/eventpricing/internal/pricing/domain Publisher
type Publisher interface {
	PublishPricingUpdated(ctx context.Context, evt PricingUpdated) error
}
