package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lankaconnect/eventpricing/internal/money"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// GroupPricingTier maps a contiguous attendee-count range to a per-person price.
// A nil MaxAttendees means the tier is unbounded ("N+").
type GroupPricingTier struct {
	MinAttendees   int             `json:"min_attendees"`
	MaxAttendees   *int            `json:"max_attendees"`
	PricePerPerson decimal.Decimal `json:"price_per_person"`
	Currency       money.Currency  `json:"currency"`
}

func (t GroupPricingTier) Covers(attendeeCount int) bool {
	if attendeeCount < t.MinAttendees {
		return false
	}
	return t.MaxAttendees == nil || attendeeCount <= *t.MaxAttendees
}

func (t GroupPricingTier) Overlaps(other GroupPricingTier) bool {
	if t.MaxAttendees != nil && *t.MaxAttendees < other.MinAttendees {
		return false
	}
	if other.MaxAttendees != nil && *other.MaxAttendees < t.MinAttendees {
		return false
	}
	return true
}

func (t GroupPricingTier) RangeLabel() string {
	switch {
	case t.MaxAttendees == nil:
		return fmt.Sprintf("%d+", t.MinAttendees)
	case *t.MaxAttendees == t.MinAttendees:
		return fmt.Sprintf("%d", t.MinAttendees)
	default:
		return fmt.Sprintf("%d-%d", t.MinAttendees, *t.MaxAttendees)
	}
}

type DualPricing struct {
	AdultPrice    decimal.Decimal `json:"adult_price"`
	ChildPrice    decimal.Decimal `json:"child_price"`
	ChildAgeLimit int             `json:"child_age_limit"`
	Currency      money.Currency  `json:"currency"`
}

type SinglePricing struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency money.Currency  `json:"currency"`
}

// TicketPricing is an event's pricing configuration. Exactly one of Single,
// Dual or GroupTiers is populated, selected by Type.
type TicketPricing struct {
	Type       PricingType        `json:"type"`
	Currency   money.Currency     `json:"currency"`
	Single     *SinglePricing     `json:"single,omitempty"`
	Dual       *DualPricing       `json:"dual,omitempty"`
	GroupTiers []GroupPricingTier `json:"group_tiers,omitempty"`
}

func (p TicketPricing) HasChildPricing() bool {
	return p.Type == PricingTypeAgeDual && p.Dual != nil
}

func (p TicketPricing) HasGroupTiers() bool {
	return p.Type == PricingTypeGroupTiered && len(p.GroupTiers) > 0
}

// EventPricing is the persisted pricing configuration of one event.
type EventPricing struct {
	ID          snowflake.ID                      `gorm:"primaryKey"`
	EventID     string                            `gorm:"column:event_id;type:varchar(64);not null;uniqueIndex"`
	PricingType PricingType                       `gorm:"column:pricing_type;type:smallint;not null"`
	Currency    money.Currency                    `gorm:"column:currency;type:smallint;not null"`
	Config      datatypes.JSONType[TicketPricing] `gorm:"column:config;not null"`
	Version     int64                             `gorm:"column:version;not null;default:1"`
	CreatedAt   time.Time                         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (EventPricing) TableName() string { return "event_pricings" }
