package service

import (
	"cmp"
	"slices"

	pricingdomain "github.com/lankaconnect/eventpricing/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

// ResolveTier returns the tier whose range contains attendeeCount, or nil when
// none applies. Tiers are scanned by ascending MinAttendees and the first match
// wins, so a malformed set with overlapping ranges still resolves.
func ResolveTier(tiers []pricingdomain.GroupPricingTier, attendeeCount int) *pricingdomain.GroupPricingTier {
	if attendeeCount < 1 || len(tiers) == 0 {
		return nil
	}
	for _, tier := range SortTiers(tiers) {
		if tier.Covers(attendeeCount) {
			return &tier
		}
	}
	return nil
}

// GroupTotal charges every attendee the per-person rate of the tier selected
// by the total party size.
func GroupTotal(tiers []pricingdomain.GroupPricingTier, attendeeCount int) (decimal.Decimal, *pricingdomain.GroupPricingTier, bool) {
	tier := ResolveTier(tiers, attendeeCount)
	if tier == nil {
		return decimal.Zero, nil, false
	}
	return tier.PricePerPerson.Mul(decimal.NewFromInt(int64(attendeeCount))), tier, true
}

func DualTotal(dual pricingdomain.DualPricing, attendees []pricingdomain.AgeCategory) (decimal.Decimal, bool) {
	if len(attendees) == 0 {
		return decimal.Zero, false
	}
	total := decimal.Zero
	for _, category := range attendees {
		switch category {
		case pricingdomain.AgeCategoryChild:
			total = total.Add(dual.ChildPrice)
		case pricingdomain.AgeCategoryAdult:
			total = total.Add(dual.AdultPrice)
		default:
			return decimal.Zero, false
		}
	}
	return total, true
}

func SingleTotal(single pricingdomain.SinglePricing, attendeeCount int) (decimal.Decimal, bool) {
	if attendeeCount < 1 {
		return decimal.Zero, false
	}
	return single.Amount.Mul(decimal.NewFromInt(int64(attendeeCount))), true
}

// PriceForCategory returns the per-ticket price for one attendee. Child price
// applies only to dual configurations; group pricing has no per-attendee price.
func PriceForCategory(pricing pricingdomain.TicketPricing, category pricingdomain.AgeCategory) (decimal.Decimal, bool) {
	switch pricing.Type {
	case pricingdomain.PricingTypeSingle:
		if pricing.Single == nil {
			return decimal.Zero, false
		}
		return pricing.Single.Amount, true
	case pricingdomain.PricingTypeAgeDual:
		if pricing.Dual == nil {
			return decimal.Zero, false
		}
		if category == pricingdomain.AgeCategoryChild {
			return pricing.Dual.ChildPrice, true
		}
		return pricing.Dual.AdultPrice, true
	default:
		return decimal.Zero, false
	}
}

// SortTiers returns a copy ordered by MinAttendees.
func SortTiers(tiers []pricingdomain.GroupPricingTier) []pricingdomain.GroupPricingTier {
	sorted := slices.Clone(tiers)
	slices.SortStableFunc(sorted, func(a, b pricingdomain.GroupPricingTier) int {
		return cmp.Compare(a.MinAttendees, b.MinAttendees)
	})
	return sorted
}
