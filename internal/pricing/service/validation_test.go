package service

import (
	"testing"

	"github.com/lankaconnect/eventpricing/internal/money"
	pricingdomain "github.com/lankaconnect/eventpricing/internal/pricing/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(errs []pricingdomain.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateTiersAcceptsContiguousSet(t *testing.T) {
	assert.Empty(t, ValidateTiers(threeTiers()))
	assert.Empty(t, ValidateTiers([]pricingdomain.GroupPricingTier{tier(1, nil, "0")}))
}

func TestValidateTiersReportsGap(t *testing.T) {
	errs := ValidateTiers([]pricingdomain.GroupPricingTier{
		tier(1, intPtr(3), "20"),
		tier(5, intPtr(7), "15"),
	})

	require.Len(t, errs, 1)
	assert.Equal(t, "tier_gap", errs[0].Code)
	assert.Equal(t, "group_tiers[1]", errs[0].Field)
	assert.Contains(t, errs[0].Message, "tiers 1 (1-3) and 2 (5-7)")
	assert.Contains(t, errs[0].Message, "attendees 4 not covered")
}

func TestValidateTiersReportsWiderGap(t *testing.T) {
	errs := ValidateTiers([]pricingdomain.GroupPricingTier{
		tier(1, intPtr(2), "20"),
		tier(6, nil, "15"),
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "attendees 3-5 not covered")
}

func TestValidateTiersNamesEveryTierNestedInAWideOne(t *testing.T) {
	errs := ValidateTiers([]pricingdomain.GroupPricingTier{
		tier(1, intPtr(10), "20"),
		tier(2, intPtr(3), "15"),
		tier(4, intPtr(5), "10"),
	})
	require.Len(t, errs, 2)
	assert.Equal(t, []string{"tier_overlap", "tier_overlap"}, codes(errs))
	assert.Equal(t, "group_tiers[1]", errs[0].Field)
	assert.Equal(t, "tiers 1 (1-10) and 2 (2-3) overlap", errs[0].Message)
	assert.Equal(t, "group_tiers[2]", errs[1].Field)
	assert.Equal(t, "tiers 1 (1-10) and 3 (4-5) overlap", errs[1].Message)
}

func TestValidateTiersGapMeasuredFromWidestTier(t *testing.T) {
	errs := ValidateTiers([]pricingdomain.GroupPricingTier{
		tier(1, intPtr(10), "20"),
		tier(2, intPtr(3), "15"),
		tier(12, nil, "10"),
	})
	require.Len(t, errs, 2)
	assert.Equal(t, "tier_overlap", errs[0].Code)
	assert.Equal(t, "tier_gap", errs[1].Code)
	assert.Contains(t, errs[1].Message, "attendees 11 not covered")
}

func TestValidateTiersRules(t *testing.T) {
	cases := []struct {
		name  string
		tiers []pricingdomain.GroupPricingTier
		want  []string
	}{
		{
			name: "empty",
			want: []string{"tiers_required"},
		},
		{
			name:  "first tier starts above one",
			tiers: []pricingdomain.GroupPricingTier{tier(2, intPtr(5), "10")},
			want:  []string{"first_tier_must_start_at_one"},
		},
		{
			name:  "minimum below one",
			tiers: []pricingdomain.GroupPricingTier{tier(0, intPtr(5), "10")},
			want:  []string{"invalid_min_attendees", "first_tier_must_start_at_one"},
		},
		{
			name:  "maximum below minimum",
			tiers: []pricingdomain.GroupPricingTier{tier(1, intPtr(3), "10"), tier(4, intPtr(2), "8")},
			want:  []string{"invalid_max_attendees"},
		},
		{
			name:  "overlap",
			tiers: []pricingdomain.GroupPricingTier{tier(1, intPtr(4), "10"), tier(3, intPtr(6), "8")},
			want:  []string{"tier_overlap"},
		},
		{
			name:  "unbounded tier not last",
			tiers: []pricingdomain.GroupPricingTier{tier(1, nil, "10"), tier(3, intPtr(5), "8")},
			want:  []string{"unbounded_tier_not_last"},
		},
		{
			name:  "negative price",
			tiers: []pricingdomain.GroupPricingTier{tier(1, nil, "-1")},
			want:  []string{"invalid_price"},
		},
		{
			name:  "price above limit",
			tiers: []pricingdomain.GroupPricingTier{tier(1, nil, "10000.01")},
			want:  []string{"price_exceeds_limit"},
		},
		{
			name:  "price at limit",
			tiers: []pricingdomain.GroupPricingTier{tier(1, nil, "10000")},
			want:  []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, tc.want, codes(ValidateTiers(tc.tiers)))
		})
	}
}

func TestValidateTiersCurrencyMismatch(t *testing.T) {
	second := tier(4, nil, "15")
	second.Currency = money.LKR

	errs := ValidateTiers([]pricingdomain.GroupPricingTier{tier(1, intPtr(3), "20"), second})
	require.Len(t, errs, 1)
	assert.Equal(t, "currency_mismatch", errs[0].Code)
	assert.Equal(t, "group_tiers[1].currency", errs[0].Field)
	assert.Contains(t, errs[0].Message, "tier 2 (4+) uses LKR but tier 1 uses USD")
}

func TestValidateTiersUsesSortedPositions(t *testing.T) {
	errs := ValidateTiers([]pricingdomain.GroupPricingTier{
		tier(5, intPtr(7), "15"),
		tier(1, intPtr(3), "20"),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "group_tiers[1]", errs[0].Field)
}

func singlePricing(amount string) pricingdomain.TicketPricing {
	return pricingdomain.TicketPricing{
		Type:     pricingdomain.PricingTypeSingle,
		Currency: money.USD,
		Single:   &pricingdomain.SinglePricing{Amount: decimal.RequireFromString(amount), Currency: money.USD},
	}
}

func dualPricing(adult, child string, ageLimit int) pricingdomain.TicketPricing {
	return pricingdomain.TicketPricing{
		Type:     pricingdomain.PricingTypeAgeDual,
		Currency: money.USD,
		Dual: &pricingdomain.DualPricing{
			AdultPrice:    decimal.RequireFromString(adult),
			ChildPrice:    decimal.RequireFromString(child),
			ChildAgeLimit: ageLimit,
			Currency:      money.USD,
		},
	}
}

func groupPricing(tiers ...pricingdomain.GroupPricingTier) pricingdomain.TicketPricing {
	return pricingdomain.TicketPricing{
		Type:       pricingdomain.PricingTypeGroupTiered,
		Currency:   money.USD,
		GroupTiers: tiers,
	}
}

func TestValidatePricingSingle(t *testing.T) {
	assert.Empty(t, ValidatePricing(singlePricing("25")))
	assert.Empty(t, ValidatePricing(singlePricing("0")))
	assert.Equal(t, []string{"invalid_price"}, codes(ValidatePricing(singlePricing("-5"))))
	assert.Equal(t, []string{"price_exceeds_limit"}, codes(ValidatePricing(singlePricing("20000"))))

	missing := singlePricing("1")
	missing.Single = nil
	assert.Equal(t, []string{"single_price_required"}, codes(ValidatePricing(missing)))

	mismatch := singlePricing("10")
	mismatch.Single.Currency = money.GBP
	assert.Equal(t, []string{"currency_mismatch"}, codes(ValidatePricing(mismatch)))

	conflict := singlePricing("10")
	conflict.GroupTiers = threeTiers()
	assert.Equal(t, []string{"pricing_mode_conflict"}, codes(ValidatePricing(conflict)))
}

func TestValidatePricingDual(t *testing.T) {
	assert.Empty(t, ValidatePricing(dualPricing("25", "15", 12)))
	assert.Empty(t, ValidatePricing(dualPricing("25", "25", 1)))
	assert.Empty(t, ValidatePricing(dualPricing("25", "0", 18)))

	assert.Equal(t, []string{"child_price_exceeds_adult"}, codes(ValidatePricing(dualPricing("15", "25", 12))))
	assert.Equal(t, []string{"invalid_child_age_limit"}, codes(ValidatePricing(dualPricing("25", "15", 0))))
	assert.Equal(t, []string{"invalid_child_age_limit"}, codes(ValidatePricing(dualPricing("25", "15", 19))))

	missing := dualPricing("25", "15", 12)
	missing.Dual = nil
	assert.Equal(t, []string{"dual_price_required"}, codes(ValidatePricing(missing)))

	mismatch := dualPricing("25", "15", 12)
	mismatch.Dual.Currency = money.LKR
	errs := ValidatePricing(mismatch)
	require.Len(t, errs, 1)
	assert.Equal(t, "dual.currency", errs[0].Field)
}

func TestValidatePricingGroup(t *testing.T) {
	assert.Empty(t, ValidatePricing(groupPricing(threeTiers()...)))
	assert.Equal(t, []string{"tiers_required"}, codes(ValidatePricing(groupPricing())))

	lkr := threeTiers()
	for i := range lkr {
		lkr[i].Currency = money.LKR
	}
	errs := ValidatePricing(groupPricing(lkr...))
	require.Len(t, errs, 1)
	assert.Equal(t, "currency_mismatch", errs[0].Code)
	assert.Equal(t, "group_tiers[0].currency", errs[0].Field)
}

func TestValidatePricingRejectsUnknownTypeAndCurrency(t *testing.T) {
	p := singlePricing("10")
	p.Currency = money.Currency(9)
	p.Single.Currency = money.Currency(9)
	assert.Equal(t, []string{"invalid_currency"}, codes(ValidatePricing(p)))

	assert.Equal(t, []string{"invalid_pricing_type"}, codes(ValidatePricing(pricingdomain.TicketPricing{Type: pricingdomain.PricingType(7)})))
}
