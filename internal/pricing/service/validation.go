package service

import (
	"fmt"

	"github.com/lankaconnect/eventpricing/internal/money"
	pricingdomain "github.com/lankaconnect/eventpricing/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

const (
	minChildAgeLimit = 1
	maxChildAgeLimit = 18
)

// ValidateTiers checks a group tier set for save-time consistency. Tiers are
// examined in ascending MinAttendees order; field paths and tier numbers in
// messages refer to that order (fields 0-based, messages 1-based).
func ValidateTiers(tiers []pricingdomain.GroupPricingTier) []pricingdomain.FieldError {
	if len(tiers) == 0 {
		return []pricingdomain.FieldError{{
			Field:   "group_tiers",
			Code:    "tiers_required",
			Message: "at least one tier is required for group pricing",
		}}
	}

	sorted := SortTiers(tiers)
	var errs []pricingdomain.FieldError

	for i, tier := range sorted {
		field := tierField(i)
		if tier.MinAttendees < 1 {
			errs = append(errs, pricingdomain.FieldError{
				Field:   field + ".min_attendees",
				Code:    "invalid_min_attendees",
				Message: fmt.Sprintf("tier %d (%s): minimum attendees must be at least 1", i+1, tier.RangeLabel()),
			})
		}
		if tier.MaxAttendees != nil && *tier.MaxAttendees < tier.MinAttendees {
			errs = append(errs, pricingdomain.FieldError{
				Field:   field + ".max_attendees",
				Code:    "invalid_max_attendees",
				Message: fmt.Sprintf("tier %d (%s): maximum attendees must be greater than or equal to minimum", i+1, tier.RangeLabel()),
			})
		}
		if fe := checkPrice(field+".price_per_person", fmt.Sprintf("tier %d (%s) price per person", i+1, tier.RangeLabel()), tier.PricePerPerson); fe != nil {
			errs = append(errs, *fe)
		}
		if tier.Currency != sorted[0].Currency {
			errs = append(errs, pricingdomain.FieldError{
				Field:   field + ".currency",
				Code:    "currency_mismatch",
				Message: fmt.Sprintf("tier %d (%s) uses %s but tier 1 uses %s; all tiers must share one currency", i+1, tier.RangeLabel(), tier.Currency, sorted[0].Currency),
			})
		}
	}

	if sorted[0].MinAttendees != 1 {
		errs = append(errs, pricingdomain.FieldError{
			Field:   tierField(0) + ".min_attendees",
			Code:    "first_tier_must_start_at_one",
			Message: fmt.Sprintf("tier 1 (%s): group pricing tiers must start at 1 attendee", sorted[0].RangeLabel()),
		})
	}

	// reach is the bounded tier with the highest maximum so far, so a tier
	// nested inside an earlier wide one is still named.
	reach := -1
	for i := 0; i < len(sorted)-1; i++ {
		cur, next := sorted[i], sorted[i+1]
		if cur.MaxAttendees == nil {
			errs = append(errs, pricingdomain.FieldError{
				Field:   tierField(i) + ".max_attendees",
				Code:    "unbounded_tier_not_last",
				Message: fmt.Sprintf("tier %d (%s): only the last tier can be unlimited", i+1, cur.RangeLabel()),
			})
			continue
		}
		if reach < 0 || *cur.MaxAttendees > *sorted[reach].MaxAttendees {
			reach = i
		}

		prev := sorted[reach]
		switch {
		case prev.Overlaps(next):
			errs = append(errs, pricingdomain.FieldError{
				Field:   tierField(i + 1),
				Code:    "tier_overlap",
				Message: fmt.Sprintf("tiers %d (%s) and %d (%s) overlap", reach+1, prev.RangeLabel(), i+2, next.RangeLabel()),
			})
		case next.MinAttendees != *prev.MaxAttendees+1:
			missing := pricingdomain.GroupPricingTier{MinAttendees: *prev.MaxAttendees + 1, MaxAttendees: intPtr(next.MinAttendees - 1)}
			errs = append(errs, pricingdomain.FieldError{
				Field: tierField(i + 1),
				Code:  "tier_gap",
				Message: fmt.Sprintf("gap between tiers %d (%s) and %d (%s): attendees %s not covered",
					reach+1, prev.RangeLabel(), i+2, next.RangeLabel(), missing.RangeLabel()),
			})
		}
	}

	return errs
}

// ValidatePricing validates a complete event pricing configuration.
func ValidatePricing(p pricingdomain.TicketPricing) []pricingdomain.FieldError {
	var errs []pricingdomain.FieldError
	if !p.Currency.Valid() {
		errs = append(errs, pricingdomain.FieldError{Field: "currency", Code: "invalid_currency", Message: "unsupported currency"})
	}

	switch p.Type {
	case pricingdomain.PricingTypeSingle:
		if p.Dual != nil || len(p.GroupTiers) > 0 {
			errs = append(errs, modeConflict(p.Type))
		}
		if p.Single == nil {
			return append(errs, pricingdomain.FieldError{Field: "single", Code: "single_price_required", Message: "single price is required"})
		}
		if fe := checkPrice("single.amount", "single price", p.Single.Amount); fe != nil {
			errs = append(errs, *fe)
		}
		if p.Single.Currency != p.Currency {
			errs = append(errs, currencyMismatch("single.currency", p.Single.Currency, p.Currency))
		}

	case pricingdomain.PricingTypeAgeDual:
		if p.Single != nil || len(p.GroupTiers) > 0 {
			errs = append(errs, modeConflict(p.Type))
		}
		if p.Dual == nil {
			return append(errs, pricingdomain.FieldError{Field: "dual", Code: "dual_price_required", Message: "adult price, child price and child age limit are required for dual pricing"})
		}
		errs = append(errs, validateDual(*p.Dual)...)
		if p.Dual.Currency != p.Currency {
			errs = append(errs, currencyMismatch("dual.currency", p.Dual.Currency, p.Currency))
		}

	case pricingdomain.PricingTypeGroupTiered:
		if p.Single != nil || p.Dual != nil {
			errs = append(errs, modeConflict(p.Type))
		}
		errs = append(errs, ValidateTiers(p.GroupTiers)...)
		for i, tier := range SortTiers(p.GroupTiers) {
			if tier.Currency != p.Currency {
				errs = append(errs, currencyMismatch(tierField(i)+".currency", tier.Currency, p.Currency))
				break
			}
		}

	default:
		errs = append(errs, pricingdomain.FieldError{Field: "type", Code: "invalid_pricing_type", Message: "unknown pricing type"})
	}

	return errs
}

func validateDual(d pricingdomain.DualPricing) []pricingdomain.FieldError {
	var errs []pricingdomain.FieldError
	if fe := checkPrice("dual.adult_price", "adult price", d.AdultPrice); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := checkPrice("dual.child_price", "child price", d.ChildPrice); fe != nil {
		errs = append(errs, *fe)
	}
	if d.ChildAgeLimit < minChildAgeLimit || d.ChildAgeLimit > maxChildAgeLimit {
		errs = append(errs, pricingdomain.FieldError{
			Field:   "dual.child_age_limit",
			Code:    "invalid_child_age_limit",
			Message: fmt.Sprintf("child age limit must be between %d and %d years", minChildAgeLimit, maxChildAgeLimit),
		})
	}
	if d.ChildPrice.GreaterThan(d.AdultPrice) {
		errs = append(errs, pricingdomain.FieldError{
			Field:   "dual.child_price",
			Code:    "child_price_exceeds_adult",
			Message: "child price cannot be greater than adult price",
		})
	}
	return errs
}

func checkPrice(field, label string, amount decimal.Decimal) *pricingdomain.FieldError {
	if amount.IsNegative() {
		return &pricingdomain.FieldError{Field: field, Code: "invalid_price", Message: label + " must be greater than or equal to 0"}
	}
	if amount.GreaterThan(money.MaxUnitPrice) {
		return &pricingdomain.FieldError{Field: field, Code: "price_exceeds_limit", Message: label + " cannot exceed " + money.MaxUnitPrice.String()}
	}
	return nil
}

func currencyMismatch(field string, got, want money.Currency) pricingdomain.FieldError {
	return pricingdomain.FieldError{
		Field:   field,
		Code:    "currency_mismatch",
		Message: fmt.Sprintf("currency %s does not match event currency %s", got, want),
	}
}

func modeConflict(t pricingdomain.PricingType) pricingdomain.FieldError {
	return pricingdomain.FieldError{
		Field:   "type",
		Code:    "pricing_mode_conflict",
		Message: fmt.Sprintf("%s pricing cannot be combined with other pricing modes", t),
	}
}

func intPtr(v int) *int { return &v }

func tierField(i int) string {
	return fmt.Sprintf("group_tiers[%d]", i)
}
