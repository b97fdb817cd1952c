package domain

import (
	"encoding/json"
	"strings"

	"github.com/lankaconnect/eventpricing/internal/money"
)

type PricingType int16

const (
	PricingTypeSingle PricingType = iota
	PricingTypeAgeDual
	PricingTypeGroupTiered
)

func (t PricingType) Valid() bool {
	return t >= PricingTypeSingle && t <= PricingTypeGroupTiered
}

func (t PricingType) String() string {
	switch t {
	case PricingTypeSingle:
		return "single"
	case PricingTypeAgeDual:
		return "age_dual"
	case PricingTypeGroupTiered:
		return "group_tiered"
	default:
		return "unknown"
	}
}

// ParsePricingType accepts "Single", "age_dual", "GroupTiered" or the ordinal.
func ParsePricingType(v any) (PricingType, error) {
	if s, ok := v.(string); ok {
		switch normalizeName(s) {
		case "single":
			return PricingTypeSingle, nil
		case "agedual", "dual":
			return PricingTypeAgeDual, nil
		case "grouptiered", "group", "tiered":
			return PricingTypeGroupTiered, nil
		}
	}
	n, ok := money.Ordinal(v)
	if !ok || n < int64(PricingTypeSingle) || n > int64(PricingTypeGroupTiered) {
		return 0, ErrInvalidPricingType
	}
	return PricingType(n), nil
}

func (t PricingType) MarshalJSON() ([]byte, error) {
	return json.Marshal(int16(t))
}

func (t *PricingType) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidPricingType
	}
	parsed, err := ParsePricingType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AgeCategory is the binary Adult/Child selection made per attendee.
// The child age limit on a pricing config is informational only.
type AgeCategory int16

const (
	AgeCategoryAdult AgeCategory = 1
	AgeCategoryChild AgeCategory = 2
)

func (a AgeCategory) Valid() bool {
	return a == AgeCategoryAdult || a == AgeCategoryChild
}

func (a AgeCategory) String() string {
	switch a {
	case AgeCategoryAdult:
		return "Adult"
	case AgeCategoryChild:
		return "Child"
	default:
		return "Unknown"
	}
}

func ParseAgeCategory(v any) (AgeCategory, error) {
	if s, ok := v.(string); ok {
		switch normalizeName(s) {
		case "adult":
			return AgeCategoryAdult, nil
		case "child":
			return AgeCategoryChild, nil
		}
	}
	n, ok := money.Ordinal(v)
	if !ok || n < int64(AgeCategoryAdult) || n > int64(AgeCategoryChild) {
		return 0, ErrInvalidAgeCategory
	}
	return AgeCategory(n), nil
}

func (a AgeCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *AgeCategory) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidAgeCategory
	}
	parsed, err := ParseAgeCategory(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
