package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency is persisted by ordinal. Do NOT reorder; stored events depend on it.
type Currency int16

const (
	USD Currency = iota
	LKR
	GBP
	EUR
	CAD
	AUD
)

var ErrInvalidCurrency = errors.New("invalid_currency")

var currencyCodes = [...]string{"USD", "LKR", "GBP", "EUR", "CAD", "AUD"}

func (c Currency) Valid() bool {
	return c >= USD && c <= AUD
}

func (c Currency) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Currency(%d)", int16(c))
	}
	return currencyCodes[c]
}

// ParseCurrency accepts either the ISO code ("usd", "LKR") or the ordinal
// (0, "3", 3.0) and normalizes it.
func ParseCurrency(v any) (Currency, error) {
	if s, ok := v.(string); ok {
		code := strings.ToUpper(strings.TrimSpace(s))
		for i, known := range currencyCodes {
			if code == known {
				return Currency(i), nil
			}
		}
	}

	n, ok := Ordinal(v)
	// range-check before narrowing; int16 conversion wraps
	if !ok || n < int64(USD) || n > int64(AUD) {
		return 0, ErrInvalidCurrency
	}
	return Currency(n), nil
}

func (c Currency) MarshalJSON() ([]byte, error) {
	return json.Marshal(int16(c))
}

func (c *Currency) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidCurrency
	}
	parsed, err := ParseCurrency(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Ordinal extracts an integral enum value from the loosely typed shapes that
// arrive over JSON, query strings and stored rows.
func Ordinal(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		parsed, err := n.Int64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
