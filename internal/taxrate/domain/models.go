package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// StateTaxRate is US state sales-tax reference data. Rates are fractions
// (0.0725 for 7.25%). A state may have several rows; the latest active row
// whose EffectiveDate has passed applies.
type StateTaxRate struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	StateCode     string          `gorm:"column:state_code;type:varchar(2);not null;uniqueIndex:uq_state_tax_rates_code_effective"`
	StateName     string          `gorm:"column:state_name;type:varchar(100);not null"`
	TaxRate       decimal.Decimal `gorm:"column:tax_rate;type:numeric(5,4);not null"`
	EffectiveDate time.Time       `gorm:"column:effective_date;not null;uniqueIndex:uq_state_tax_rates_code_effective"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	DataSource    *string         `gorm:"column:data_source;type:varchar(200)"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StateTaxRate) TableName() string { return "state_tax_rates" }

// Table is an immutable state -> rate snapshot keyed by upper-cased state
// code and state name.
type Table map[string]decimal.Decimal

// NewTable picks, per state, the row with the latest effective date.
// Callers pass only active, already-effective rows.
func NewTable(rates []StateTaxRate) Table {
	latest := make(map[string]StateTaxRate, len(rates))
	for _, r := range rates {
		code := normalizeKey(r.StateCode)
		if cur, ok := latest[code]; ok && !r.EffectiveDate.After(cur.EffectiveDate) {
			continue
		}
		latest[code] = r
	}

	table := make(Table, len(latest)*2)
	for code, r := range latest {
		table[code] = r.TaxRate
		if name := normalizeKey(r.StateName); name != "" {
			table[name] = r.TaxRate
		}
	}
	return table
}

func (t Table) RateFor(state string) (decimal.Decimal, bool) {
	rate, ok := t[normalizeKey(state)]
	return rate, ok
}

func normalizeKey(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
