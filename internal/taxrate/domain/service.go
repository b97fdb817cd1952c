package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidState = errors.New("invalid_state")
	ErrNotFound     = errors.New("not_found")
)

type Repository interface {
	ListEffective(ctx context.Context, db *gorm.DB, asOf time.Time) ([]StateTaxRate, error)
	Insert(ctx context.Context, db *gorm.DB, rate *StateTaxRate) error
}

type Service interface {
	// Table returns the rate snapshot in force now.
	Table(ctx context.Context) (Table, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, state string) (*Response, error)
}

type Response struct {
	ID            string          `json:"id"`
	StateCode     string          `json:"state_code"`
	StateName     string          `json:"state_name"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Display       string          `json:"display"`
	EffectiveDate time.Time       `json:"effective_date"`
	DataSource    *string         `json:"data_source,omitempty"`
}
