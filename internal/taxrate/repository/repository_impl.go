package repository

import (
	"context"
	"time"

	taxratedomain "github.com/lankaconnect/eventpricing/internal/taxrate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() taxratedomain.Repository {
	return &repo{}
}

func (r *repo) ListEffective(ctx context.Context, db *gorm.DB, asOf time.Time) ([]taxratedomain.StateTaxRate, error) {
	var items []taxratedomain.StateTaxRate
	err := db.WithContext(ctx).Raw(
		`SELECT id, state_code, state_name, tax_rate, effective_date, is_active, data_source,
		 created_at, updated_at
		 FROM state_tax_rates
		 WHERE is_active = ? AND effective_date <= ?
		 ORDER BY state_code ASC, effective_date DESC`,
		true,
		asOf.UTC(),
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rate *taxratedomain.StateTaxRate) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO state_tax_rates (
			id, state_code, state_name, tax_rate, effective_date, is_active, data_source,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rate.ID,
		rate.StateCode,
		rate.StateName,
		rate.TaxRate,
		rate.EffectiveDate.UTC(),
		rate.IsActive,
		rate.DataSource,
		rate.CreatedAt,
		rate.UpdatedAt,
	).Error
}
