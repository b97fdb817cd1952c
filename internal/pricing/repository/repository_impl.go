package repository

import (
	"context"

	pricingdomain "github.com/lankaconnect/eventpricing/internal/pricing/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() pricingdomain.Repository {
	return &repo{}
}

// Upsert inserts the configuration or replaces the one stored for the same
// event. The row ID and created_at of an existing row are preserved.
func (r *repo) Upsert(ctx context.Context, db *gorm.DB, p *pricingdomain.EventPricing) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"pricing_type", "currency", "config", "version", "updated_at",
			}),
		}).
		Create(p).Error
}

func (r *repo) FindByEventID(ctx context.Context, db *gorm.DB, eventID string) (*pricingdomain.EventPricing, error) {
	var p pricingdomain.EventPricing
	err := db.WithContext(ctx).Raw(
		`SELECT id, event_id, pricing_type, currency, config, version, created_at, updated_at
		 FROM event_pricings WHERE event_id = ?`,
		eventID,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}
