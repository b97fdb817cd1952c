package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, pricing *EventPricing) error
	FindByEventID(ctx context.Context, db *gorm.DB, eventID string) (*EventPricing, error)
}
