package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	taxratedomain "github.com/lankaconnect/eventpricing/internal/taxrate/domain"
	"github.com/lankaconnect/eventpricing/pkg/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const stateTaxDataSource = "Tax Foundation 2025"

var stateTaxEffectiveDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// State-level base sales tax rates, 50 states + DC.
var stateTaxRates = []struct {
	code string
	name string
	rate string
}{
	{"AL", "Alabama", "0.04"},
	{"AK", "Alaska", "0.00"},
	{"AZ", "Arizona", "0.056"},
	{"AR", "Arkansas", "0.065"},
	{"CA", "California", "0.0725"},
	{"CO", "Colorado", "0.029"},
	{"CT", "Connecticut", "0.0635"},
	{"DE", "Delaware", "0.00"},
	{"FL", "Florida", "0.06"},
	{"GA", "Georgia", "0.04"},
	{"HI", "Hawaii", "0.04"},
	{"ID", "Idaho", "0.06"},
	{"IL", "Illinois", "0.0625"},
	{"IN", "Indiana", "0.07"},
	{"IA", "Iowa", "0.06"},
	{"KS", "Kansas", "0.065"},
	{"KY", "Kentucky", "0.06"},
	{"LA", "Louisiana", "0.0445"},
	{"ME", "Maine", "0.055"},
	{"MD", "Maryland", "0.06"},
	{"MA", "Massachusetts", "0.0625"},
	{"MI", "Michigan", "0.06"},
	{"MN", "Minnesota", "0.0688"},
	{"MS", "Mississippi", "0.07"},
	{"MO", "Missouri", "0.0423"},
	{"MT", "Montana", "0.00"},
	{"NE", "Nebraska", "0.055"},
	{"NV", "Nevada", "0.0685"},
	{"NH", "New Hampshire", "0.00"},
	{"NJ", "New Jersey", "0.0663"},
	{"NM", "New Mexico", "0.0512"},
	{"NY", "New York", "0.04"},
	{"NC", "North Carolina", "0.0475"},
	{"ND", "North Dakota", "0.05"},
	{"OH", "Ohio", "0.0575"},
	{"OK", "Oklahoma", "0.045"},
	{"OR", "Oregon", "0.00"},
	{"PA", "Pennsylvania", "0.06"},
	{"RI", "Rhode Island", "0.07"},
	{"SC", "South Carolina", "0.06"},
	{"SD", "South Dakota", "0.045"},
	{"TN", "Tennessee", "0.07"},
	{"TX", "Texas", "0.0625"},
	{"UT", "Utah", "0.0595"},
	{"VT", "Vermont", "0.06"},
	{"VA", "Virginia", "0.053"},
	{"WA", "Washington", "0.065"},
	{"WV", "West Virginia", "0.06"},
	{"WI", "Wisconsin", "0.05"},
	{"WY", "Wyoming", "0.04"},
	{"DC", "District of Columbia", "0.06"},
}

// EnsureStateTaxRates seeds the state tax reference table. Rows that already
// exist for the same state and effective date are left untouched.
func EnsureStateTaxRates(conn *gorm.DB, node *snowflake.Node, repo taxratedomain.Repository) error {
	if conn == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	var existing int64
	if err := conn.WithContext(ctx).
		Model(&taxratedomain.StateTaxRate{}).
		Where("effective_date = ?", stateTaxEffectiveDate).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing >= int64(len(stateTaxRates)) {
		return nil
	}

	source := stateTaxDataSource
	now := time.Now().UTC()
	for _, row := range stateTaxRates {
		rate := &taxratedomain.StateTaxRate{
			ID:            node.Generate(),
			StateCode:     row.code,
			StateName:     row.name,
			TaxRate:       decimal.RequireFromString(row.rate),
			EffectiveDate: stateTaxEffectiveDate,
			IsActive:      true,
			DataSource:    &source,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.Insert(ctx, conn, rate); err != nil {
			if db.IsDuplicateKeyErr(err) {
				continue
			}
			return err
		}
	}
	return nil
}
