package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lankaconnect/eventpricing/internal/clock"
	taxratedomain "github.com/lankaconnect/eventpricing/internal/taxrate/domain"
	"github.com/lankaconnect/eventpricing/internal/taxrate/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   taxratedomain.Service
	db    *gorm.DB
	repo  taxratedomain.Repository
	node  *snowflake.Node
	clock *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&taxratedomain.StateTaxRate{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	repo := repository.Provide()
	svc := New(Params{DB: db, Log: zap.NewNop(), Clock: fc, Repo: repo})
	return &fixture{svc: svc, db: db, repo: repo, node: node, clock: fc}
}

func (f *fixture) insert(t *testing.T, code, name, rate string, effective time.Time, active bool) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.repo.Insert(context.Background(), f.db, &taxratedomain.StateTaxRate{
		ID:            f.node.Generate(),
		StateCode:     code,
		StateName:     name,
		TaxRate:       decimal.RequireFromString(rate),
		EffectiveDate: effective,
		IsActive:      active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
}

func TestTableAppliesEffectiveDateAndActiveFlag(t *testing.T) {
	f := newFixture(t)
	jan2025 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan2026 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	f.insert(t, "CA", "California", "0.0725", jan2025, true)
	f.insert(t, "CA", "California", "0.08", jan2026, true)
	f.insert(t, "WA", "Washington", "0.065", jan2025, false)

	table, err := f.svc.Table(context.Background())
	require.NoError(t, err)

	rate, ok := table.RateFor("california")
	require.True(t, ok)
	assert.Equal(t, "0.0725", rate.String())

	_, ok = table.RateFor("WA")
	assert.False(t, ok)

	f.clock.Advance(365 * 24 * time.Hour)
	table, err = f.svc.Table(context.Background())
	require.NoError(t, err)
	rate, ok = table.RateFor("CA")
	require.True(t, ok)
	assert.Equal(t, "0.08", rate.String())
}

func TestListAndGet(t *testing.T) {
	f := newFixture(t)
	jan2025 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.insert(t, "CA", "California", "0.0725", jan2025, true)
	f.insert(t, "NY", "New York", "0.04", jan2025, true)

	items, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "CA", items[0].StateCode)
	assert.Equal(t, "7.25%", items[0].Display)

	got, err := f.svc.Get(context.Background(), "new york")
	require.NoError(t, err)
	assert.Equal(t, "NY", got.StateCode)
	assert.Equal(t, "4%", got.Display)

	_, err = f.svc.Get(context.Background(), "Ontario")
	assert.ErrorIs(t, err, taxratedomain.ErrNotFound)

	_, err = f.svc.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, taxratedomain.ErrInvalidState)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestTableIsCachedUntilTTLExpires(t *testing.T) {
	f := newFixture(t)
	jan2025 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.insert(t, "CA", "California", "0.0725", jan2025, true)

	_, err := f.svc.Table(context.Background())
	require.NoError(t, err)

	f.insert(t, "TX", "Texas", "0.0625", jan2025, true)
	table, err := f.svc.Table(context.Background())
	require.NoError(t, err)
	_, ok := table.RateFor("TX")
	assert.False(t, ok)

	f.clock.Advance(effectiveRatesTTL)
	table, err = f.svc.Table(context.Background())
	require.NoError(t, err)
	rate, ok := table.RateFor("TX")
	require.True(t, ok)
	assert.Equal(t, "0.0625", rate.String())
}
