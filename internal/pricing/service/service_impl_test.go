package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lankaconnect/eventpricing/internal/clock"
	"github.com/lankaconnect/eventpricing/internal/config"
	"github.com/lankaconnect/eventpricing/internal/money"
	"github.com/lankaconnect/eventpricing/internal/observability/metrics"
	pricingdomain "github.com/lankaconnect/eventpricing/internal/pricing/domain"
	"github.com/lankaconnect/eventpricing/internal/pricing/mocks"
	"github.com/lankaconnect/eventpricing/internal/pricing/repository"
	revenuedomain "github.com/lankaconnect/eventpricing/internal/revenue/domain"
	revenueservice "github.com/lankaconnect/eventpricing/internal/revenue/service"
	taxratedomain "github.com/lankaconnect/eventpricing/internal/taxrate/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type staticTaxRates struct {
	table taxratedomain.Table
}

func (s staticTaxRates) Table(context.Context) (taxratedomain.Table, error) {
	return s.table, nil
}

func (s staticTaxRates) List(context.Context) ([]taxratedomain.Response, error) {
	return nil, nil
}

func (s staticTaxRates) Get(context.Context, string) (*taxratedomain.Response, error) {
	return nil, taxratedomain.ErrNotFound
}

type serviceFixture struct {
	svc       pricingdomain.Service
	db        *gorm.DB
	repo      pricingdomain.Repository
	publisher *mocks.MockPublisher
	clock     *clock.FakeClock
	registry  *prometheus.Registry
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&pricingdomain.EventPricing{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	fc := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)

	rates := staticTaxRates{table: taxratedomain.Table{
		"CA":         decimal.RequireFromString("0.0725"),
		"CALIFORNIA": decimal.RequireFromString("0.0725"),
	}}
	revenue := revenueservice.New(revenueservice.Params{
		Log:        zap.NewNop(),
		TaxRates:   rates,
		Commission: config.NewStaticCommissionHolder(revenuedomain.DefaultCommissionSettings()),
		Metrics:    m,
	})

	repo := repository.Provide()
	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fc,
		Repo:      repo,
		Revenue:   revenue,
		Publisher: pub,
		Metrics:   m,
	})

	return &serviceFixture{svc: svc, db: db, repo: repo, publisher: pub, clock: fc, registry: reg}
}

func (f *serviceFixture) expectPublish(t *testing.T, got *pricingdomain.PricingUpdated) {
	t.Helper()
	f.publisher.EXPECT().
		PublishPricingUpdated(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt pricingdomain.PricingUpdated) error {
			*got = evt
			return nil
		})
}

func TestSaveSortsTiersAndPublishes(t *testing.T) {
	f := newServiceFixture(t)
	var evt pricingdomain.PricingUpdated
	f.expectPublish(t, &evt)

	unsorted := []pricingdomain.GroupPricingTier{
		tier(7, nil, "10"),
		tier(1, intPtr(3), "20"),
		tier(4, intPtr(6), "15"),
	}
	resp, err := f.svc.Save(context.Background(), pricingdomain.SaveRequest{
		EventID: " evt-100 ",
		Pricing: groupPricing(unsorted...),
	})
	require.NoError(t, err)

	assert.Equal(t, "evt-100", resp.EventID)
	assert.Equal(t, int64(1), resp.Version)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Pricing.GroupTiers, 3)
	assert.Equal(t, 1, resp.Pricing.GroupTiers[0].MinAttendees)
	assert.Equal(t, 7, resp.Pricing.GroupTiers[2].MinAttendees)

	assert.Equal(t, "evt-100", evt.EventID)
	assert.Equal(t, pricingdomain.PricingTypeGroupTiered, evt.PricingType)
	assert.Equal(t, money.USD, evt.Currency)
	assert.Equal(t, int64(1), evt.Version)

	got, err := f.svc.Get(context.Background(), "evt-100")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
	require.Len(t, got.Pricing.GroupTiers, 3)
	assert.Equal(t, 4, got.Pricing.GroupTiers[1].MinAttendees)
	assert.True(t, got.Pricing.GroupTiers[1].PricePerPerson.Equal(decimal.NewFromInt(15)))
	assert.Nil(t, got.Pricing.GroupTiers[2].MaxAttendees)
}

func TestSaveReplacesExistingConfig(t *testing.T) {
	f := newServiceFixture(t)
	var evt pricingdomain.PricingUpdated
	f.expectPublish(t, &evt)
	f.expectPublish(t, &evt)

	first, err := f.svc.Save(context.Background(), pricingdomain.SaveRequest{EventID: "evt-1", Pricing: singlePricing("25")})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	second, err := f.svc.Save(context.Background(), pricingdomain.SaveRequest{EventID: "evt-1", Pricing: dualPricing("25", "15", 12)})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(2), second.Version)
	assert.Equal(t, int64(2), evt.Version)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	got, err := f.svc.Get(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, pricingdomain.PricingTypeAgeDual, got.Pricing.Type)
	require.NotNil(t, got.Pricing.Dual)
	assert.Nil(t, got.Pricing.Single)
	assert.Equal(t, int64(2), got.Version)

	var count int64
	require.NoError(t, f.db.Model(&pricingdomain.EventPricing{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Save(context.Background(), pricingdomain.SaveRequest{
		EventID: "evt-1",
		Pricing: groupPricing(tier(1, intPtr(3), "20"), tier(5, intPtr(7), "15")),
	})

	var vErr *pricingdomain.ValidationErrors
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Errors, 1)
	assert.Equal(t, "tier_gap", vErr.Errors[0].Code)

	_, err = f.svc.Get(context.Background(), "evt-1")
	assert.ErrorIs(t, err, pricingdomain.ErrNotFound)
}

func TestSaveRequiresEventID(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Save(context.Background(), pricingdomain.SaveRequest{EventID: "  ", Pricing: singlePricing("10")})
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidEventID)
}

func TestSaveSucceedsWhenPublishFails(t *testing.T) {
	f := newServiceFixture(t)
	f.publisher.EXPECT().
		PublishPricingUpdated(gomock.Any(), gomock.Any()).
		Return(errors.New("broker unavailable"))

	resp, err := f.svc.Save(context.Background(), pricingdomain.SaveRequest{EventID: "evt-1", Pricing: singlePricing("10")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Version)

	expected := `
# HELP lankaconnect_pricing_publish_failures_total Failed pricing-updated notifications.
# TYPE lankaconnect_pricing_publish_failures_total counter
lankaconnect_pricing_publish_failures_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "lankaconnect_pricing_publish_failures_total"))
}

func (f *serviceFixture) store(t *testing.T, eventID string, pricing pricingdomain.TicketPricing) {
	t.Helper()
	now := f.clock.Now()
	require.NoError(t, f.repo.Upsert(context.Background(), f.db, &pricingdomain.EventPricing{
		ID:          snowflake.ID(now.UnixNano() + int64(len(eventID))),
		EventID:     eventID,
		PricingType: pricing.Type,
		Currency:    pricing.Currency,
		Config:      datatypes.NewJSONType(pricing),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
}

func TestQuoteGroupWithTax(t *testing.T) {
	f := newServiceFixture(t)
	f.store(t, "evt-group", groupPricing(threeTiers()...))

	resp, err := f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{
		EventID:       "evt-group",
		AttendeeCount: 5,
		State:         "CA",
		Country:       "United States",
	})
	require.NoError(t, err)

	assert.Equal(t, "75.00", resp.Total.StringFixed(2))
	assert.Equal(t, 5, resp.AttendeeCount)
	require.NotNil(t, resp.Tier)
	assert.Equal(t, "4-6", resp.Tier.RangeLabel())

	require.NotNil(t, resp.Breakdown)
	assert.Equal(t, "5.44", resp.Breakdown.SalesTaxAmount.StringFixed(2))
	assert.Equal(t, "69.56", resp.Breakdown.TaxableAmount.StringFixed(2))
	assert.Equal(t, "2.32", resp.Breakdown.StripeFeeAmount.StringFixed(2))
	assert.Equal(t, "1.39", resp.Breakdown.PlatformCommissionAmount.StringFixed(2))
	assert.Equal(t, "65.85", resp.Breakdown.OrganizerPayoutAmount.StringFixed(2))
	assert.False(t, resp.PayoutWarning)
}

func TestQuoteGroupWithoutMatchingTier(t *testing.T) {
	f := newServiceFixture(t)
	f.store(t, "evt-gap", groupPricing(tier(1, intPtr(3), "20"), tier(5, intPtr(7), "15")))

	_, err := f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{EventID: "evt-gap", AttendeeCount: 4})
	assert.ErrorIs(t, err, pricingdomain.ErrNoApplicablePrice)

	_, err = f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{EventID: "evt-gap", AttendeeCount: 12})
	assert.ErrorIs(t, err, pricingdomain.ErrNoApplicablePrice)
}

func TestQuoteDual(t *testing.T) {
	f := newServiceFixture(t)
	f.store(t, "evt-dual", dualPricing("25", "15", 12))

	resp, err := f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{
		EventID: "evt-dual",
		Attendees: []pricingdomain.AgeCategory{
			pricingdomain.AgeCategoryAdult,
			pricingdomain.AgeCategoryAdult,
			pricingdomain.AgeCategoryChild,
		},
		Country: "Sri Lanka",
	})
	require.NoError(t, err)
	assert.Equal(t, "65.00", resp.Total.StringFixed(2))
	assert.Equal(t, 3, resp.AttendeeCount)
	assert.Nil(t, resp.Tier)
	require.NotNil(t, resp.Breakdown)
	assert.True(t, resp.Breakdown.SalesTaxAmount.IsZero())

	_, err = f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{EventID: "evt-dual", AttendeeCount: 3})
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidAttendees)

	_, err = f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{
		EventID:       "evt-dual",
		AttendeeCount: 2,
		Attendees:     []pricingdomain.AgeCategory{pricingdomain.AgeCategoryAdult},
	})
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidAttendees)
}

func TestQuoteSingleFreeAndLowPayout(t *testing.T) {
	f := newServiceFixture(t)
	f.store(t, "evt-free", singlePricing("0"))
	f.store(t, "evt-cheap", singlePricing("1"))

	free, err := f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{EventID: "evt-free", AttendeeCount: 2})
	require.NoError(t, err)
	assert.True(t, free.Total.IsZero())
	assert.Nil(t, free.Breakdown)
	assert.False(t, free.PayoutWarning)

	cheap, err := f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{EventID: "evt-cheap", AttendeeCount: 1, Country: "Canada"})
	require.NoError(t, err)
	require.NotNil(t, cheap.Breakdown)
	assert.True(t, cheap.PayoutWarning)
}

func TestQuoteRejectsBadRequests(t *testing.T) {
	f := newServiceFixture(t)
	f.store(t, "evt-single", singlePricing("10"))

	_, err := f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{EventID: "missing", AttendeeCount: 1})
	assert.ErrorIs(t, err, pricingdomain.ErrNotFound)

	_, err = f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{EventID: "", AttendeeCount: 1})
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidEventID)

	_, err = f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{EventID: "evt-single"})
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidAttendees)

	_, err = f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{EventID: "evt-single", AttendeeCount: -2})
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidAttendees)

	resp, err := f.svc.Quote(context.Background(), pricingdomain.QuoteRequest{
		EventID:   "evt-single",
		Attendees: []pricingdomain.AgeCategory{pricingdomain.AgeCategoryAdult, pricingdomain.AgeCategoryChild},
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", resp.Total.StringFixed(2))
}
