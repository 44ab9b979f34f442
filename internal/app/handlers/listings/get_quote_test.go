package listings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainlisting "rentable/internal/domain/listing"
	domainpricing "rentable/internal/domain/pricing"
	"rentable/internal/domain/shared/apperr"
	"rentable/internal/infra/storage/memory"
)

func newQuoteHandler(t *testing.T) *GetQuoteHandler {
	t.Helper()
	ctx := context.Background()
	listings := memory.NewListingRepository()
	types := memory.NewListingTypeRepository()
	configs := memory.NewPricingConfigStore()

	configs.Save("default", domainpricing.RegressiveConfig{
		Daily:       -0.1,
		Breakpoints: []domainpricing.ValueBreakpoint{{Day: 1, Value: 1}, {Day: 2, Value: 0.5}},
	})
	require.NoError(t, types.Save(ctx, &domainlisting.ListingType{
		ID:           "renting",
		TimeMode:     domainlisting.TimeFlexible,
		Availability: domainlisting.AvailabilityStock,
		Config: domainlisting.TypeConfig{
			BookingTime: domainlisting.BookingTimeConfig{TimeUnit: domainlisting.UnitDay},
			Pricing:     domainlisting.PricingConfig{OwnerFeesPercent: 5, TakerFeesPercent: 15},
		},
		Active: true,
	}))
	require.NoError(t, types.Save(ctx, &domainlisting.ListingType{
		ID:           "selling",
		TimeMode:     domainlisting.TimeNone,
		Availability: domainlisting.AvailabilityNone,
		Config: domainlisting.TypeConfig{
			Pricing: domainlisting.PricingConfig{OwnerFeesPercent: 7},
		},
		Active: true,
	}))
	require.NoError(t, types.Save(ctx, &domainlisting.ListingType{
		ID:           "unit-sale",
		TimeMode:     domainlisting.TimeNone,
		Availability: domainlisting.AvailabilityStock,
		Config: domainlisting.TypeConfig{
			Pricing: domainlisting.PricingConfig{OwnerFeesPercent: 5, TakerFeesPercent: 15},
		},
		Active: true,
	}))
	require.NoError(t, listings.Save(ctx, &domainlisting.Listing{
		ID:           "lst-1",
		Owner:        "owner-1",
		Quantity:     3,
		SellingPrice: 50,
		DayOnePrice:  100,
		Currency:     "EUR",
		PricingID:    "default",
		TypeIDs:      []domainlisting.TypeID{"renting", "selling", "unit-sale"},
		Validated:    true,
	}))

	return &GetQuoteHandler{Listings: listings, ListingTypes: types, PricingConfigs: configs}
}

func TestGetQuotePreviewsFees(t *testing.T) {
	h := newQuoteHandler(t)

	quote, err := h.Handle(context.Background(), GetQuoteQuery{
		ListingID:     "lst-1",
		ListingTypeID: "renting",
		NbTimeUnits:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, 90.0, quote.OwnerPrice)
	assert.Equal(t, 30.0, quote.TimeUnitPrice)
	assert.Equal(t, 4.5, quote.OwnerFees)
	assert.Equal(t, 85.5, quote.OwnerNetIncome)
	assert.Equal(t, 16.0, quote.TakerFees)
	assert.Equal(t, 106.0, quote.TakerPrice)
	assert.Equal(t, "EUR", quote.Currency)
}

func TestGetQuoteRequiresDurationOnTimeTypes(t *testing.T) {
	h := newQuoteHandler(t)

	_, err := h.Handle(context.Background(), GetQuoteQuery{
		ListingID:     "lst-1",
		ListingTypeID: "renting",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ClassBadRequest, apperr.ClassOf(err))
}

func TestGetQuoteStockSaleMultipliesQuantity(t *testing.T) {
	h := newQuoteHandler(t)

	quote, err := h.Handle(context.Background(), GetQuoteQuery{
		ListingID:     "lst-1",
		ListingTypeID: "unit-sale",
		Quantity:      2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, quote.Quantity)
	assert.Equal(t, 1, quote.NbTimeUnits)
	assert.Equal(t, 100.0, quote.OwnerPrice)
	assert.Equal(t, 5.0, quote.OwnerFees)
	assert.Equal(t, 95.0, quote.OwnerNetIncome)
	assert.Equal(t, 18.0, quote.TakerFees)
	assert.Equal(t, 118.0, quote.TakerPrice)
}

func TestGetQuoteOneShotSaleForcesSingleUnit(t *testing.T) {
	h := newQuoteHandler(t)

	quote, err := h.Handle(context.Background(), GetQuoteQuery{
		ListingID:     "lst-1",
		ListingTypeID: "selling",
		Quantity:      4,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, quote.Quantity)
	assert.Equal(t, 50.0, quote.OwnerPrice)
	assert.Equal(t, 3.5, quote.OwnerFees)
	assert.Equal(t, 46.5, quote.OwnerNetIncome)
	assert.Equal(t, 50.0, quote.TakerPrice)
}

func TestGetQuoteUnknownListing(t *testing.T) {
	h := newQuoteHandler(t)

	_, err := h.Handle(context.Background(), GetQuoteQuery{ListingID: "nope", ListingTypeID: "renting"})
	require.Error(t, err)
	assert.Equal(t, apperr.ClassNotFound, apperr.ClassOf(err))
}
