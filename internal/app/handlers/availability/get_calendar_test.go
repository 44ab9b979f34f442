package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainavailability "rentable/internal/domain/availability"
	domainbooking "rentable/internal/domain/booking"
	domainlisting "rentable/internal/domain/listing"
	"rentable/internal/domain/shared/apperr"
	"rentable/internal/domain/shared/daterange"
	"rentable/internal/infra/storage/memory"
)

func seedCalendarFixture(t *testing.T) (*GetCalendarHandler, *memory.BookingRepository, *memory.AvailabilityRepository) {
	t.Helper()
	ctx := context.Background()
	listings := memory.NewListingRepository()
	bookings := memory.NewBookingRepository()
	records := memory.NewAvailabilityRepository()

	require.NoError(t, listings.Save(ctx, &domainlisting.Listing{
		ID:        "lst-1",
		Owner:     "owner-1",
		Quantity:  2,
		Validated: true,
	}))

	h := &GetCalendarHandler{
		Listings:       listings,
		Bookings:       bookings,
		Availabilities: records,
		Now:            func() time.Time { return time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC) },
	}
	return h, bookings, records
}

func paidBooking(t *testing.T, id, start string, nbDays, qty int) *domainbooking.Booking {
	t.Helper()
	s, err := daterange.ParseDay(start)
	require.NoError(t, err)
	rng, err := daterange.FromDuration(s, nbDays)
	require.NoError(t, err)
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		ListingID: "lst-1",
		OwnerID:   "owner-1",
		TakerID:   "taker-1",
		Range:     rng,
		Quantity:  qty,
		CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, b.Accept(now))
	require.NoError(t, b.MarkPaid(now))
	return b
}

func TestGetCalendarEmptyListing(t *testing.T) {
	h, _, _ := seedCalendarFixture(t)

	cal, err := h.Handle(context.Background(), GetCalendarQuery{ListingID: "lst-1"})
	require.NoError(t, err)

	assert.Equal(t, "lst-1", cal.ListingID)
	assert.Empty(t, cal.Periods)
}

func TestGetCalendarMergesBookingsAndRecords(t *testing.T) {
	h, bookings, records := seedCalendarFixture(t)
	ctx := context.Background()
	require.NoError(t, bookings.Save(ctx, paidBooking(t, "bk-1", "2026-10-10", 3, 1)))

	s, _ := daterange.ParseDay("2026-10-12")
	e, _ := daterange.ParseDay("2026-10-15")
	rng, err := daterange.New(s, e)
	require.NoError(t, err)
	require.NoError(t, records.Save(ctx, domainavailability.Record{
		ID: "rec-1", ListingID: "lst-1", Range: rng, Quantity: 1, Available: false,
	}))

	cal, err := h.Handle(ctx, GetCalendarQuery{ListingID: "lst-1"})
	require.NoError(t, err)

	// Baseline plus the four boundary days: booking start, record start,
	// booking end, record end.
	require.Len(t, cal.Periods, 5)
	assert.Equal(t, "2026-10-09", cal.Periods[0].Date)
	assert.Equal(t, 0, cal.Periods[0].Quantity)
	assert.Equal(t, "2026-10-10", cal.Periods[1].Date)
	assert.Equal(t, 1, cal.Periods[1].Quantity)
	last := cal.Periods[len(cal.Periods)-1]
	assert.Equal(t, "2026-10-15", last.Date)
	assert.Equal(t, 0, last.Quantity)
}

func TestGetCalendarIgnoresPendingBookings(t *testing.T) {
	h, bookings, _ := seedCalendarFixture(t)
	ctx := context.Background()
	s, _ := daterange.ParseDay("2026-10-10")
	rng, err := daterange.FromDuration(s, 3)
	require.NoError(t, err)
	pending, err := domainbooking.New(domainbooking.CreateParams{
		ID: "bk-pending", ListingID: "lst-1", OwnerID: "owner-1", TakerID: "taker-1",
		Range: rng, Quantity: 1, CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, bookings.Save(ctx, pending))

	cal, err := h.Handle(ctx, GetCalendarQuery{ListingID: "lst-1"})
	require.NoError(t, err)
	assert.Empty(t, cal.Periods)
}

func TestGetCalendarUnknownListing(t *testing.T) {
	h, _, _ := seedCalendarFixture(t)

	_, err := h.Handle(context.Background(), GetCalendarQuery{ListingID: "missing"})
	require.Error(t, err)
	assert.Equal(t, apperr.ClassNotFound, apperr.ClassOf(err))
}
