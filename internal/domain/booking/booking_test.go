package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentable/internal/domain/shared/daterange"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	rng, err := daterange.FromDuration(time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	b, err := New(CreateParams{
		ID:          "bk-1",
		ListingID:   "lst-1",
		OwnerID:     "owner-1",
		TakerID:     "taker-1",
		Range:       rng,
		NbTimeUnits: 3,
		Quantity:    1,
		OwnerPrice:  90,
		TakerPrice:  104,
		CreatedAt:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNewBookingStartsPendingAndRecordsEvent(t *testing.T) {
	b := newTestBooking(t)

	assert.Equal(t, StatePending, b.State)
	events := b.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.requested", events[0].EventName())
	assert.Equal(t, "bk-1", events[0].AggregateID())
}

func TestNewBookingRejectsNonPositiveQuantity(t *testing.T) {
	_, err := New(CreateParams{ID: "bk-1", OwnerID: "o", TakerID: "t", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestBookingLifecycle(t *testing.T) {
	b := newTestBooking(t)
	b.ClearEvents()
	now := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, b.Accept(now))
	assert.Equal(t, StateAccepted, b.State)
	assert.False(t, b.Occupies())

	require.NoError(t, b.MarkPaid(now.Add(time.Hour)))
	assert.Equal(t, StatePaid, b.State)
	assert.True(t, b.Occupies())

	require.NoError(t, b.Complete(now.Add(2*time.Hour)))
	assert.Equal(t, StateCompleted, b.State)

	assert.ErrorIs(t, b.Accept(now), ErrInvalidState)
	assert.ErrorIs(t, b.Cancel("cx-1", "late", now), ErrInvalidState)
}

func TestBookingCancelReleasesStock(t *testing.T) {
	b := newTestBooking(t)
	now := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, b.Accept(now))
	require.NoError(t, b.MarkPaid(now))
	require.True(t, b.Occupies())

	require.NoError(t, b.Cancel("cx-1", "changed plans", now))
	assert.Equal(t, StateCancelled, b.State)
	assert.Equal(t, "cx-1", b.CancellationID)
	assert.False(t, b.Occupies())
}

func TestBookingPaidWithoutAcceptanceDoesNotOccupy(t *testing.T) {
	b := newTestBooking(t)
	now := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, b.MarkPaid(now))

	assert.False(t, b.Occupies())
}
