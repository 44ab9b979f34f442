package availability

import (
	"context"
	"errors"
	"time"

	"rentable/internal/app/queries"
	domainavailability "rentable/internal/domain/availability"
	domainbooking "rentable/internal/domain/booking"
	domainlisting "rentable/internal/domain/listing"
	"rentable/internal/domain/shared/apperr"
	"rentable/internal/domain/shared/daterange"
)

const getCalendarKey = "availability.calendar"

type GetCalendarQuery struct {
	ListingID string
	From      time.Time
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type CalendarPeriod struct {
	Date      string `json:"date"`
	Quantity  int    `json:"quantity"`
	NewPeriod string `json:"new_period,omitempty"`
}

type Calendar struct {
	ListingID string           `json:"listing_id"`
	Periods   []CalendarPeriod `json:"periods"`
}

// GetCalendarHandler exposes the occupancy timeline of a listing without a
// candidate booking: the read side of the availability sweep.
type GetCalendarHandler struct {
	Listings       domainlisting.Repository
	Bookings       domainbooking.Repository
	Availabilities domainavailability.Repository
	Now            func() time.Time
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (Calendar, error) {
	if q.ListingID == "" {
		return Calendar{}, apperr.BadRequest("listing id is required")
	}
	lst, err := h.Listings.ByID(ctx, domainlisting.ListingID(q.ListingID))
	if err != nil {
		if errors.Is(err, domainlisting.ErrListingNotFound) {
			return Calendar{}, apperr.NotFound("listing not found")
		}
		return Calendar{}, err
	}

	since := q.From
	if since.IsZero() {
		since = h.nowUTC()
	}
	future, err := h.Bookings.FutureForListing(ctx, lst.ID, daterange.Day(since))
	if err != nil {
		return Calendar{}, err
	}
	spans := make([]domainavailability.Span, 0, len(future))
	for _, b := range future {
		spans = append(spans, domainavailability.Span{Range: b.Range, Quantity: b.Quantity})
	}
	records, err := h.Availabilities.ByListing(ctx, lst.ID)
	if err != nil {
		return Calendar{}, err
	}

	result := domainavailability.Compute(domainavailability.Query{
		Bookings: spans,
		Records:  records,
	})

	periods := make([]CalendarPeriod, 0, len(result.Periods))
	for _, p := range result.Periods {
		periods = append(periods, CalendarPeriod{
			Date:      daterange.FormatDay(p.Date),
			Quantity:  p.Quantity,
			NewPeriod: string(p.NewPeriod),
		})
	}
	return Calendar{ListingID: string(lst.ID), Periods: periods}, nil
}

func (h *GetCalendarHandler) nowUTC() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ queries.Handler[GetCalendarQuery, Calendar] = (*GetCalendarHandler)(nil)
