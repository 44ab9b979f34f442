package listing

import "context"

type TypeID string

// TimeMode says whether bookings on this type span a date range.
type TimeMode string

const (
	TimeNone     TimeMode = "NONE"
	TimeFlexible TimeMode = "TIME_FLEXIBLE"
)

// AvailabilityMode says how stock is tracked: not at all, a single unit,
// or a counted stock.
type AvailabilityMode string

const (
	AvailabilityNone   AvailabilityMode = "NONE"
	AvailabilityUnique AvailabilityMode = "UNIQUE"
	AvailabilityStock  AvailabilityMode = "STOCK"
)

// TimeAvailabilityMode says whether hosts maintain manual availability
// records on top of bookings.
type TimeAvailabilityMode string

const (
	TimeAvailabilityNone        TimeAvailabilityMode = "NONE"
	TimeAvailabilityAvailable   TimeAvailabilityMode = "AVAILABLE"
	TimeAvailabilityUnavailable TimeAvailabilityMode = "UNAVAILABLE"
)

type TimeUnit string

const (
	UnitDay TimeUnit = "d"
)

// BookingTimeConfig bounds the date range a taker may request.
// Deltas are counted in days from today; durations in time units.
// Zero max values leave that side unbounded.
type BookingTimeConfig struct {
	TimeUnit          TimeUnit
	MinDuration       int
	MaxDuration       int
	StartDateMinDelta int
	StartDateMaxDelta int
}

// PricingConfig carries the fee policy of a listing type.
type PricingConfig struct {
	OwnerFeesPercent   float64
	TakerFeesPercent   float64
	MaxDiscountPercent float64
}

type TypeConfig struct {
	BookingTime      BookingTimeConfig
	Pricing          PricingConfig
	TimeAvailability TimeAvailabilityMode
}

// ListingType determines which booking rules apply to a listing.
type ListingType struct {
	ID           TypeID
	Name         string
	TimeMode     TimeMode
	Availability AvailabilityMode
	Config       TypeConfig
	Active       bool
}

// TracksAvailability reports whether bookings on this type consume
// tracked stock.
func (t *ListingType) TracksAvailability() bool {
	return t.Availability == AvailabilityUnique || t.Availability == AvailabilityStock
}

type TypeRepository interface {
	Active(ctx context.Context) ([]*ListingType, error)
}
