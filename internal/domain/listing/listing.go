package listing

import (
	"context"
	"errors"

	"rentable/internal/domain/pricing"
	"rentable/internal/domain/shared/apperr"
)

var ErrListingNotFound = errors.New("listing: not found")

type ListingID string
type OwnerID string

// Listing is the rentable unit. It is owned and mutated by the catalog
// side of the platform; the booking core only reads it.
type Listing struct {
	ID            ListingID
	Owner         OwnerID
	Name          string
	Quantity      int
	SellingPrice  float64
	DayOnePrice   float64
	Deposit       float64
	Currency      string
	PricingID     string
	CustomPricing *pricing.CustomConfig
	TypeIDs       []TypeID
	Broken        bool
	Locked        bool
	Validated     bool
}

// Bookable reports whether the listing can accept bookings at all.
func (l *Listing) Bookable() bool {
	return !l.Broken && !l.Locked && l.Validated
}

func (l *Listing) HasType(id TypeID) bool {
	for _, t := range l.TypeIDs {
		if t == id {
			return true
		}
	}
	return false
}

// MaxQuantity resolves the booking quantity ceiling for the given
// availability mode. Zero means the ceiling is not tracked.
func (l *Listing) MaxQuantity(mode AvailabilityMode) (int, error) {
	switch mode {
	case AvailabilityNone:
		return 0, nil
	case AvailabilityUnique:
		return 1, nil
	case AvailabilityStock:
		return l.Quantity, nil
	default:
		return 0, apperr.Config("listing: unknown availability mode " + string(mode))
	}
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
}
