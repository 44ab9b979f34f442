package availability

import (
	"context"
	"time"

	"rentable/internal/domain/listing"
	"rentable/internal/domain/shared/daterange"
)

// Record is a manual availability adjustment maintained by the host.
// Available true adds capacity over the interval; false blocks it.
type Record struct {
	ID        string
	ListingID listing.ListingID
	Range     daterange.Range
	Quantity  int
	Available bool
	CreatedAt time.Time
}

type Repository interface {
	ByListing(ctx context.Context, id listing.ListingID) ([]Record, error)
	Save(ctx context.Context, record Record) error
	Remove(ctx context.Context, id string) error
}
