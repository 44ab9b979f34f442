package policies

import (
	"context"
	"time"

	domainlisting "rentable/internal/domain/listing"
	domainpricing "rentable/internal/domain/pricing"
)

// SnapshotPort stores an immutable copy of a listing at booking time and
// returns its reference for historical record keeping.
type SnapshotPort interface {
	SnapshotListing(ctx context.Context, l *domainlisting.Listing) (string, error)
}

// FreeFeesPort answers whether a user holds an active free-fees grant.
type FreeFeesPort interface {
	IsFreeFees(ctx context.Context, userID string, now time.Time) (bool, error)
}

// PricingConfigPort resolves the default regressive curve referenced by a
// listing's pricing id.
type PricingConfigPort interface {
	RegressiveConfig(ctx context.Context, pricingID string) (domainpricing.RegressiveConfig, error)
}
