package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainavailability "rentable/internal/domain/availability"
	domainbooking "rentable/internal/domain/booking"
	domainlisting "rentable/internal/domain/listing"
)

// ListingRepository is an in-memory implementation for tests and the
// standalone mode.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlisting.ListingID]*domainlisting.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlisting.ListingID]*domainlisting.Listing),
	}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lst, ok := r.items[id]
	if !ok {
		return nil, domainlisting.ErrListingNotFound
	}
	return lst, nil
}

func (r *ListingRepository) Save(ctx context.Context, lst *domainlisting.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[lst.ID] = lst
	return nil
}

var _ domainlisting.Repository = (*ListingRepository)(nil)

// ListingTypeRepository keeps the listing type catalog in memory.
type ListingTypeRepository struct {
	mu    sync.RWMutex
	items map[domainlisting.TypeID]*domainlisting.ListingType
}

func NewListingTypeRepository() *ListingTypeRepository {
	return &ListingTypeRepository{
		items: make(map[domainlisting.TypeID]*domainlisting.ListingType),
	}
}

func (r *ListingTypeRepository) Save(ctx context.Context, lt *domainlisting.ListingType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[lt.ID] = lt
	return nil
}

func (r *ListingTypeRepository) Active(ctx context.Context) ([]*domainlisting.ListingType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlisting.ListingType, 0, len(r.items))
	for _, lt := range r.items {
		if lt.Active {
			out = append(out, lt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ domainlisting.TypeRepository = (*ListingTypeRepository)(nil)

// BookingRepository stores bookings in memory with a version bump on save.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		items: make(map[domainbooking.BookingID]*domainbooking.Booking),
	}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bk, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return bk, nil
}

func (r *BookingRepository) Save(ctx context.Context, bk *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk.Version++
	r.items[bk.ID] = bk
	return nil
}

func (r *BookingRepository) FutureForListing(ctx context.Context, id domainlisting.ListingID, since time.Time) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, bk := range r.items {
		if bk.ListingID != id || !bk.Occupies() {
			continue
		}
		if bk.Range.IsZero() || bk.Range.End.Before(since) {
			continue
		}
		out = append(out, bk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Start.Before(out[j].Range.Start) })
	return out, nil
}

var _ domainbooking.Repository = (*BookingRepository)(nil)

// AvailabilityRepository keeps manual availability records per listing.
type AvailabilityRepository struct {
	mu    sync.RWMutex
	items map[string]domainavailability.Record
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{items: make(map[string]domainavailability.Record)}
}

func (r *AvailabilityRepository) ByListing(ctx context.Context, id domainlisting.ListingID) ([]domainavailability.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domainavailability.Record, 0)
	for _, rec := range r.items {
		if rec.ListingID == id {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AvailabilityRepository) Save(ctx context.Context, rec domainavailability.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rec.ID] = rec
	return nil
}

func (r *AvailabilityRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

var _ domainavailability.Repository = (*AvailabilityRepository)(nil)
