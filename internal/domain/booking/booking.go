package booking

import (
	"context"
	"errors"
	"time"

	"rentable/internal/domain/listing"
	"rentable/internal/domain/shared/daterange"
	"rentable/internal/domain/shared/events"
)

var (
	ErrInvalidQuantity = errors.New("booking: quantity must be positive")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrBookingNotFound = errors.New("booking: not found")
)

type BookingID string

type State string

const (
	StatePending   State = "PENDING"
	StateAccepted  State = "ACCEPTED"
	StatePaid      State = "PAID"
	StateCancelled State = "CANCELLED"
	StateCompleted State = "COMPLETED"
)

// PriceData keeps the rebate context a booking was priced with.
type PriceData struct {
	FreeValue     float64
	DiscountValue float64
	OwnerFreeFees bool
	TakerFreeFees bool
}

// Booking is the admitted reservation, created in PENDING state by the
// admission flow. Lifecycle markers past that point belong to the
// payment/acceptance flow.
type Booking struct {
	ID                BookingID
	ListingID         listing.ListingID
	ListingTypeID     listing.TypeID
	ListingSnapshotID string
	OwnerID           listing.OwnerID
	TakerID           string
	Range             daterange.Range
	NbTimeUnits       int
	TimeUnit          listing.TimeUnit
	Quantity          int
	TimeUnitPrice     float64
	Currency          string
	OwnerPrice        float64
	TakerPrice        float64
	OwnerFees         float64
	TakerFees         float64
	Deposit           float64
	PriceData         PriceData
	State             State
	CancellationID    string
	AcceptedDate      time.Time
	PaidDate          time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	// FutureForListing returns paid-and-accepted, non-cancelled bookings
	// whose range ends on or after since.
	FutureForListing(ctx context.Context, id listing.ListingID, since time.Time) ([]*Booking, error)
}

type CreateParams struct {
	ID                BookingID
	ListingID         listing.ListingID
	ListingTypeID     listing.TypeID
	ListingSnapshotID string
	OwnerID           listing.OwnerID
	TakerID           string
	Range             daterange.Range
	NbTimeUnits       int
	TimeUnit          listing.TimeUnit
	Quantity          int
	TimeUnitPrice     float64
	Currency          string
	OwnerPrice        float64
	TakerPrice        float64
	OwnerFees         float64
	TakerFees         float64
	Deposit           float64
	PriceData         PriceData
	CreatedAt         time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if params.TakerID == "" {
		return nil, errors.New("booking: taker id required")
	}
	if params.OwnerID == "" {
		return nil, errors.New("booking: owner id required")
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:                params.ID,
		ListingID:         params.ListingID,
		ListingTypeID:     params.ListingTypeID,
		ListingSnapshotID: params.ListingSnapshotID,
		OwnerID:           params.OwnerID,
		TakerID:           params.TakerID,
		Range:             params.Range,
		NbTimeUnits:       params.NbTimeUnits,
		TimeUnit:          params.TimeUnit,
		Quantity:          params.Quantity,
		TimeUnitPrice:     params.TimeUnitPrice,
		Currency:          params.Currency,
		OwnerPrice:        params.OwnerPrice,
		TakerPrice:        params.TakerPrice,
		OwnerFees:         params.OwnerFees,
		TakerFees:         params.TakerFees,
		Deposit:           params.Deposit,
		PriceData:         params.PriceData,
		State:             StatePending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	b.Record(BookingRequested{
		BookingID:  b.ID,
		ListingID:  b.ListingID,
		TakerID:    b.TakerID,
		Range:      b.Range,
		Quantity:   b.Quantity,
		TakerPrice: b.TakerPrice,
		At:         now,
	})
	return b, nil
}

func (b *Booking) Accept(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateAccepted
	b.AcceptedDate = now.UTC()
	b.UpdatedAt = now.UTC()
	b.Record(BookingAccepted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) MarkPaid(now time.Time) error {
	if b.State != StatePending && b.State != StateAccepted {
		return ErrInvalidState
	}
	b.State = StatePaid
	b.PaidDate = now.UTC()
	b.UpdatedAt = now.UTC()
	b.Record(BookingPaid{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(cancellationID, reason string, now time.Time) error {
	switch b.State {
	case StatePending, StateAccepted, StatePaid:
	default:
		return ErrInvalidState
	}
	b.State = StateCancelled
	b.CancellationID = cancellationID
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, CancellationID: cancellationID, Reason: reason, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.State != StatePaid {
		return ErrInvalidState
	}
	b.State = StateCompleted
	b.UpdatedAt = now.UTC()
	return nil
}

// Occupies reports whether the booking consumes tracked stock: it has
// been paid, accepted and not cancelled.
func (b *Booking) Occupies() bool {
	return b.State == StatePaid && !b.AcceptedDate.IsZero() && b.CancellationID == ""
}
