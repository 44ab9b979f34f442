package booking

import (
	"context"
	"errors"
	"time"

	"rentable/internal/app/commands"
	"rentable/internal/app/middleware"
	"rentable/internal/app/outbox"
	"rentable/internal/app/policies"
	domainavailability "rentable/internal/domain/availability"
	domainbooking "rentable/internal/domain/booking"
	domainlisting "rentable/internal/domain/listing"
	domainpricing "rentable/internal/domain/pricing"
	"rentable/internal/domain/shared/apperr"
	"rentable/internal/domain/shared/daterange"
)

const requestBookingKey = "booking.request"

type RequestBookingCommand struct {
	CommandID       string
	TakerID         string
	ListingID       string
	ListingTypeID   string
	StartDate       string
	NbTimeUnits     int
	Quantity        int
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID  string  `json:"booking_id"`
	StartDate  string  `json:"start_date,omitempty"`
	EndDate    string  `json:"end_date,omitempty"`
	Quantity   int     `json:"quantity"`
	OwnerPrice float64 `json:"owner_price"`
	TakerPrice float64 `json:"taker_price"`
	Currency   string  `json:"currency"`
}

// RequestBookingHandler decides whether a booking request is admitted:
// listing and listing-type validation, date-range derivation, the
// availability sweep against the quantity ceiling, then pricing and fees.
// The availability verdict is point-in-time only; the persistence layer
// owns the final re-check at commit.
type RequestBookingHandler struct {
	Listings       domainlisting.Repository
	ListingTypes   domainlisting.TypeRepository
	Bookings       domainbooking.Repository
	Availabilities domainavailability.Repository
	PricingConfigs policies.PricingConfigPort
	FreeFees       policies.FreeFeesPort
	Snapshots      policies.SnapshotPort
	Outbox         outbox.Outbox
	Encoder        outbox.EventEncoder
	Now            func() time.Time
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	if cmd.ListingID == "" || cmd.ListingTypeID == "" {
		return nil, apperr.BadRequest("listing id and listing type id are required")
	}
	if cmd.TakerID == "" {
		return nil, apperr.BadRequest("taker id is required")
	}
	now := h.now()

	lst, err := h.Listings.ByID(ctx, domainlisting.ListingID(cmd.ListingID))
	if err != nil {
		if errors.Is(err, domainlisting.ErrListingNotFound) {
			return nil, apperr.NotFound("listing not found")
		}
		return nil, err
	}
	ltype, err := h.findListingType(ctx, domainlisting.TypeID(cmd.ListingTypeID))
	if err != nil {
		return nil, err
	}

	if string(lst.Owner) == cmd.TakerID {
		return nil, apperr.Forbidden("owners cannot book their own listing")
	}
	if !lst.HasType(ltype.ID) {
		return nil, apperr.BadRequest("listing type not allowed for this listing")
	}
	if lst.Quantity == 0 {
		return nil, apperr.BadRequest("listing out of stock")
	}
	if !lst.Validated {
		return nil, apperr.BadRequest("listing not validated")
	}
	if !lst.Bookable() {
		return nil, apperr.BadRequest("listing not bookable")
	}

	quantity := cmd.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperr.BadRequest("quantity must be positive")
	}
	if ltype.Availability == domainlisting.AvailabilityNone {
		quantity = 1
	}
	maxQuantity, err := lst.MaxQuantity(ltype.Availability)
	if err != nil {
		return nil, err
	}
	if ltype.TracksAvailability() && quantity > maxQuantity {
		return nil, apperr.BadRequest("not enough quantity")
	}

	var rng daterange.Range
	nbUnits := 1
	if ltype.TimeMode == domainlisting.TimeFlexible {
		if cmd.StartDate == "" || cmd.NbTimeUnits <= 0 {
			return nil, apperr.BadRequest("Invalid dates")
		}
		start, err := daterange.ParseDay(cmd.StartDate)
		if err != nil {
			return nil, apperr.BadRequest("Invalid dates")
		}
		if err := domainbooking.ValidateRequestDates(start, cmd.NbTimeUnits, ltype.Config.BookingTime, now); err != nil {
			return nil, err
		}
		rng, err = domainbooking.RangeFor(start, cmd.NbTimeUnits, ltype.Config.BookingTime.TimeUnit)
		if err != nil {
			return nil, err
		}
		nbUnits = cmd.NbTimeUnits

		if ltype.TracksAvailability() {
			if err := h.checkAvailability(ctx, lst, ltype, rng, quantity, maxQuantity, now); err != nil {
				return nil, err
			}
		}
	}

	ownerPrice, unitPrice, err := h.ownerPrice(ctx, lst, ltype, nbUnits, quantity)
	if err != nil {
		return nil, err
	}
	fees, priceData, err := h.applyFees(ctx, lst, ltype, cmd.TakerID, ownerPrice, now)
	if err != nil {
		return nil, err
	}

	snapshotID, err := h.Snapshots.SnapshotListing(ctx, lst)
	if err != nil {
		return nil, err
	}

	bk, err := domainbooking.New(domainbooking.CreateParams{
		ID:                domainbooking.BookingID(cmd.CommandID),
		ListingID:         lst.ID,
		ListingTypeID:     ltype.ID,
		ListingSnapshotID: snapshotID,
		OwnerID:           lst.Owner,
		TakerID:           cmd.TakerID,
		Range:             rng,
		NbTimeUnits:       nbUnits,
		TimeUnit:          ltype.Config.BookingTime.TimeUnit,
		Quantity:          quantity,
		TimeUnitPrice:     unitPrice,
		Currency:          lst.Currency,
		OwnerPrice:        ownerPrice,
		TakerPrice:        fees.TakerPrice,
		OwnerFees:         fees.OwnerFees,
		TakerFees:         fees.TakerFees,
		Deposit:           lst.Deposit,
		PriceData:         priceData,
		CreatedAt:         now,
	})
	if err != nil {
		return nil, err
	}

	if err := h.Bookings.Save(ctx, bk); err != nil {
		return nil, err
	}
	pending := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	result := &RequestBookingResult{
		BookingID:  string(bk.ID),
		Quantity:   bk.Quantity,
		OwnerPrice: bk.OwnerPrice,
		TakerPrice: bk.TakerPrice,
		Currency:   bk.Currency,
	}
	if !rng.IsZero() {
		result.StartDate = daterange.FormatDay(rng.Start)
		result.EndDate = daterange.FormatDay(rng.End)
	}
	return result, nil
}

func (h *RequestBookingHandler) findListingType(ctx context.Context, id domainlisting.TypeID) (*domainlisting.ListingType, error) {
	types, err := h.ListingTypes.Active(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, apperr.NotFound("listing type not found")
}

func (h *RequestBookingHandler) checkAvailability(
	ctx context.Context,
	lst *domainlisting.Listing,
	ltype *domainlisting.ListingType,
	rng daterange.Range,
	quantity, maxQuantity int,
	now time.Time,
) error {
	future, err := h.Bookings.FutureForListing(ctx, lst.ID, daterange.Day(now))
	if err != nil {
		return err
	}
	spans := make([]domainavailability.Span, 0, len(future))
	for _, b := range future {
		spans = append(spans, domainavailability.Span{Range: b.Range, Quantity: b.Quantity})
	}

	var records []domainavailability.Record
	if ltype.Config.TimeAvailability != domainlisting.TimeAvailabilityNone {
		records, err = h.Availabilities.ByListing(ctx, lst.ID)
		if err != nil {
			return err
		}
	}

	result := domainavailability.Compute(domainavailability.Query{
		Bookings:    spans,
		Records:     records,
		Candidate:   &domainavailability.Span{Range: rng, Quantity: quantity},
		MaxQuantity: maxQuantity,
	})
	if !result.IsAvailable {
		return apperr.BadRequest("Not available")
	}
	return nil
}

// ownerPrice computes the gross owner price and the per-unit price. Time
// based types price through the curve (custom if the listing carries one),
// one-shot types through the selling price.
func (h *RequestBookingHandler) ownerPrice(
	ctx context.Context,
	lst *domainlisting.Listing,
	ltype *domainlisting.ListingType,
	nbUnits, quantity int,
) (float64, float64, error) {
	var total float64
	if ltype.TimeMode == domainlisting.TimeFlexible {
		var err error
		if lst.CustomPricing != nil {
			total, err = domainpricing.CustomPrice(*lst.CustomPricing, nbUnits)
		} else {
			var cfg domainpricing.RegressiveConfig
			cfg, err = h.PricingConfigs.RegressiveConfig(ctx, lst.PricingID)
			if err == nil {
				total, err = domainpricing.RegressivePrice(lst.DayOnePrice, cfg, nbUnits)
			}
		}
		if err != nil {
			return 0, 0, err
		}
	} else {
		total = lst.SellingPrice
	}
	unitPrice := domainpricing.RoundPrice(total / float64(nbUnits))
	return total * float64(quantity), unitPrice, nil
}

func (h *RequestBookingHandler) applyFees(
	ctx context.Context,
	lst *domainlisting.Listing,
	ltype *domainlisting.ListingType,
	takerID string,
	ownerPrice float64,
	now time.Time,
) (domainpricing.FeeBreakdown, domainbooking.PriceData, error) {
	rates := domainpricing.FeeRates{
		OwnerPercent: ltype.Config.Pricing.OwnerFeesPercent,
		TakerPercent: ltype.Config.Pricing.TakerFeesPercent,
	}
	priceData := domainbooking.PriceData{}
	if h.FreeFees != nil {
		ownerFree, err := h.FreeFees.IsFreeFees(ctx, string(lst.Owner), now)
		if err != nil {
			return domainpricing.FeeBreakdown{}, priceData, err
		}
		takerFree, err := h.FreeFees.IsFreeFees(ctx, takerID, now)
		if err != nil {
			return domainpricing.FeeBreakdown{}, priceData, err
		}
		if ownerFree {
			rates.OwnerPercent = 0
		}
		if takerFree {
			rates.TakerPercent = 0
		}
		priceData.OwnerFreeFees = ownerFree
		priceData.TakerFreeFees = takerFree
	}
	fees, err := domainpricing.ApplyFees(domainpricing.FeeInput{
		OwnerPrice:         ownerPrice,
		MaxDiscountPercent: ltype.Config.Pricing.MaxDiscountPercent,
		Rates:              &rates,
	})
	if err != nil {
		return domainpricing.FeeBreakdown{}, priceData, err
	}
	return fees, priceData, nil
}

func (h *RequestBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
