package listings

import (
	"context"
	"errors"

	"rentable/internal/app/policies"
	"rentable/internal/app/queries"
	domainlisting "rentable/internal/domain/listing"
	domainpricing "rentable/internal/domain/pricing"
	"rentable/internal/domain/shared/apperr"
)

const getQuoteKey = "listings.quote"

// GetQuoteQuery previews the price breakdown of a prospective booking
// without admitting it.
type GetQuoteQuery struct {
	ListingID     string
	ListingTypeID string
	NbTimeUnits   int
	Quantity      int
}

func (q GetQuoteQuery) Key() string { return getQuoteKey }

type Quote struct {
	ListingID        string  `json:"listing_id"`
	NbTimeUnits      int     `json:"nb_time_units"`
	Quantity         int     `json:"quantity"`
	TimeUnitPrice    float64 `json:"time_unit_price"`
	OwnerPrice       float64 `json:"owner_price"`
	OwnerNetIncome   float64 `json:"owner_net_income"`
	TakerPrice       float64 `json:"taker_price"`
	OwnerFees        float64 `json:"owner_fees"`
	TakerFees        float64 `json:"taker_fees"`
	OwnerFeesPercent float64 `json:"owner_fees_percent"`
	TakerFeesPercent float64 `json:"taker_fees_percent"`
	Currency         string  `json:"currency"`
}

type GetQuoteHandler struct {
	Listings       domainlisting.Repository
	ListingTypes   domainlisting.TypeRepository
	PricingConfigs policies.PricingConfigPort
}

func (h *GetQuoteHandler) Handle(ctx context.Context, q GetQuoteQuery) (Quote, error) {
	if q.ListingID == "" || q.ListingTypeID == "" {
		return Quote{}, apperr.BadRequest("listing id and listing type id are required")
	}
	lst, err := h.Listings.ByID(ctx, domainlisting.ListingID(q.ListingID))
	if err != nil {
		if errors.Is(err, domainlisting.ErrListingNotFound) {
			return Quote{}, apperr.NotFound("listing not found")
		}
		return Quote{}, err
	}
	types, err := h.ListingTypes.Active(ctx)
	if err != nil {
		return Quote{}, err
	}
	var ltype *domainlisting.ListingType
	for _, t := range types {
		if t.ID == domainlisting.TypeID(q.ListingTypeID) {
			ltype = t
			break
		}
	}
	if ltype == nil {
		return Quote{}, apperr.NotFound("listing type not found")
	}

	quantity := q.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	// One-shot types sell the whole listing at once, never per unit.
	// Stock types keep the requested quantity, as admission does.
	if ltype.Availability == domainlisting.AvailabilityNone {
		quantity = 1
	}
	nbUnits := q.NbTimeUnits
	var unitTotal float64
	if ltype.TimeMode == domainlisting.TimeFlexible {
		if nbUnits <= 0 {
			return Quote{}, apperr.BadRequest("Invalid dates")
		}
		if lst.CustomPricing != nil {
			unitTotal, err = domainpricing.CustomPrice(*lst.CustomPricing, nbUnits)
		} else {
			var cfg domainpricing.RegressiveConfig
			cfg, err = h.PricingConfigs.RegressiveConfig(ctx, lst.PricingID)
			if err == nil {
				unitTotal, err = domainpricing.RegressivePrice(lst.DayOnePrice, cfg, nbUnits)
			}
		}
		if err != nil {
			return Quote{}, err
		}
	} else {
		nbUnits = 1
		unitTotal = lst.SellingPrice
	}
	ownerPrice := unitTotal * float64(quantity)

	rates := domainpricing.FeeRates{
		OwnerPercent: ltype.Config.Pricing.OwnerFeesPercent,
		TakerPercent: ltype.Config.Pricing.TakerFeesPercent,
	}
	fees, err := domainpricing.ApplyFees(domainpricing.FeeInput{
		OwnerPrice:         ownerPrice,
		MaxDiscountPercent: ltype.Config.Pricing.MaxDiscountPercent,
		Rates:              &rates,
	})
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		ListingID:        string(lst.ID),
		NbTimeUnits:      nbUnits,
		Quantity:         quantity,
		TimeUnitPrice:    domainpricing.RoundPrice(unitTotal / float64(nbUnits)),
		OwnerPrice:       ownerPrice,
		OwnerNetIncome:   fees.OwnerNetIncome,
		TakerPrice:       fees.TakerPrice,
		OwnerFees:        fees.OwnerFees,
		TakerFees:        fees.TakerFees,
		OwnerFeesPercent: fees.OwnerFeesPercent,
		TakerFeesPercent: fees.TakerFeesPercent,
		Currency:         lst.Currency,
	}, nil
}

var _ queries.Handler[GetQuoteQuery, Quote] = (*GetQuoteHandler)(nil)
