package pricing

import (
	"math"

	"rentable/internal/domain/shared/apperr"
)

// FeeRates are percentage-based fees quoted per side.
type FeeRates struct {
	OwnerPercent float64
	TakerPercent float64
}

// FeeAmounts are absolute fees per side, used instead of rates.
type FeeAmounts struct {
	Owner float64
	Taker float64
}

// FeeInput describes one fee computation. Rates and Amounts are mutually
// exclusive; leaving both nil means zero percentage fees.
type FeeInput struct {
	OwnerPrice         float64
	FreeValue          float64
	DiscountValue      float64
	MaxDiscountPercent float64
	Rates              *FeeRates
	Amounts            *FeeAmounts
}

type FeeBreakdown struct {
	OwnerPriceAfterRebate float64
	OwnerNetIncome        float64
	TakerPrice            float64
	OwnerFeesPercent      float64
	TakerFeesPercent      float64
	OwnerFees             float64
	TakerFees             float64
	RealDiscountValue     float64
}

// ApplyFees turns an owner gross price into the owner net income and taker
// total. The discount is capped at MaxDiscountPercent of the price after
// the free value, never of the raw owner price. Taker percentage fees are
// grossed up with the reverse rate p/(1-p) and rounded up, so the platform
// never collects less than the nominal rate.
func ApplyFees(in FeeInput) (FeeBreakdown, error) {
	if in.Rates != nil && in.Amounts != nil {
		return FeeBreakdown{}, apperr.BadRequest("pricing: percentage and absolute fees are mutually exclusive")
	}

	priceAfterFree := math.Round(in.OwnerPrice - in.FreeValue)
	discountCeiling := math.Round(priceAfterFree * in.MaxDiscountPercent / 100)
	realDiscount := math.Min(in.DiscountValue, discountCeiling)
	priceAfterDiscount := math.Round(priceAfterFree - realDiscount)

	out := FeeBreakdown{
		OwnerPriceAfterRebate: priceAfterDiscount,
		RealDiscountValue:     realDiscount,
	}

	if in.Amounts != nil {
		out.OwnerFees = in.Amounts.Owner
		out.TakerFees = in.Amounts.Taker
		if priceAfterDiscount != 0 {
			out.OwnerFeesPercent = math.Round(out.OwnerFees * 100 / priceAfterDiscount)
			out.TakerFeesPercent = math.Round(out.TakerFees * 100 / priceAfterDiscount)
		}
	} else {
		rates := FeeRates{}
		if in.Rates != nil {
			rates = *in.Rates
		}
		if rates.TakerPercent >= 100 || rates.TakerPercent < 0 || rates.OwnerPercent < 0 {
			return FeeBreakdown{}, apperr.Config("pricing: fee percents must be within [0, 100)")
		}
		out.OwnerFeesPercent = rates.OwnerPercent
		out.TakerFeesPercent = rates.TakerPercent
		out.OwnerFees = RoundFee(rates.OwnerPercent / 100 * priceAfterDiscount)
		takerRate := rates.TakerPercent / 100
		if takerRate > 0 {
			out.TakerFees = math.Ceil(takerRate / (1 - takerRate) * priceAfterDiscount)
		}
	}

	out.OwnerNetIncome = priceAfterDiscount - out.OwnerFees
	out.TakerPrice = priceAfterDiscount + out.TakerFees
	return out, nil
}
