package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentable/internal/domain/shared/apperr"
)

func TestApplyFeesPercentRates(t *testing.T) {
	out, err := ApplyFees(FeeInput{
		OwnerPrice: 100,
		Rates:      &FeeRates{OwnerPercent: 5, TakerPercent: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, out.OwnerPriceAfterRebate)
	assert.Equal(t, 5.0, out.OwnerFees)
	assert.Equal(t, 95.0, out.OwnerNetIncome)
	// Taker fees gross up with the reverse rate: ceil(0.1/0.9*100) = 12,
	// so 10% of the taker total still covers the nominal fee.
	assert.Equal(t, 12.0, out.TakerFees)
	assert.Equal(t, 112.0, out.TakerPrice)
	assert.Equal(t, 10.0, out.TakerFeesPercent)
}

func TestApplyFeesZeroRates(t *testing.T) {
	out, err := ApplyFees(FeeInput{OwnerPrice: 80})
	require.NoError(t, err)

	assert.Equal(t, 0.0, out.OwnerFees)
	assert.Equal(t, 0.0, out.TakerFees)
	assert.Equal(t, 80.0, out.OwnerNetIncome)
	assert.Equal(t, 80.0, out.TakerPrice)
}

func TestApplyFeesDiscountCap(t *testing.T) {
	out, err := ApplyFees(FeeInput{
		OwnerPrice:         100,
		DiscountValue:      80,
		MaxDiscountPercent: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, out.RealDiscountValue)
	assert.Equal(t, 50.0, out.OwnerPriceAfterRebate)
}

func TestApplyFeesDiscountCapAppliesAfterFreeValue(t *testing.T) {
	out, err := ApplyFees(FeeInput{
		OwnerPrice:         100,
		FreeValue:          20,
		DiscountValue:      60,
		MaxDiscountPercent: 50,
	})
	require.NoError(t, err)

	// The cap is half of the post-free price (80), not of the raw 100.
	assert.Equal(t, 40.0, out.RealDiscountValue)
	assert.Equal(t, 40.0, out.OwnerPriceAfterRebate)
}

func TestApplyFeesAbsoluteAmounts(t *testing.T) {
	out, err := ApplyFees(FeeInput{
		OwnerPrice: 200,
		Amounts:    &FeeAmounts{Owner: 10, Taker: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, out.OwnerFees)
	assert.Equal(t, 20.0, out.TakerFees)
	assert.Equal(t, 5.0, out.OwnerFeesPercent)
	assert.Equal(t, 10.0, out.TakerFeesPercent)
	assert.Equal(t, 190.0, out.OwnerNetIncome)
	assert.Equal(t, 220.0, out.TakerPrice)
}

func TestApplyFeesRatesAndAmountsAreExclusive(t *testing.T) {
	_, err := ApplyFees(FeeInput{
		OwnerPrice: 100,
		Rates:      &FeeRates{TakerPercent: 10},
		Amounts:    &FeeAmounts{Taker: 10},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ClassBadRequest, apperr.ClassOf(err))
}

func TestApplyFeesRejectsOutOfRangeRates(t *testing.T) {
	_, err := ApplyFees(FeeInput{
		OwnerPrice: 100,
		Rates:      &FeeRates{TakerPercent: 100},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ClassConfig, apperr.ClassOf(err))

	_, err = ApplyFees(FeeInput{
		OwnerPrice: 100,
		Rates:      &FeeRates{OwnerPercent: -1},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ClassConfig, apperr.ClassOf(err))
}

func TestApplyFeesSmallOwnerFeeKeepsDecimal(t *testing.T) {
	out, err := ApplyFees(FeeInput{
		OwnerPrice: 31,
		Rates:      &FeeRates{OwnerPercent: 5},
	})
	require.NoError(t, err)

	// 5% of 31 is 1.55: below the fee threshold the amount keeps one
	// decimal instead of collapsing to an integer.
	assert.Equal(t, 1.6, out.OwnerFees)
	assert.Equal(t, 29.4, out.OwnerNetIncome)
}
