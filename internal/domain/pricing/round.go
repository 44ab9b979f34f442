package pricing

import "math"

// Rounding thresholds carried over from the production pricing tables.
// Below the threshold a value keeps one decimal so small amounts do not
// collapse to zero; above it the asymmetric policy applies.
const (
	priceDecimalCeiling = 3
	feeDecimalCeiling   = 20
)

// RoundPrice applies the per-day price rounding: one decimal below 3
// currency units, floor to an integer from 3 up. Negative values clamp
// to zero.
func RoundPrice(value float64) float64 {
	if value <= 0 {
		return 0
	}
	if value < priceDecimalCeiling {
		return math.Round(value*10) / 10
	}
	return math.Floor(value)
}

// RoundFee rounds a fee amount: one decimal below 20 currency units,
// nearest integer above.
func RoundFee(value float64) float64 {
	if value < feeDecimalCeiling {
		return math.Round(value*10) / 10
	}
	return math.Round(value)
}
