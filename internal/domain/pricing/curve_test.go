package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentable/internal/domain/shared/apperr"
)

func TestRegressiveSeriesAccumulates(t *testing.T) {
	cfg := RegressiveConfig{
		Daily: -0.1,
		Breakpoints: []ValueBreakpoint{
			{Day: 1, Value: 1},
			{Day: 2, Value: 0.5},
		},
	}

	series, err := RegressiveSeries(100, cfg, 3)
	require.NoError(t, err)

	// Day one is the listing price; later days add dayOne*daily*value of
	// the reached breakpoint: 100 + 100*(-0.1)*0.5 = 95, then 90.
	assert.Equal(t, []float64{100, 95, 90}, series)
}

func TestRegressiveSeriesNeverNegative(t *testing.T) {
	cfg := RegressiveConfig{
		Daily:       -0.5,
		Breakpoints: []ValueBreakpoint{{Day: 1, Value: 1}},
	}

	series, err := RegressiveSeries(10, cfg, 5)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 5, 0, 0, 0}, series)
}

func TestRegressiveSeriesUsesLatestBreakpoint(t *testing.T) {
	cfg := RegressiveConfig{
		Daily: 0.1,
		Breakpoints: []ValueBreakpoint{
			{Day: 1, Value: 1},
			{Day: 4, Value: 2},
		},
	}

	series, err := RegressiveSeries(50, cfg, 5)
	require.NoError(t, err)

	// +5 per day until day 4, then +10.
	assert.Equal(t, []float64{50, 55, 60, 70, 80}, series)
}

func TestRegressiveConfigValidation(t *testing.T) {
	err := RegressiveConfig{Breakpoints: []ValueBreakpoint{{Day: 2, Value: 1}}}.Validate()
	require.Error(t, err)
	assert.Equal(t, apperr.ClassConfig, apperr.ClassOf(err))

	err = RegressiveConfig{}.Validate()
	require.Error(t, err)
	assert.Equal(t, apperr.ClassConfig, apperr.ClassOf(err))

	_, err = RegressiveSeries(100, RegressiveConfig{Breakpoints: []ValueBreakpoint{{Day: 1, Value: 1}}}, 0)
	require.Error(t, err)
	assert.Equal(t, apperr.ClassBadRequest, apperr.ClassOf(err))
}

func TestCustomSeriesInterpolatesAndSnaps(t *testing.T) {
	cfg := CustomConfig{Breakpoints: []PriceBreakpoint{
		{Day: 1, Price: 100},
		{Day: 5, Price: 300},
	}}

	series, err := CustomSeries(cfg, 6)
	require.NoError(t, err)

	// Linear between breakpoints, exact at the breakpoint, and the last
	// segment's slope keeps going past it.
	assert.Equal(t, []float64{100, 150, 200, 250, 300, 350}, series)
}

func TestCustomSeriesSingleBreakpointIsFlat(t *testing.T) {
	cfg := CustomConfig{Breakpoints: []PriceBreakpoint{{Day: 1, Price: 40}}}

	series, err := CustomSeries(cfg, 4)
	require.NoError(t, err)

	assert.Equal(t, []float64{40, 40, 40, 40}, series)
}

func TestCustomSeriesSlopeChangesAtBreakpoints(t *testing.T) {
	cfg := CustomConfig{Breakpoints: []PriceBreakpoint{
		{Day: 1, Price: 10},
		{Day: 3, Price: 30},
		{Day: 4, Price: 35},
	}}

	series, err := CustomSeries(cfg, 6)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 20, 30, 35, 40, 45}, series)
}

func TestCustomConfigValidation(t *testing.T) {
	cases := map[string]CustomConfig{
		"empty":              {},
		"first day not one":  {Breakpoints: []PriceBreakpoint{{Day: 2, Price: 10}}},
		"day not increasing": {Breakpoints: []PriceBreakpoint{{Day: 1, Price: 10}, {Day: 1, Price: 20}}},
		"price decreasing":   {Breakpoints: []PriceBreakpoint{{Day: 1, Price: 10}, {Day: 3, Price: 5}}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, apperr.ClassBadRequest, apperr.ClassOf(err))
		})
	}
}

func TestRoundPrice(t *testing.T) {
	assert.Equal(t, 0.0, RoundPrice(-4))
	assert.Equal(t, 0.0, RoundPrice(0))
	assert.Equal(t, 2.7, RoundPrice(2.67))
	assert.Equal(t, 2.9, RoundPrice(2.94))
	assert.Equal(t, 3.0, RoundPrice(3.9))
	assert.Equal(t, 95.0, RoundPrice(95.99))
}

func TestRoundFee(t *testing.T) {
	assert.Equal(t, 1.6, RoundFee(1.55))
	assert.Equal(t, 19.9, RoundFee(19.94))
	assert.Equal(t, 25.0, RoundFee(25.4))
	assert.Equal(t, 26.0, RoundFee(25.5))
}
