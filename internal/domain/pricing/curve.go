package pricing

import (
	"rentable/internal/domain/shared/apperr"
)

// ValueBreakpoint scales the daily increment from the given day onwards.
type ValueBreakpoint struct {
	Day   int     `json:"day" bson:"day"`
	Value float64 `json:"value" bson:"value"`
}

// RegressiveConfig is the default price curve: the first day costs the
// listing's day-one price and every further day adds
// dayOne * Daily * breakpointValue, where the breakpoint is the highest
// one whose day has been reached.
type RegressiveConfig struct {
	Daily       float64           `json:"daily" bson:"daily"`
	Breakpoints []ValueBreakpoint `json:"breakpoints" bson:"breakpoints"`
}

// Validate checks the configuration invariant. A violated config is a
// data-integrity bug, not a request error.
func (c RegressiveConfig) Validate() error {
	if len(c.Breakpoints) == 0 {
		return apperr.Config("pricing: regressive config requires breakpoints")
	}
	if c.Breakpoints[0].Day != 1 {
		return apperr.Config("pricing: first regressive breakpoint must be at day 1")
	}
	for i := 1; i < len(c.Breakpoints); i++ {
		if c.Breakpoints[i].Day <= c.Breakpoints[i-1].Day {
			return apperr.Config("pricing: regressive breakpoint days must increase")
		}
	}
	return nil
}

// RegressiveSeries computes the cumulative price for each duration from
// 1 to nbUnits. Every entry is rounded with the money rounding policy and
// never drops below zero.
func RegressiveSeries(dayOne float64, cfg RegressiveConfig, nbUnits int) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if nbUnits <= 0 {
		return nil, apperr.BadRequest("pricing: duration must be positive")
	}

	prices := make([]float64, nbUnits)
	prices[0] = RoundPrice(dayOne)

	idx := 0
	for day := 2; day <= nbUnits; day++ {
		for idx+1 < len(cfg.Breakpoints) && cfg.Breakpoints[idx+1].Day <= day {
			idx++
		}
		price := prices[day-2] + dayOne*cfg.Daily*cfg.Breakpoints[idx].Value
		prices[day-1] = RoundPrice(price)
	}
	return prices, nil
}

// RegressivePrice returns the price for exactly nbUnits units.
func RegressivePrice(dayOne float64, cfg RegressiveConfig, nbUnits int) (float64, error) {
	series, err := RegressiveSeries(dayOne, cfg, nbUnits)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}
