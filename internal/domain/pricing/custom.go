package pricing

import (
	"rentable/internal/domain/shared/apperr"
)

// PriceBreakpoint pins an absolute cumulative price at a given day.
type PriceBreakpoint struct {
	Day   int     `json:"day" bson:"day"`
	Price float64 `json:"price" bson:"price"`
}

// CustomConfig is a per-listing price curve defined by absolute
// breakpoints. Between breakpoints the price interpolates linearly; after
// the last one it keeps growing by the last segment's per-day delta.
type CustomConfig struct {
	Breakpoints []PriceBreakpoint `json:"breakpoints" bson:"breakpoints"`
}

// Validate enforces the breakpoint shape: first entry at day 1, days and
// prices strictly increasing. Invalid custom config is a request-class
// error since hosts submit it.
func (c CustomConfig) Validate() error {
	if len(c.Breakpoints) == 0 {
		return apperr.BadRequest("pricing: custom config requires breakpoints")
	}
	if c.Breakpoints[0].Day != 1 {
		return apperr.BadRequest("pricing: first custom breakpoint must be at day 1")
	}
	for i := 1; i < len(c.Breakpoints); i++ {
		prev, cur := c.Breakpoints[i-1], c.Breakpoints[i]
		if cur.Day <= prev.Day || cur.Price <= prev.Price {
			return apperr.BadRequest("pricing: custom breakpoints must strictly increase in day and price")
		}
	}
	return nil
}

// CustomSeries computes the cumulative price for each duration from 1 to
// nbUnits. The price snaps exactly to each breakpoint's stated price so
// interpolation cannot drift.
func CustomSeries(cfg CustomConfig, nbUnits int) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if nbUnits <= 0 {
		return nil, apperr.BadRequest("pricing: duration must be positive")
	}

	bps := cfg.Breakpoints
	prices := make([]float64, nbUnits)
	prices[0] = bps[0].Price

	idx := 0
	delta := 0.0
	if len(bps) > 1 {
		delta = (bps[1].Price - bps[0].Price) / float64(bps[1].Day-bps[0].Day)
	}
	for day := 2; day <= nbUnits; day++ {
		if idx+1 < len(bps) && day == bps[idx+1].Day {
			idx++
			prices[day-1] = bps[idx].Price
			if idx+1 < len(bps) {
				delta = (bps[idx+1].Price - bps[idx].Price) / float64(bps[idx+1].Day-bps[idx].Day)
			}
			continue
		}
		prices[day-1] = prices[day-2] + delta
	}
	return prices, nil
}

// CustomPrice returns the price for exactly nbUnits units.
func CustomPrice(cfg CustomConfig, nbUnits int) (float64, error) {
	series, err := CustomSeries(cfg, nbUnits)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}
