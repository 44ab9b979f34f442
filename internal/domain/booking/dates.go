package booking

import (
	"time"

	"rentable/internal/domain/listing"
	"rentable/internal/domain/shared/apperr"
	"rentable/internal/domain/shared/daterange"
)

// RangeFor derives the occupied range from a start date and a duration in
// the listing type's time unit.
func RangeFor(start time.Time, nbUnits int, unit listing.TimeUnit) (daterange.Range, error) {
	if nbUnits <= 0 {
		return daterange.Range{}, apperr.BadRequest("Invalid dates")
	}
	switch unit {
	case listing.UnitDay, "":
		return daterange.FromDuration(start, nbUnits)
	default:
		return daterange.Range{}, apperr.Config("booking: unsupported time unit " + string(unit))
	}
}

// ValidateRequestDates checks a requested start date and duration against
// the listing type's booking-time bounds. Zero max bounds are open-ended.
func ValidateRequestDates(start time.Time, nbUnits int, cfg listing.BookingTimeConfig, now time.Time) error {
	if nbUnits <= 0 {
		return apperr.BadRequest("Invalid dates")
	}
	if cfg.MinDuration > 0 && nbUnits < cfg.MinDuration {
		return apperr.BadRequest("Invalid dates")
	}
	if cfg.MaxDuration > 0 && nbUnits > cfg.MaxDuration {
		return apperr.BadRequest("Invalid dates")
	}

	today := daterange.Day(now)
	deltaDays := int(daterange.Day(start).Sub(today).Hours() / 24)
	if deltaDays < cfg.StartDateMinDelta {
		return apperr.BadRequest("Invalid dates")
	}
	if cfg.StartDateMaxDelta > 0 && deltaDays > cfg.StartDateMaxDelta {
		return apperr.BadRequest("Invalid dates")
	}
	return nil
}
