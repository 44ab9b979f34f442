package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentable/internal/domain/listing"
	"rentable/internal/domain/shared/apperr"
)

func TestRangeForDays(t *testing.T) {
	start := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)

	rng, err := RangeFor(start, 4, listing.UnitDay)
	require.NoError(t, err)
	assert.Equal(t, start, rng.Start)
	assert.Equal(t, start.AddDate(0, 0, 4), rng.End)

	rng, err = RangeFor(start, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, rng.NbDays())
}

func TestRangeForRejectsUnknownUnit(t *testing.T) {
	_, err := RangeFor(time.Now(), 2, listing.TimeUnit("w"))
	require.Error(t, err)
	assert.Equal(t, apperr.ClassConfig, apperr.ClassOf(err))
}

func TestValidateRequestDates(t *testing.T) {
	now := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	cfg := listing.BookingTimeConfig{
		TimeUnit:          listing.UnitDay,
		MinDuration:       2,
		MaxDuration:       10,
		StartDateMinDelta: 1,
		StartDateMaxDelta: 30,
	}
	day := func(offset int) time.Time {
		return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	assert.NoError(t, ValidateRequestDates(day(1), 2, cfg, now))
	assert.NoError(t, ValidateRequestDates(day(30), 10, cfg, now))

	cases := map[string]struct {
		start   time.Time
		nbUnits int
	}{
		"zero duration":      {day(1), 0},
		"below min duration": {day(1), 1},
		"above max duration": {day(1), 11},
		"starts today":       {day(0), 2},
		"starts in the past": {day(-3), 2},
		"starts too far out": {day(31), 2},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateRequestDates(tc.start, tc.nbUnits, cfg, now)
			require.Error(t, err)
			assert.Equal(t, apperr.ClassBadRequest, apperr.ClassOf(err))
		})
	}
}

func TestValidateRequestDatesOpenEndedBounds(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	cfg := listing.BookingTimeConfig{TimeUnit: listing.UnitDay}

	assert.NoError(t, ValidateRequestDates(now.AddDate(0, 0, 500), 365, cfg, now))
}
