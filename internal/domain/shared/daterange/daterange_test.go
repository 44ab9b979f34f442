package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTruncatesToDay(t *testing.T) {
	start := time.Date(2026, 10, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2026, 10, 4, 8, 0, 0, 0, time.UTC)

	r, err := New(start, end)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC), r.End)
	assert.Equal(t, 3, r.NbDays())
}

func TestNewRejectsInvertedOrEmpty(t *testing.T) {
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := New(day, day)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(day.AddDate(0, 0, 1), day)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestFromDuration(t *testing.T) {
	start := time.Date(2026, 10, 1, 23, 59, 0, 0, time.UTC)

	r, err := FromDuration(start, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, r.NbDays())
	assert.Equal(t, time.Date(2026, 10, 6, 0, 0, 0, 0, time.UTC), r.End)

	_, err = FromDuration(start, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	a, err := New(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	adjacent, err := New(a.End, a.End.AddDate(0, 0, 3))
	require.NoError(t, err)
	inside, err := New(a.Start.AddDate(0, 0, 1), a.End.AddDate(0, 0, -1))
	require.NoError(t, err)

	assert.False(t, a.Overlaps(adjacent))
	assert.False(t, adjacent.Overlaps(a))
	assert.True(t, a.Overlaps(inside))
}

func TestContainsDay(t *testing.T) {
	r, err := New(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, r.ContainsDay(r.Start))
	assert.True(t, r.ContainsDay(r.End.AddDate(0, 0, -1)))
	assert.False(t, r.ContainsDay(r.End))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-10-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2026-10-05", FormatDay(d))

	for _, bad := range []string{"2026-10-5", "05/10/2026", "2026-10-05T00:00:00Z", ""} {
		_, err := ParseDay(bad)
		assert.ErrorIs(t, err, ErrInvalidDay, bad)
	}
}
