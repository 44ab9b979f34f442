package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentable/internal/domain/shared/events"
)

type stubEvent struct {
	name      string
	aggregate string
	at        time.Time
}

func (e stubEvent) EventName() string     { return e.name }
func (e stubEvent) AggregateID() string   { return e.aggregate }
func (e stubEvent) OccurredAt() time.Time { return e.at }

type collectingOutbox struct {
	records []EventRecord
}

func (c *collectingOutbox) Add(_ context.Context, record EventRecord) error {
	c.records = append(c.records, record)
	return nil
}

func TestEncodeDefaultIDsAreUniqueUUIDs(t *testing.T) {
	enc := JSONEventEncoder{}
	ev := stubEvent{name: "booking.requested", aggregate: "bk-1", at: time.Now()}

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		rec, err := enc.Encode(ev)
		require.NoError(t, err)
		_, err = uuid.Parse(rec.ID)
		require.NoError(t, err)
		_, dup := seen[rec.ID]
		require.False(t, dup, "duplicate event id %s", rec.ID)
		seen[rec.ID] = struct{}{}
	}
}

func TestEncodeKeepsEventMetadata(t *testing.T) {
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	enc := JSONEventEncoder{IDGenerator: func() string { return "evt-1" }}

	rec, err := enc.Encode(stubEvent{name: "booking.requested", aggregate: "bk-1", at: at})
	require.NoError(t, err)

	assert.Equal(t, "evt-1", rec.ID)
	assert.Equal(t, "booking.requested", rec.Name)
	assert.Equal(t, "bk-1", rec.Aggregate)
	assert.Equal(t, at, rec.OccurredAt)
	assert.NotEmpty(t, rec.Payload)
}

func TestRecordDomainEventsNilOutboxDrops(t *testing.T) {
	evs := []events.DomainEvent{stubEvent{name: "booking.requested"}}
	require.NoError(t, RecordDomainEvents(context.Background(), nil, nil, evs))
}

func TestRecordDomainEventsStoresAll(t *testing.T) {
	box := &collectingOutbox{}
	evs := []events.DomainEvent{
		stubEvent{name: "booking.requested", aggregate: "bk-1", at: time.Now()},
		stubEvent{name: "booking.accepted", aggregate: "bk-1", at: time.Now()},
	}

	require.NoError(t, RecordDomainEvents(context.Background(), box, nil, evs))
	require.Len(t, box.records, 2)
	assert.NotEqual(t, box.records[0].ID, box.records[1].ID)
}
