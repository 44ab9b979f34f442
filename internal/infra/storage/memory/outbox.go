package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "rentable/internal/app/outbox"
	infraoutbox "rentable/internal/infra/outbox"
)

// Outbox keeps event records in memory and exposes the claimable store
// API so the worker can drain it in standalone mode.
type Outbox struct {
	mu    sync.Mutex
	items map[string]*infraoutbox.EventDocument
	order []string
}

func NewOutbox() *Outbox {
	return &Outbox{items: make(map[string]*infraoutbox.EventDocument)}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	doc := &infraoutbox.EventDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		OccurredAt: record.OccurredAt,
		Aggregate:  record.Aggregate,
		Headers:    record.Headers,
		State:      "NEW",
	}
	o.items[doc.ID] = doc
	o.order = append(o.order, doc.ID)
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range o.order {
		doc := o.items[id]
		if doc.State != "NEW" && doc.State != "FAILED" {
			continue
		}
		if doc.NextAttempt.After(now) {
			continue
		}
		doc.State = "CLAIMED"
		doc.ClaimedBy = workerID
		doc.ClaimedAt = now
		copied := *doc
		return &copied, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if doc, ok := o.items[id]; ok {
		doc.State = "SENT"
		doc.SentAt = time.Now().UTC()
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if doc, ok := o.items[id]; ok {
		doc.State = "FAILED"
		doc.NextAttempt = next
		doc.LastError = errMsg
		doc.Attempts++
	}
	return nil
}

// Pending returns undelivered records, oldest first. Used by tests.
func (o *Outbox) Pending() []infraoutbox.EventDocument {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]infraoutbox.EventDocument, 0, len(o.order))
	for _, id := range o.order {
		doc := o.items[id]
		if doc.State == "SENT" {
			continue
		}
		out = append(out, *doc)
	}
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)
var _ infraoutbox.Store = (*Outbox)(nil)
