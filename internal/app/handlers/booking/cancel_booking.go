package booking

import (
	"context"
	"errors"
	"time"

	"rentable/internal/app/commands"
	"rentable/internal/app/outbox"
	domainbooking "rentable/internal/domain/booking"
	"rentable/internal/domain/shared/apperr"
)

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID      string
	UserID         string
	CancellationID string
	Reason         string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	BookingID      string `json:"booking_id"`
	State          string `json:"state"`
	CancellationID string `json:"cancellation_id"`
}

// CancelBookingHandler releases a booking before completion. Either party
// may cancel; refunds are handled by the payment flow downstream.
type CancelBookingHandler struct {
	Bookings domainbooking.Repository
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Now      func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	if cmd.BookingID == "" || cmd.CancellationID == "" {
		return nil, apperr.BadRequest("booking id and cancellation id are required")
	}
	bk, err := h.Bookings.ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		if errors.Is(err, domainbooking.ErrBookingNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, err
	}
	if string(bk.OwnerID) != cmd.UserID && bk.TakerID != cmd.UserID {
		return nil, apperr.Forbidden("only booking parties can cancel")
	}
	now := h.nowUTC()
	if err := bk.Cancel(cmd.CancellationID, cmd.Reason, now); err != nil {
		return nil, apperr.BadRequest(err.Error())
	}
	if err := h.Bookings.Save(ctx, bk); err != nil {
		return nil, err
	}
	pending := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	return &CancelBookingResult{
		BookingID:      string(bk.ID),
		State:          string(bk.State),
		CancellationID: bk.CancellationID,
	}, nil
}

func (h *CancelBookingHandler) nowUTC() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
