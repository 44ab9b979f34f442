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

const acceptBookingKey = "booking.accept"

type AcceptBookingCommand struct {
	BookingID string
	UserID    string
}

func (c AcceptBookingCommand) Key() string { return acceptBookingKey }

type AcceptBookingResult struct {
	BookingID    string `json:"booking_id"`
	State        string `json:"state"`
	AcceptedDate string `json:"accepted_date"`
}

// AcceptBookingHandler is the owner-side acceptance step of the external
// payment flow.
type AcceptBookingHandler struct {
	Bookings domainbooking.Repository
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Now      func() time.Time
}

func (h *AcceptBookingHandler) Handle(ctx context.Context, cmd AcceptBookingCommand) (*AcceptBookingResult, error) {
	if cmd.BookingID == "" {
		return nil, apperr.BadRequest("booking id is required")
	}
	bk, err := h.Bookings.ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		if errors.Is(err, domainbooking.ErrBookingNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, err
	}
	if string(bk.OwnerID) != cmd.UserID {
		return nil, apperr.Forbidden("only the owner can accept a booking")
	}
	now := h.nowUTC()
	if err := bk.Accept(now); err != nil {
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
	return &AcceptBookingResult{
		BookingID:    string(bk.ID),
		State:        string(bk.State),
		AcceptedDate: bk.AcceptedDate.Format(time.RFC3339),
	}, nil
}

func (h *AcceptBookingHandler) nowUTC() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[AcceptBookingCommand, *AcceptBookingResult] = (*AcceptBookingHandler)(nil)
