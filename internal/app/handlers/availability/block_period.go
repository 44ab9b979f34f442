package availability

import (
	"context"
	"errors"
	"time"

	"rentable/internal/app/commands"
	domainavailability "rentable/internal/domain/availability"
	domainlisting "rentable/internal/domain/listing"
	"rentable/internal/domain/shared/apperr"
	"rentable/internal/domain/shared/daterange"
)

const blockPeriodKey = "availability.block"

// BlockPeriodCommand creates a manual availability record on a listing.
// Available true adds capacity over the interval, false blocks it.
type BlockPeriodCommand struct {
	CommandID string
	UserID    string
	ListingID string
	StartDate string
	EndDate   string
	Quantity  int
	Available bool
}

func (c BlockPeriodCommand) Key() string { return blockPeriodKey }

type BlockPeriodResult struct {
	RecordID string `json:"record_id"`
}

type BlockPeriodHandler struct {
	Listings       domainlisting.Repository
	Availabilities domainavailability.Repository
	Now            func() time.Time
}

func (h *BlockPeriodHandler) Handle(ctx context.Context, cmd BlockPeriodCommand) (*BlockPeriodResult, error) {
	if cmd.ListingID == "" {
		return nil, apperr.BadRequest("listing id is required")
	}
	lst, err := h.Listings.ByID(ctx, domainlisting.ListingID(cmd.ListingID))
	if err != nil {
		if errors.Is(err, domainlisting.ErrListingNotFound) {
			return nil, apperr.NotFound("listing not found")
		}
		return nil, err
	}
	if string(lst.Owner) != cmd.UserID {
		return nil, apperr.Forbidden("only the owner can adjust availability")
	}

	start, err := daterange.ParseDay(cmd.StartDate)
	if err != nil {
		return nil, apperr.BadRequest("Invalid dates")
	}
	end, err := daterange.ParseDay(cmd.EndDate)
	if err != nil {
		return nil, apperr.BadRequest("Invalid dates")
	}
	rng, err := daterange.New(start, end)
	if err != nil {
		return nil, apperr.BadRequest("Invalid dates")
	}
	quantity := cmd.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperr.BadRequest("quantity must be positive")
	}

	record := domainavailability.Record{
		ID:        cmd.CommandID,
		ListingID: lst.ID,
		Range:     rng,
		Quantity:  quantity,
		Available: cmd.Available,
		CreatedAt: h.nowUTC(),
	}
	if err := h.Availabilities.Save(ctx, record); err != nil {
		return nil, err
	}
	return &BlockPeriodResult{RecordID: record.ID}, nil
}

func (h *BlockPeriodHandler) nowUTC() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[BlockPeriodCommand, *BlockPeriodResult] = (*BlockPeriodHandler)(nil)
