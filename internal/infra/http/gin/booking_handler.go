package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rentable/internal/app/commands"
	BookingApp "rentable/internal/app/handlers/booking"
)

type BookingHandler struct {
	Commands commands.Bus
}

type createBookingRequest struct {
	ListingID     string `json:"listing_id"`
	ListingTypeID string `json:"listing_type_id"`
	StartDate     string `json:"start_date"`
	NbTimeUnits   int    `json:"nb_time_units"`
	Quantity      int    `json:"quantity"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := BookingApp.RequestBookingCommand{
		CommandID:       generateCommandID(),
		TakerID:         user,
		ListingID:       req.ListingID,
		ListingTypeID:   req.ListingTypeID,
		StartDate:       req.StartDate,
		NbTimeUnits:     req.NbTimeUnits,
		Quantity:        req.Quantity,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[BookingApp.RequestBookingCommand, *BookingApp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Accept(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := BookingApp.AcceptBookingCommand{
		BookingID: c.Param("id"),
		UserID:    user,
	}
	result, err := commands.Dispatch[BookingApp.AcceptBookingCommand, *BookingApp.AcceptBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cmd := BookingApp.CancelBookingCommand{
		BookingID:      c.Param("id"),
		UserID:         user,
		CancellationID: generateCommandID(),
		Reason:         req.Reason,
	}
	result, err := commands.Dispatch[BookingApp.CancelBookingCommand, *BookingApp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
