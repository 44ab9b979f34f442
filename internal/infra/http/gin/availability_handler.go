package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentable/internal/app/commands"
	AvailabilityApp "rentable/internal/app/handlers/availability"
	"rentable/internal/app/queries"
	"rentable/internal/domain/shared/daterange"
)

type AvailabilityHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	q := AvailabilityApp.GetCalendarQuery{ListingID: c.Param("id")}
	if from := c.Query("from"); from != "" {
		day, err := daterange.ParseDay(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		q.From = day
	}
	result, err := queries.Ask[AvailabilityApp.GetCalendarQuery, AvailabilityApp.Calendar](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type blockPeriodRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
}

func (h AvailabilityHandler) Block(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req blockPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := AvailabilityApp.BlockPeriodCommand{
		CommandID: generateCommandID(),
		UserID:    user,
		ListingID: c.Param("id"),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Quantity:  req.Quantity,
		Available: req.Available,
	}
	result, err := commands.Dispatch[AvailabilityApp.BlockPeriodCommand, *AvailabilityApp.BlockPeriodResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
