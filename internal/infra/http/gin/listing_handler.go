package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	ListingApp "rentable/internal/app/handlers/listings"
	"rentable/internal/app/queries"
)

type ListingHandler struct {
	Queries queries.Bus
}

func (h ListingHandler) Quote(c *gin.Context) {
	q := ListingApp.GetQuoteQuery{
		ListingID:     c.Param("id"),
		ListingTypeID: c.Query("listing_type_id"),
	}
	if raw := c.Query("nb_time_units"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nb_time_units"})
			return
		}
		q.NbTimeUnits = n
	}
	if raw := c.Query("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
			return
		}
		q.Quantity = n
	}
	result, err := queries.Ask[ListingApp.GetQuoteQuery, ListingApp.Quote](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ListingHTTP = ListingHandler{}
