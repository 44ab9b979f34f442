package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentable/internal/domain/shared/apperr"
)

// writeError maps application errors onto HTTP statuses. Unknown errors
// stay opaque to the client.
func writeError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// requireUser extracts the caller identity. Identity propagation is
// delegated to the gateway in front of this service.
func requireUser(c *gin.Context) (string, bool) {
	user := c.GetHeader("X-User-ID")
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return "", false
	}
	return user, true
}
