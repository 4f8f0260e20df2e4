package handler

import (
	"errors"
	"net/http"

	"github.com/Anantaverma20/NovaIQ/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP status codes. Unknown errors
// surface as 500 with a generic message so internals do not leak.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "an ingestion run is already in progress",
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	default:
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "upstream fetch failed: " + fetchErr.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
	}
}
