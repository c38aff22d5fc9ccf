package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetStats reports chat counts for today, this month, this year and all
// time. The four counts run concurrently in the store; any single failure
// fails the whole request, there are no partial stats.
func (h *handler) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.QueryTimeout)
	defer cancel()

	stats, err := h.store.GetStats(ctx)
	if err != nil {
		log.Error().Err(err).
			Str("requestId", c.GetString("requestID")).
			Msg("Failed to fetch stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
