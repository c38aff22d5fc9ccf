package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dennypradipta/n8n-chat-history/internal/store"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// PaginationResponse represents the pagination metadata
type PaginationResponse struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	Total      int64  `json:"total"`
	TotalPages int64  `json:"totalPages"`
	GroupBy    string `json:"groupBy"`
}

// APIResponse represents the API response structure
type APIResponse struct {
	Data       interface{}        `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// GetChats serves one page of chat history. groupBy=simple pages over rows;
// groupBy=session pages over distinct sessions and returns each selected
// conversation in full, keyed by session id.
func (h *handler) GetChats(c *gin.Context) {
	page := intQuery(c, "page", defaultPage)
	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Page must be greater than 0"})
		return
	}

	pageSize := intQuery(c, "pageSize", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Page size must be between 1 and 100"})
		return
	}

	sortOrder := c.Query("sortOrder")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "asc"
	}

	groupBy := c.Query("groupBy")
	if groupBy != "session" {
		groupBy = "simple"
	}

	params := store.ListParams{
		Page:      page,
		PageSize:  pageSize,
		SortOrder: sortOrder,
		Search:    strings.TrimSpace(c.Query("search")),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.QueryTimeout)
	defer cancel()

	var (
		data  interface{}
		total int64
		err   error
	)
	if groupBy == "session" {
		data, total, err = h.store.ListConversations(ctx, params)
	} else {
		data, total, err = h.store.ListChats(ctx, params)
	}
	if err != nil {
		log.Error().Err(err).
			Str("requestId", c.GetString("requestID")).
			Str("groupBy", groupBy).
			Msg("Failed to fetch chats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Data: data,
		Pagination: PaginationResponse{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
			GroupBy:    groupBy,
		},
	})
}

// intQuery parses an integer query parameter. Missing or unparsable values
// fall back to the default; range validation happens at the call site so
// explicit out-of-range numbers are rejected rather than silently fixed.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func totalPages(total int64, pageSize int) int64 {
	return (total + int64(pageSize) - 1) / int64(pageSize)
}
