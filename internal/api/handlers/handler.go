package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dennypradipta/n8n-chat-history/internal/config"
	"github.com/dennypradipta/n8n-chat-history/internal/store"
)

// handler is the core struct with all dependencies
type handler struct {
	store  *store.Store
	config *config.Config
}

// NewHandler creates a new handler instance
func NewHandler(store *store.Store, config *config.Config) *handler {
	return &handler{
		store,
		config,
	}
}

// RegisterRoutes attaches the read-only API endpoints to the given group.
func (h *handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/chats", h.GetChats)
	rg.GET("/stats", h.GetStats)
}
