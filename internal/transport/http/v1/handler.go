// Package v1 provides the chat HTTP handlers.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xqin77/chatstream/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat/stream", h.StreamChat)
	e.POST("/chat/streams", h.PersistSession)
	e.GET("/chat/sessions/:thread_id", h.GetSession)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
